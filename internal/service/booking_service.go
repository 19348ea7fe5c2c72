package service

import (
	"fmt"
	"log"
	"time"

	"github.com/sokdnv/padel-bot/internal/db"
	"github.com/sokdnv/padel-bot/internal/entities"
)

// BookingService orchestrates join/leave/delete against the slot store.
// Seat atomicity lives in the store; this layer checks preconditions, maps
// store results to UI outcomes, replaces the game's deferred tasks after
// every successful mutation and kicks off best-effort broadcasts.
type BookingService struct {
	store         SlotStore
	users         UserDirectory
	reminders     *ReminderService
	broadcast     *BroadcastService
	notifyEnabled bool
}

func NewBookingService(store SlotStore, users UserDirectory, reminders *ReminderService, broadcast *BroadcastService, notifyEnabled bool) *BookingService {
	return &BookingService{
		store:         store,
		users:         users,
		reminders:     reminders,
		broadcast:     broadcast,
		notifyEnabled: notifyEnabled,
	}
}

var storeErrorResult = entities.ErrorResult(entities.OutcomeStoreError, "❌ Что-то пошло не так, попробуйте позже")

// Join registers user on the game dated date. Joining a game the user is
// already in is a no-op returning AlreadyJoined, never a second seat.
func (s *BookingService) Join(date time.Time, user db.User) entities.Result {
	game, err := s.store.GetGameByDate(date)
	if err != nil {
		log.Printf("Join %s: failed to read game: %v", DateKey(date), err)
		return storeErrorResult
	}
	if game == nil {
		return entities.ErrorResult(entities.OutcomeNotFound, "❌ Игра не найдена")
	}
	if game.HasPlayer(user.ID) {
		return entities.ErrorResult(entities.OutcomeAlreadyJoined, "⚠️ Вы уже записаны на эту игру")
	}
	if game.IsFull() {
		return entities.ErrorResult(entities.OutcomeFull, "❌ Нет свободных мест")
	}

	res, err := s.store.ClaimSeat(date, user.ID)
	if err != nil {
		log.Printf("Join %s: claim failed for user %d: %v", DateKey(date), user.ID, err)
		return storeErrorResult
	}
	switch res {
	case db.ClaimNotFound:
		return entities.ErrorResult(entities.OutcomeNotFound, "❌ Игра не найдена")
	case db.ClaimAlreadyMember:
		return entities.ErrorResult(entities.OutcomeAlreadyJoined, "⚠️ Вы уже записаны на эту игру")
	case db.ClaimFull:
		return entities.ErrorResult(entities.OutcomeFull, "❌ Нет свободных мест")
	}

	if err := s.users.SaveUser(user); err != nil {
		log.Printf("Join %s: failed to save user %d: %v", DateKey(date), user.ID, err)
	}

	s.rescheduleAfterChange(date)

	dateFormatted := FormatDate(date)
	if s.notifyEnabled {
		s.broadcast.SendToAllAsync(joinedBroadcast(DisplayName(user), dateFormatted), user.ID)
	}

	log.Printf("Player %d joined game %s", user.ID, DateKey(date))
	return entities.SuccessResult(entities.OutcomeJoined, fmt.Sprintf("✅ Вы записаны на %s", dateFormatted))
}

// Leave removes user's seat. Leaving a game the user is not in is a no-op
// returning NotJoined.
func (s *BookingService) Leave(date time.Time, user db.User) entities.Result {
	game, err := s.store.GetGameByDate(date)
	if err != nil {
		log.Printf("Leave %s: failed to read game: %v", DateKey(date), err)
		return storeErrorResult
	}
	if game == nil {
		return entities.ErrorResult(entities.OutcomeNotFound, "❌ Игра не найдена")
	}
	if !game.HasPlayer(user.ID) {
		return entities.ErrorResult(entities.OutcomeNotJoined, "⚠️ Вы не записаны на эту игру")
	}

	res, err := s.store.ReleaseSeat(date, user.ID)
	if err != nil {
		log.Printf("Leave %s: release failed for user %d: %v", DateKey(date), user.ID, err)
		return storeErrorResult
	}
	switch res {
	case db.ReleaseNotFound:
		return entities.ErrorResult(entities.OutcomeNotFound, "❌ Игра не найдена")
	case db.ReleaseNotMember:
		return entities.ErrorResult(entities.OutcomeNotJoined, "⚠️ Вы не записаны на эту игру")
	}

	s.rescheduleAfterChange(date)

	dateFormatted := FormatDate(date)
	if s.notifyEnabled {
		s.broadcast.SendToAllAsync(leftBroadcast(DisplayName(user), dateFormatted), user.ID)
	}

	log.Printf("Player %d left game %s", user.ID, DateKey(date))
	return entities.SuccessResult(entities.OutcomeLeft, fmt.Sprintf("✅ Вы удалены из %s", dateFormatted))
}

// Delete removes the game. Only the creator may delete; previously seated
// players (minus the requester) are told the game is off, and every deferred
// task for the game is cancelled.
func (s *BookingService) Delete(date time.Time, user db.User) entities.Result {
	game, err := s.store.GetGameByDate(date)
	if err != nil {
		log.Printf("Delete %s: failed to read game: %v", DateKey(date), err)
		return storeErrorResult
	}
	if game == nil {
		return entities.ErrorResult(entities.OutcomeNotFound, "❌ Игра не найдена")
	}
	if !game.Admin.Valid || game.Admin.Int64 != user.ID {
		return entities.ErrorResult(entities.OutcomeForbidden, "❌ Только создатель может удалить игру")
	}

	players := game.Players()

	res, err := s.store.DeleteGame(date, user.ID)
	if err != nil {
		log.Printf("Delete %s: failed: %v", DateKey(date), err)
		return storeErrorResult
	}
	switch res {
	case db.DeleteNotFound:
		return entities.ErrorResult(entities.OutcomeNotFound, "❌ Игра не найдена")
	case db.DeleteForbidden:
		return entities.ErrorResult(entities.OutcomeForbidden, "❌ Только создатель может удалить игру")
	}

	s.reminders.CancelGameTasks(date)

	dateFormatted := FormatDate(date)
	recipients := make([]int64, 0, len(players))
	for _, id := range players {
		if id != user.ID {
			recipients = append(recipients, id)
		}
	}
	if s.notifyEnabled && len(recipients) > 0 {
		s.broadcast.SendToPlayersAsync(cancelledBroadcast(DisplayName(user), dateFormatted), recipients)
	}

	log.Printf("Game %s deleted by creator %d", DateKey(date), user.ID)
	return entities.Result{
		Outcome: entities.OutcomeDeleted,
		Success: true,
		Message: fmt.Sprintf("✅ Игра на %s удалена", dateFormatted),
		Alert:   true,
	}
}

// rescheduleAfterChange re-reads the game and replaces its deferred tasks so
// a timer armed before the mutation never outlives the state it was computed
// from.
func (s *BookingService) rescheduleAfterChange(date time.Time) {
	game, err := s.store.GetGameByDate(date)
	if err != nil {
		log.Printf("Reschedule %s: failed to re-read game: %v", DateKey(date), err)
		return
	}
	s.reminders.Reschedule(game)
}
