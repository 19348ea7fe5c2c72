package service

import (
	"fmt"
	"log"

	"github.com/sokdnv/padel-bot/internal/db"
	"github.com/sokdnv/padel-bot/internal/entities"
	"github.com/sokdnv/padel-bot/internal/repository"
)

// GameCreationService creates game slots on behalf of an organizer. The date
// is the unique key: creating over an existing date is rejected, not
// overwritten.
type GameCreationService struct {
	repo          *repository.GameRepository
	reminders     *ReminderService
	broadcast     *BroadcastService
	notifyEnabled bool
}

func NewGameCreationService(repo *repository.GameRepository, reminders *ReminderService, broadcast *BroadcastService, notifyEnabled bool) *GameCreationService {
	return &GameCreationService{
		repo:          repo,
		reminders:     reminders,
		broadcast:     broadcast,
		notifyEnabled: notifyEnabled,
	}
}

// CreateGame inserts the game, optionally seating the creator in the first
// seat, arms its deferred tasks and announces it.
func (s *GameCreationService) CreateGame(game *db.GameSlot, autoRegister bool) entities.Result {
	if autoRegister && game.Admin.Valid {
		game.Player1 = game.Admin
	}

	created, err := s.repo.CreateGame(game)
	if err != nil {
		log.Printf("Create %s: failed: %v", DateKey(game.Date), err)
		return storeErrorResult
	}
	if !created {
		return entities.ErrorResult(entities.OutcomeAlreadyExists, "⚠️ На эту дату игра уже создана")
	}

	s.reminders.Reschedule(game)

	dateFormatted := FormatDate(game.Date)
	if s.notifyEnabled {
		var exclude int64
		if game.Admin.Valid {
			exclude = game.Admin.Int64
		}
		s.broadcast.SendToAllAsync(newGameBroadcast(game), exclude)
	}

	log.Printf("Game %s created by %d", DateKey(game.Date), game.Admin.Int64)
	return entities.SuccessResult(entities.OutcomeCreated, fmt.Sprintf("✅ Игра на %s создана", dateFormatted))
}
