package service

import (
	"fmt"
	"log"
	"time"

	"github.com/sokdnv/padel-bot/internal/db"
)

// Games are always announced in a single fixed offset, not machine-local
// time, so fire instants are deterministic regardless of where the process
// runs.
var GameTimezone = time.FixedZone("UTC+3", 3*60*60)

type ReminderConfig struct {
	Location    *time.Location
	Lead        time.Duration // how long before the start the reminder fires
	MaxUpcoming int           // reconciliation scan limit
}

func DefaultReminderConfig() ReminderConfig {
	return ReminderConfig{
		Location:    GameTimezone,
		Lead:        3 * time.Hour,
		MaxUpcoming: 100,
	}
}

// ReminderService computes fire instants for pre-game reminders and
// post-game payment offers and drives the task registry. Dispatch re-reads
// game state at fire time: the roster may have changed, or the game may be
// gone, since the timer was armed.
type ReminderService struct {
	store    SlotStore
	users    UserDirectory
	notifier Notifier
	registry *TaskRegistry
	cfg      ReminderConfig
	now      func() time.Time
}

func NewReminderService(store SlotStore, users UserDirectory, notifier Notifier, registry *TaskRegistry, cfg ReminderConfig) *ReminderService {
	if cfg.Location == nil {
		cfg.Location = GameTimezone
	}
	if cfg.Lead == 0 {
		cfg.Lead = 3 * time.Hour
	}
	if cfg.MaxUpcoming == 0 {
		cfg.MaxUpcoming = 100
	}
	return &ReminderService{
		store:    store,
		users:    users,
		notifier: notifier,
		registry: registry,
		cfg:      cfg,
		now:      time.Now,
	}
}

// StartInstant combines the game's date and time-of-day in the configured
// zone. Returns false when no time is set.
func (s *ReminderService) StartInstant(game *db.GameSlot) (time.Time, bool) {
	if !game.HasTime() {
		return time.Time{}, false
	}
	hour, minute, err := ParseGameTime(game.Time.String)
	if err != nil {
		log.Printf("Skipping scheduling for %s: %v", DateKey(game.Date), err)
		return time.Time{}, false
	}
	d := game.Date
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, s.cfg.Location), true
}

// Reschedule recomputes both fire instants from current game state and
// replaces the corresponding tasks. A game without a time-of-day schedules
// nothing. The reminder is armed regardless of the current roster (the
// roster is read at fire time); the payment offer is armed only when the
// game has a creator, who is the one prompted.
func (s *ReminderService) Reschedule(game *db.GameSlot) {
	if game == nil {
		return
	}
	start, ok := s.StartInstant(game)
	if !ok {
		return
	}

	date := game.Date
	dateKey := DateKey(date)

	reminderKey := TaskKey{Date: dateKey, Purpose: PurposeReminder}
	reminderAt := start.Add(-s.cfg.Lead)
	if !s.registry.Schedule(reminderKey, reminderAt, func() { s.sendGameReminder(date) }) {
		s.registry.Cancel(reminderKey)
	}

	paymentKey := TaskKey{Date: dateKey, Purpose: PurposePaymentOffer}
	if game.Admin.Valid {
		paymentAt := start.Add(time.Duration(game.Duration) * time.Minute)
		if !s.registry.Schedule(paymentKey, paymentAt, func() { s.sendPaymentOffer(date) }) {
			s.registry.Cancel(paymentKey)
		}
	}
}

// CancelGameTasks drops all deferred tasks for the game, both purposes.
func (s *ReminderService) CancelGameTasks(date time.Time) {
	s.registry.CancelAllForDate(DateKey(date))
}

// ScheduleAllUpcoming re-derives tasks for every upcoming game with a set
// time. This is the sole recovery path after a restart: timers are not
// persisted. One bad game must not block the rest, so all per-game failures
// are handled inside Reschedule.
func (s *ReminderService) ScheduleAllUpcoming() error {
	games, err := s.store.ListUpcomingWithTime(s.cfg.MaxUpcoming)
	if err != nil {
		return fmt.Errorf("failed to list upcoming games: %w", err)
	}

	for i := range games {
		s.Reschedule(&games[i])
	}

	log.Printf("Reconciled reminders for %d upcoming games, %d tasks active", len(games), s.registry.Active())
	return nil
}

// sendGameReminder delivers the reminder to every player currently
// registered. Per-recipient failures are logged and skipped; a total failure
// is logged and the task still counts as fired (no retry).
func (s *ReminderService) sendGameReminder(date time.Time) {
	game, err := s.store.GetGameByDate(date)
	if err != nil {
		log.Printf("Reminder for %s: failed to re-read game: %v", DateKey(date), err)
		return
	}
	if game == nil {
		log.Printf("Reminder for %s: game no longer exists, nothing sent", DateKey(date))
		return
	}

	players := game.Players()
	if len(players) == 0 {
		log.Printf("Reminder for %s: no registered players, nothing sent", DateKey(date))
		return
	}

	names, err := s.users.ResolveDisplayNames(players)
	if err != nil {
		log.Printf("Reminder for %s: failed to resolve names: %v", DateKey(date), err)
		names = map[int64]string{}
	}
	playerNames := make([]string, 0, len(players))
	for _, id := range players {
		name, ok := names[id]
		if !ok {
			name = FallbackName(id)
		}
		playerNames = append(playerNames, name)
	}

	message := reminderMessage(game, playerNames, int(s.cfg.Lead.Hours()))

	sent := 0
	for _, id := range players {
		if err := s.notifier.Send(id, message); err != nil {
			log.Printf("Failed to send reminder to player %d: %v", id, err)
			continue
		}
		sent++
	}
	log.Printf("Sent reminders for game %s (%d/%d delivered)", FormatDate(game.Date), sent, len(players))
}

// sendPaymentOffer prompts the game's creator, and only the creator, to
// start collecting money after the game ends.
func (s *ReminderService) sendPaymentOffer(date time.Time) {
	game, err := s.store.GetGameByDate(date)
	if err != nil {
		log.Printf("Payment offer for %s: failed to re-read game: %v", DateKey(date), err)
		return
	}
	if game == nil || !game.Admin.Valid {
		log.Printf("Payment offer for %s: game gone or has no creator, nothing sent", DateKey(date))
		return
	}

	if err := s.notifier.Send(game.Admin.Int64, paymentOfferMessage(game)); err != nil {
		log.Printf("Failed to send payment offer to creator %d: %v", game.Admin.Int64, err)
		return
	}
	log.Printf("Sent payment offer to creator %d for game %s", game.Admin.Int64, FormatDate(game.Date))
}
