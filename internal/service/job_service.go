package service

import (
	"fmt"
	"log"
	"time"

	"github.com/sokdnv/padel-bot/internal/repository"
)

// JobService holds the recurring maintenance work driven by cron: healing
// the in-memory reminder timers against stored state and seeding the weekly
// game slots.
type JobService struct {
	Repo      *repository.JobRepository
	Reminders *ReminderService
}

func NewJobService(repo *repository.JobRepository, reminders *ReminderService) *JobService {
	return &JobService{Repo: repo, Reminders: reminders}
}

// ReconcileReminders re-derives every deferred task from stored game state.
// Replacement is idempotent, so running this on top of live timers leaves
// exactly one task per (game, purpose).
func (s *JobService) ReconcileReminders() error {
	log.Println("Cron Job: Reconciling reminder tasks with stored games...")
	if err := s.Reminders.ScheduleAllUpcoming(); err != nil {
		return fmt.Errorf("cron job: failed to reconcile reminders: %w", err)
	}
	return nil
}

// SeedWeeklyGames creates empty slots for the next N game Thursdays.
func (s *JobService) SeedWeeklyGames(weeks int) error {
	log.Printf("Cron Job: Seeding game slots for the next %d Thursdays...", weeks)

	created, err := s.Repo.SeedGameDates(nextThursdays(time.Now().In(GameTimezone), weeks))
	if err != nil {
		return fmt.Errorf("cron job: failed to seed game dates: %w", err)
	}

	log.Printf("Cron Job: Seeded %d new game slots", created)
	return nil
}

// CleanupOldGames drops games finished more than keepDays ago.
func (s *JobService) CleanupOldGames(keepDays int) error {
	cutoff := time.Now().In(GameTimezone).AddDate(0, 0, -keepDays)
	deleted, err := s.Repo.DeleteGamesBefore(cutoff)
	if err != nil {
		return fmt.Errorf("cron job: failed to delete old games: %w", err)
	}
	if deleted > 0 {
		log.Printf("Cron Job: Removed %d games older than %s", deleted, cutoff.Format("2006-01-02"))
	}
	return nil
}

// nextThursdays returns the dates of the next n Thursdays, starting with
// today when it is one.
func nextThursdays(from time.Time, n int) []time.Time {
	daysAhead := (int(time.Thursday) - int(from.Weekday()) + 7) % 7
	first := from.AddDate(0, 0, daysAhead)

	dates := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		d := first.AddDate(0, 0, 7*i)
		dates = append(dates, time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC))
	}
	return dates
}
