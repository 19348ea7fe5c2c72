package repository

import (
	"database/sql"
	"fmt"
	"time"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// SeedGameDates inserts empty game slots for the given dates, skipping dates
// that already have one. Returns how many were actually created.
func (r *JobRepository) SeedGameDates(dates []time.Time) (int, error) {
	created := 0
	for _, date := range dates {
		result, err := r.DB.Exec(`
			INSERT INTO games (date)
			VALUES ($1)
			ON CONFLICT (date) DO NOTHING`,
			dateOnly(date),
		)
		if err != nil {
			return created, fmt.Errorf("error seeding game on %s: %w", date.Format("2006-01-02"), err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return created, fmt.Errorf("error reading seed result: %w", err)
		}
		created += int(affected)
	}
	return created, nil
}

// DeleteGamesBefore removes finished games older than the cutoff.
func (r *JobRepository) DeleteGamesBefore(cutoff time.Time) (int64, error) {
	result, err := r.DB.Exec(`DELETE FROM games WHERE date < $1`, dateOnly(cutoff))
	if err != nil {
		return 0, fmt.Errorf("error deleting old games: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading cleanup result: %w", err)
	}
	return affected, nil
}
