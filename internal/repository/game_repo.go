package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sokdnv/padel-bot/internal/db"
)

const gameFields = `date, "time", duration, location, court, admin, player_1, player_2, player_3, player_4`

type GameRepository struct {
	DB *sql.DB
}

func NewGameRepository(database *sql.DB) *GameRepository {
	return &GameRepository{DB: database}
}

func scanGame(row interface{ Scan(...any) error }) (*db.GameSlot, error) {
	var g db.GameSlot
	err := row.Scan(
		&g.Date, &g.Time, &g.Duration, &g.Location, &g.Court, &g.Admin,
		&g.Player1, &g.Player2, &g.Player3, &g.Player4,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GameRepository) queryGames(query string, args ...any) ([]db.GameSlot, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying games: %w", err)
	}
	defer rows.Close()

	var games []db.GameSlot
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning game row: %w", err)
		}
		games = append(games, *g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating game rows: %w", err)
	}
	return games, nil
}

// GetGameByDate returns the game for the given date, or nil when none exists.
func (r *GameRepository) GetGameByDate(date time.Time) (*db.GameSlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM games WHERE date = $1`, gameFields)
	g, err := scanGame(r.DB.QueryRow(query, dateOnly(date)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying game by date: %w", err)
	}
	return g, nil
}

// ClaimSeat assigns userID the first free seat in a single conditional
// UPDATE. The CASE chain evaluates against the pre-update row, so exactly
// one seat is written, and the WHERE clause makes the statement a no-op
// when the user is already seated or the game is full. Postgres serializes
// concurrent updates on the row, which is what makes the last-seat race
// safe.
func (r *GameRepository) ClaimSeat(date time.Time, userID int64) (db.ClaimResult, error) {
	query := `
		UPDATE games SET
			player_1 = CASE WHEN player_1 IS NULL THEN $2 ELSE player_1 END,
			player_2 = CASE WHEN player_1 IS NOT NULL AND player_2 IS NULL THEN $2 ELSE player_2 END,
			player_3 = CASE WHEN player_1 IS NOT NULL AND player_2 IS NOT NULL AND player_3 IS NULL THEN $2 ELSE player_3 END,
			player_4 = CASE WHEN player_1 IS NOT NULL AND player_2 IS NOT NULL AND player_3 IS NOT NULL AND player_4 IS NULL THEN $2 ELSE player_4 END
		WHERE date = $1
		  AND $2 NOT IN (COALESCE(player_1, -1), COALESCE(player_2, -1), COALESCE(player_3, -1), COALESCE(player_4, -1))
		  AND (player_1 IS NULL OR player_2 IS NULL OR player_3 IS NULL OR player_4 IS NULL)`
	result, err := r.DB.Exec(query, dateOnly(date), userID)
	if err != nil {
		return db.ClaimNotFound, fmt.Errorf("error claiming seat: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return db.ClaimNotFound, fmt.Errorf("error reading claim result: %w", err)
	}
	if affected == 1 {
		return db.ClaimClaimed, nil
	}

	// The update matched nothing; a retry read tells the caller why.
	game, err := r.GetGameByDate(date)
	if err != nil {
		return db.ClaimNotFound, err
	}
	switch {
	case game == nil:
		return db.ClaimNotFound, nil
	case game.HasPlayer(userID):
		return db.ClaimAlreadyMember, nil
	default:
		return db.ClaimFull, nil
	}
}

// ReleaseSeat frees the seat occupied by userID.
func (r *GameRepository) ReleaseSeat(date time.Time, userID int64) (db.ReleaseResult, error) {
	query := `
		UPDATE games SET
			player_1 = CASE WHEN player_1 = $2 THEN NULL ELSE player_1 END,
			player_2 = CASE WHEN player_2 = $2 THEN NULL ELSE player_2 END,
			player_3 = CASE WHEN player_3 = $2 THEN NULL ELSE player_3 END,
			player_4 = CASE WHEN player_4 = $2 THEN NULL ELSE player_4 END
		WHERE date = $1
		  AND $2 IN (COALESCE(player_1, -1), COALESCE(player_2, -1), COALESCE(player_3, -1), COALESCE(player_4, -1))`
	result, err := r.DB.Exec(query, dateOnly(date), userID)
	if err != nil {
		return db.ReleaseNotFound, fmt.Errorf("error releasing seat: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return db.ReleaseNotFound, fmt.Errorf("error reading release result: %w", err)
	}
	if affected == 1 {
		return db.ReleaseReleased, nil
	}

	game, err := r.GetGameByDate(date)
	if err != nil {
		return db.ReleaseNotFound, err
	}
	if game == nil {
		return db.ReleaseNotFound, nil
	}
	return db.ReleaseNotMember, nil
}

// DeleteGame removes the game; the WHERE clause enforces that only the
// creator can do it.
func (r *GameRepository) DeleteGame(date time.Time, adminID int64) (db.DeleteResult, error) {
	result, err := r.DB.Exec(`DELETE FROM games WHERE date = $1 AND admin = $2`, dateOnly(date), adminID)
	if err != nil {
		return db.DeleteNotFound, fmt.Errorf("error deleting game: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return db.DeleteNotFound, fmt.Errorf("error reading delete result: %w", err)
	}
	if affected == 1 {
		return db.DeleteDeleted, nil
	}

	game, err := r.GetGameByDate(date)
	if err != nil {
		return db.DeleteNotFound, err
	}
	if game == nil {
		return db.DeleteNotFound, nil
	}
	return db.DeleteForbidden, nil
}

// CreateGame inserts a new game. The date is the unique key; an existing
// game on that date wins and created is false.
func (r *GameRepository) CreateGame(game *db.GameSlot) (created bool, err error) {
	query := `
		INSERT INTO games (date, "time", duration, location, court, admin, player_1)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (date) DO NOTHING`
	result, err := r.DB.Exec(query,
		dateOnly(game.Date), game.Time, game.Duration, game.Location, game.Court, game.Admin, game.Player1,
	)
	if err != nil {
		return false, fmt.Errorf("error creating game: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading create result: %w", err)
	}
	return affected == 1, nil
}

// ListUpcomingWithTime returns future games that have a start time set,
// soonest first. Used to re-derive deferred tasks.
func (r *GameRepository) ListUpcomingWithTime(limit int) ([]db.GameSlot, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM games
		WHERE date >= CURRENT_DATE AND "time" IS NOT NULL
		ORDER BY date, "time"
		LIMIT $1`, gameFields)
	return r.queryGames(query, limit)
}

// GetUpcomingGames returns future games with pagination.
func (r *GameRepository) GetUpcomingGames(limit, offset int) ([]db.GameSlot, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM games
		WHERE date >= CURRENT_DATE
		ORDER BY date
		LIMIT $1 OFFSET $2`, gameFields)
	return r.queryGames(query, limit, offset)
}

// GetAvailableGames returns future games with at least one free seat.
func (r *GameRepository) GetAvailableGames(limit, offset int) ([]db.GameSlot, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM games
		WHERE date >= CURRENT_DATE
		  AND (player_1 IS NULL OR player_2 IS NULL OR player_3 IS NULL OR player_4 IS NULL)
		ORDER BY date
		LIMIT $1 OFFSET $2`, gameFields)
	return r.queryGames(query, limit, offset)
}

// GetUserGames returns games the user is seated in, including yesterday's.
func (r *GameRepository) GetUserGames(userID int64, limit, offset int) ([]db.GameSlot, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM games
		WHERE date >= CURRENT_DATE - INTERVAL '1 day'
		  AND (player_1 = $1 OR player_2 = $1 OR player_3 = $1 OR player_4 = $1)
		ORDER BY date
		LIMIT $2 OFFSET $3`, gameFields)
	return r.queryGames(query, userID, limit, offset)
}

func (r *GameRepository) countQuery(query string, args ...any) (int, error) {
	var count int
	if err := r.DB.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting games: %w", err)
	}
	return count, nil
}

func (r *GameRepository) CountUpcomingGames() (int, error) {
	return r.countQuery(`SELECT COUNT(*) FROM games WHERE date >= CURRENT_DATE`)
}

func (r *GameRepository) CountAvailableGames() (int, error) {
	return r.countQuery(`
		SELECT COUNT(*) FROM games
		WHERE date >= CURRENT_DATE
		  AND (player_1 IS NULL OR player_2 IS NULL OR player_3 IS NULL OR player_4 IS NULL)`)
}

func (r *GameRepository) CountUserGames(userID int64) (int, error) {
	return r.countQuery(`
		SELECT COUNT(*) FROM games
		WHERE date >= CURRENT_DATE - INTERVAL '1 day'
		  AND (player_1 = $1 OR player_2 = $1 OR player_3 = $1 OR player_4 = $1)`, userID)
}

// dateOnly strips the time-of-day so the DATE key compares cleanly.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
