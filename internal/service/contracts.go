package service

import (
	"time"

	"github.com/sokdnv/padel-bot/internal/db"
)

// SlotStore is the durable source of truth for games and seat assignments.
// Seat claim/release must be atomic with respect to concurrent calls on the
// same game: when two joins race for the last seat, exactly one wins and the
// loser observes Full on a retry read. The Postgres repository provides this
// with single-statement conditional updates; services never read-then-write
// seat state themselves.
type SlotStore interface {
	GetGameByDate(date time.Time) (*db.GameSlot, error)
	ClaimSeat(date time.Time, userID int64) (db.ClaimResult, error)
	ReleaseSeat(date time.Time, userID int64) (db.ReleaseResult, error)
	DeleteGame(date time.Time, adminID int64) (db.DeleteResult, error)
	ListUpcomingWithTime(limit int) ([]db.GameSlot, error)
}

// UserDirectory resolves user IDs to display names and enumerates the
// broadcast audience.
type UserDirectory interface {
	SaveUser(user db.User) error
	ResolveDisplayNames(userIDs []int64) (map[int64]string, error)
	AllUserIDs() ([]int64, error)
}

// Notifier delivers one message to one user. Failures are per-call and must
// be tolerated by callers (a blocked bot is not a process error).
type Notifier interface {
	Send(userID int64, message string) error
}
