package db

import (
	"database/sql"
	"time"
)

const MaxPlayers = 4

type GameSlot struct {
	Date     time.Time
	Time     sql.NullString // "HH:MM", empty when no start time is set
	Duration int            // minutes
	Location sql.NullString
	Court    sql.NullInt64
	Admin    sql.NullInt64
	Player1  sql.NullInt64
	Player2  sql.NullInt64
	Player3  sql.NullInt64
	Player4  sql.NullInt64
}

// Players returns the registered player IDs in seat order, skipping free seats.
func (g *GameSlot) Players() []int64 {
	var players []int64
	for _, seat := range []sql.NullInt64{g.Player1, g.Player2, g.Player3, g.Player4} {
		if seat.Valid {
			players = append(players, seat.Int64)
		}
	}
	return players
}

func (g *GameSlot) FreeSlots() int {
	return MaxPlayers - len(g.Players())
}

func (g *GameSlot) IsFull() bool {
	return g.FreeSlots() == 0
}

func (g *GameSlot) HasPlayer(userID int64) bool {
	for _, id := range g.Players() {
		if id == userID {
			return true
		}
	}
	return false
}

func (g *GameSlot) HasTime() bool {
	return g.Time.Valid && g.Time.String != ""
}

type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

type Admin struct {
	ID           int
	Email        string
	PasswordHash string
}

// ClaimResult reports the outcome of an atomic seat claim.
type ClaimResult int

const (
	ClaimClaimed ClaimResult = iota
	ClaimAlreadyMember
	ClaimFull
	ClaimNotFound
)

// ReleaseResult reports the outcome of an atomic seat release.
type ReleaseResult int

const (
	ReleaseReleased ReleaseResult = iota
	ReleaseNotMember
	ReleaseNotFound
)

// DeleteResult reports the outcome of a creator-only game deletion.
type DeleteResult int

const (
	DeleteDeleted DeleteResult = iota
	DeleteForbidden
	DeleteNotFound
)
