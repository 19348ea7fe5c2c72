package service

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/sokdnv/padel-bot/internal/db"
)

func testGame(date time.Time, timeStr string, adminID int64, players ...int64) *db.GameSlot {
	g := &db.GameSlot{Date: date, Duration: 120}
	if timeStr != "" {
		g.Time = sql.NullString{String: timeStr, Valid: true}
	}
	if adminID != 0 {
		g.Admin = sql.NullInt64{Int64: adminID, Valid: true}
	}
	seats := []*sql.NullInt64{&g.Player1, &g.Player2, &g.Player3, &g.Player4}
	for i, p := range players {
		seats[i].Int64 = p
		seats[i].Valid = true
	}
	return g
}

// fakeSlotStore keeps games in memory and serializes seat mutations the way
// the Postgres row updates do.
type fakeSlotStore struct {
	mu    sync.Mutex
	games map[string]*db.GameSlot
	fail  bool
}

func newFakeSlotStore(games ...*db.GameSlot) *fakeSlotStore {
	s := &fakeSlotStore{games: make(map[string]*db.GameSlot)}
	for _, g := range games {
		s.games[DateKey(g.Date)] = g
	}
	return s
}

func (s *fakeSlotStore) GetGameByDate(date time.Time) (*db.GameSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errors.New("store down")
	}
	g, ok := s.games[DateKey(date)]
	if !ok {
		return nil, nil
	}
	copied := *g
	return &copied, nil
}

func (s *fakeSlotStore) ClaimSeat(date time.Time, userID int64) (db.ClaimResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return db.ClaimNotFound, errors.New("store down")
	}
	g, ok := s.games[DateKey(date)]
	if !ok {
		return db.ClaimNotFound, nil
	}
	if g.HasPlayer(userID) {
		return db.ClaimAlreadyMember, nil
	}
	for _, seat := range []*sql.NullInt64{&g.Player1, &g.Player2, &g.Player3, &g.Player4} {
		if !seat.Valid {
			seat.Int64 = userID
			seat.Valid = true
			return db.ClaimClaimed, nil
		}
	}
	return db.ClaimFull, nil
}

func (s *fakeSlotStore) ReleaseSeat(date time.Time, userID int64) (db.ReleaseResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return db.ReleaseNotFound, errors.New("store down")
	}
	g, ok := s.games[DateKey(date)]
	if !ok {
		return db.ReleaseNotFound, nil
	}
	for _, seat := range []*sql.NullInt64{&g.Player1, &g.Player2, &g.Player3, &g.Player4} {
		if seat.Valid && seat.Int64 == userID {
			seat.Int64 = 0
			seat.Valid = false
			return db.ReleaseReleased, nil
		}
	}
	return db.ReleaseNotMember, nil
}

func (s *fakeSlotStore) DeleteGame(date time.Time, adminID int64) (db.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[DateKey(date)]
	if !ok {
		return db.DeleteNotFound, nil
	}
	if !g.Admin.Valid || g.Admin.Int64 != adminID {
		return db.DeleteForbidden, nil
	}
	delete(s.games, DateKey(date))
	return db.DeleteDeleted, nil
}

func (s *fakeSlotStore) ListUpcomingWithTime(limit int) ([]db.GameSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errors.New("store down")
	}
	var games []db.GameSlot
	for _, g := range s.games {
		if g.HasTime() && len(games) < limit {
			games = append(games, *g)
		}
	}
	return games, nil
}

func (s *fakeSlotStore) remove(date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, DateKey(date))
}

func (s *fakeSlotStore) occupied(date time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[DateKey(date)]
	if !ok {
		return 0
	}
	return len(g.Players())
}

type fakeUserDirectory struct {
	mu    sync.Mutex
	names map[int64]string
	all   []int64
	saved []db.User
}

func newFakeUserDirectory() *fakeUserDirectory {
	return &fakeUserDirectory{names: make(map[int64]string)}
}

func (d *fakeUserDirectory) SaveUser(user db.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.saved = append(d.saved, user)
	return nil
}

func (d *fakeUserDirectory) ResolveDisplayNames(userIDs []int64) (map[int64]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[int64]string)
	for _, id := range userIDs {
		if name, ok := d.names[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

func (d *fakeUserDirectory) AllUserIDs() ([]int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]int64(nil), d.all...), nil
}

// fakeNotifier records deliveries; IDs in failFor error out per call.
type fakeNotifier struct {
	mu      sync.Mutex
	sent    map[int64][]string
	failFor map[int64]bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(map[int64][]string), failFor: make(map[int64]bool)}
}

func (n *fakeNotifier) Send(userID int64, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failFor[userID] {
		return errors.New("bot blocked by user")
	}
	n.sent[userID] = append(n.sent[userID], message)
	return nil
}

func (n *fakeNotifier) sentTo(userID int64) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent[userID])
}

func (n *fakeNotifier) totalSent() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	total := 0
	for _, msgs := range n.sent {
		total += len(msgs)
	}
	return total
}
