package service

import (
	"log"
	"sync"
	"time"
)

type TaskPurpose string

const (
	PurposeReminder     TaskPurpose = "reminder"
	PurposePaymentOffer TaskPurpose = "payment_offer"
)

// TaskKey identifies one deferred task: the game's date plus the purpose.
type TaskKey struct {
	Date    string // "2006-01-02"
	Purpose TaskPurpose
}

// TaskRegistry owns the in-memory timers for deferred notifications. It is a
// transient projection of stored game state: nothing here survives a restart,
// the reminder service re-derives it on boot. At most one live timer exists
// per key; scheduling over an existing key cancels the old timer first.
type TaskRegistry struct {
	mu     sync.Mutex
	timers map[TaskKey]*time.Timer
	now    func() time.Time
}

func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{
		timers: make(map[TaskKey]*time.Timer),
		now:    time.Now,
	}
}

// Schedule arms work to run at fireAt, replacing any existing task under the
// same key. Returns false without scheduling when fireAt is not in the
// future; a past-due task is dropped, not an error.
func (r *TaskRegistry) Schedule(key TaskKey, fireAt time.Time, work func()) bool {
	delay := fireAt.Sub(r.now())
	if delay <= 0 {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.timers[key]; ok {
		old.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		r.mu.Lock()
		// A replacement may have raced the firing; only the current timer
		// removes itself.
		if r.timers[key] == t {
			delete(r.timers, key)
		}
		r.mu.Unlock()
		work()
	})
	r.timers[key] = t

	log.Printf("Scheduled %s task for %s (fires in %s)", key.Purpose, key.Date, delay.Round(time.Second))
	return true
}

// Cancel stops and forgets the task under key. Absent or already-fired keys
// are a no-op. Stopping may lose the race against an imminent firing, in
// which case the in-flight dispatch completes.
func (r *TaskRegistry) Cancel(key TaskKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.timers[key]; ok {
		t.Stop()
		delete(r.timers, key)
	}
}

// CancelAllForDate cancels every task for the given game date regardless of
// purpose. Used when a game is deleted.
func (r *TaskRegistry) CancelAllForDate(date string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, t := range r.timers {
		if key.Date == date {
			t.Stop()
			delete(r.timers, key)
		}
	}
}

// IsScheduled reports whether a live task exists under key.
func (r *TaskRegistry) IsScheduled(key TaskKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.timers[key]
	return ok
}

// Active returns the number of live tasks.
func (r *TaskRegistry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}
