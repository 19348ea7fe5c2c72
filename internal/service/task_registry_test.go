package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRegistry_PastInstantSchedulesNothing(t *testing.T) {
	r := NewTaskRegistry()
	key := TaskKey{Date: "2025-06-01", Purpose: PurposeReminder}

	ok := r.Schedule(key, time.Now().Add(-time.Minute), func() { t.Error("work must not run") })

	assert.False(t, ok)
	assert.False(t, r.IsScheduled(key))
	assert.Equal(t, 0, r.Active())
}

func TestTaskRegistry_ScheduleReplacesNotDuplicates(t *testing.T) {
	r := NewTaskRegistry()
	key := TaskKey{Date: "2025-06-01", Purpose: PurposeReminder}
	var first, second atomic.Int32

	require.True(t, r.Schedule(key, time.Now().Add(time.Hour), func() { first.Add(1) }))
	require.True(t, r.Schedule(key, time.Now().Add(30*time.Millisecond), func() { second.Add(1) }))

	assert.Equal(t, 1, r.Active())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), first.Load(), "replaced task must never fire")
	assert.Equal(t, int32(1), second.Load())
	assert.False(t, r.IsScheduled(key), "fired task removes itself")
}

func TestTaskRegistry_FiredTaskRunsWork(t *testing.T) {
	r := NewTaskRegistry()
	key := TaskKey{Date: "2025-06-01", Purpose: PurposePaymentOffer}
	done := make(chan struct{})

	require.True(t, r.Schedule(key, time.Now().Add(20*time.Millisecond), func() { close(done) }))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduled work never ran")
	}
}

func TestTaskRegistry_CancelStopsTask(t *testing.T) {
	r := NewTaskRegistry()
	key := TaskKey{Date: "2025-06-01", Purpose: PurposeReminder}
	var fired atomic.Int32

	require.True(t, r.Schedule(key, time.Now().Add(30*time.Millisecond), func() { fired.Add(1) }))
	r.Cancel(key)

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
	assert.Equal(t, 0, r.Active())
}

func TestTaskRegistry_CancelAbsentIsNoop(t *testing.T) {
	r := NewTaskRegistry()
	r.Cancel(TaskKey{Date: "2099-01-01", Purpose: PurposeReminder})
	r.CancelAllForDate("2099-01-01")
}

func TestTaskRegistry_CancelAllForDate(t *testing.T) {
	r := NewTaskRegistry()
	future := time.Now().Add(time.Hour)

	r.Schedule(TaskKey{Date: "2025-06-01", Purpose: PurposeReminder}, future, func() {})
	r.Schedule(TaskKey{Date: "2025-06-01", Purpose: PurposePaymentOffer}, future, func() {})
	r.Schedule(TaskKey{Date: "2025-06-08", Purpose: PurposeReminder}, future, func() {})

	r.CancelAllForDate("2025-06-01")

	assert.False(t, r.IsScheduled(TaskKey{Date: "2025-06-01", Purpose: PurposeReminder}))
	assert.False(t, r.IsScheduled(TaskKey{Date: "2025-06-01", Purpose: PurposePaymentOffer}))
	assert.True(t, r.IsScheduled(TaskKey{Date: "2025-06-08", Purpose: PurposeReminder}))
}

func TestTaskRegistry_ConcurrentScheduleAndCancel(t *testing.T) {
	r := NewTaskRegistry()
	key := TaskKey{Date: "2025-06-01", Purpose: PurposeReminder}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Schedule(key, time.Now().Add(time.Hour), func() {})
		}()
		go func() {
			defer wg.Done()
			r.Cancel(key)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, r.Active(), 1)
}
