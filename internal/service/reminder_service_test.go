package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReminderService(store *fakeSlotStore, users *fakeUserDirectory, sender *fakeNotifier) (*ReminderService, *TaskRegistry) {
	registry := NewTaskRegistry()
	svc := NewReminderService(store, users, sender, registry, DefaultReminderConfig())
	return svc, registry
}

func TestReschedule_ArmsBothPurposes(t *testing.T) {
	// Game tomorrow at 19:00, duration 120m, creator set, zero players:
	// the reminder is armed anyway (roster is checked at fire time) and the
	// payment offer is armed for 21:00.
	tomorrow := time.Now().In(GameTimezone).AddDate(0, 0, 1)
	game := testGame(tomorrow, "19:00", 42)
	store := newFakeSlotStore(game)

	svc, registry := newTestReminderService(store, newFakeUserDirectory(), newFakeNotifier())
	svc.Reschedule(game)

	assert.True(t, registry.IsScheduled(TaskKey{Date: DateKey(tomorrow), Purpose: PurposeReminder}))
	assert.True(t, registry.IsScheduled(TaskKey{Date: DateKey(tomorrow), Purpose: PurposePaymentOffer}))
}

func TestReschedule_NoTimeSchedulesNothing(t *testing.T) {
	tomorrow := time.Now().In(GameTimezone).AddDate(0, 0, 1)
	game := testGame(tomorrow, "", 42, 1, 2)
	store := newFakeSlotStore(game)

	svc, registry := newTestReminderService(store, newFakeUserDirectory(), newFakeNotifier())
	svc.Reschedule(game)

	assert.Equal(t, 0, registry.Active())
}

func TestReschedule_NoCreatorSkipsPaymentOffer(t *testing.T) {
	tomorrow := time.Now().In(GameTimezone).AddDate(0, 0, 1)
	game := testGame(tomorrow, "19:00", 0, 1)
	store := newFakeSlotStore(game)

	svc, registry := newTestReminderService(store, newFakeUserDirectory(), newFakeNotifier())
	svc.Reschedule(game)

	assert.True(t, registry.IsScheduled(TaskKey{Date: DateKey(tomorrow), Purpose: PurposeReminder}))
	assert.False(t, registry.IsScheduled(TaskKey{Date: DateKey(tomorrow), Purpose: PurposePaymentOffer}))
}

func TestReschedule_PastInstantsLeaveNothingArmed(t *testing.T) {
	// A game earlier today whose reminder and end both already passed.
	past := time.Now().In(GameTimezone).Add(-26 * time.Hour)
	game := testGame(past, "10:00", 42, 1)
	store := newFakeSlotStore(game)

	svc, registry := newTestReminderService(store, newFakeUserDirectory(), newFakeNotifier())
	svc.Reschedule(game)

	assert.Equal(t, 0, registry.Active())
}

func TestReschedule_TwiceLeavesOneTaskPerPurpose(t *testing.T) {
	tomorrow := time.Now().In(GameTimezone).AddDate(0, 0, 1)
	game := testGame(tomorrow, "19:00", 42, 1)
	store := newFakeSlotStore(game)

	svc, registry := newTestReminderService(store, newFakeUserDirectory(), newFakeNotifier())
	svc.Reschedule(game)
	svc.Reschedule(game)

	assert.Equal(t, 2, registry.Active())
}

func TestScheduleAllUpcoming_ArmsEveryGameWithTime(t *testing.T) {
	base := time.Now().In(GameTimezone)
	store := newFakeSlotStore(
		testGame(base.AddDate(0, 0, 1), "19:00", 42, 1),
		testGame(base.AddDate(0, 0, 2), "20:00", 43),
		testGame(base.AddDate(0, 0, 3), "", 44, 2), // no time, never scheduled
	)

	svc, registry := newTestReminderService(store, newFakeUserDirectory(), newFakeNotifier())
	require.NoError(t, svc.ScheduleAllUpcoming())

	// Two games with a time, each arming reminder + payment offer.
	assert.Equal(t, 4, registry.Active())
}

func TestScheduleAllUpcoming_StoreErrorIsReturned(t *testing.T) {
	store := newFakeSlotStore()
	store.fail = true

	svc, _ := newTestReminderService(store, newFakeUserDirectory(), newFakeNotifier())
	assert.Error(t, svc.ScheduleAllUpcoming())
}

func TestSendGameReminder_DeliversToCurrentRoster(t *testing.T) {
	tomorrow := time.Now().In(GameTimezone).AddDate(0, 0, 1)
	game := testGame(tomorrow, "19:00", 42, 10, 20)
	store := newFakeSlotStore(game)
	users := newFakeUserDirectory()
	users.names[10] = "@alice"
	sender := newFakeNotifier()

	svc, _ := newTestReminderService(store, users, sender)
	svc.sendGameReminder(tomorrow)

	assert.Equal(t, 1, sender.sentTo(10))
	assert.Equal(t, 1, sender.sentTo(20))
	// Unknown player 20 falls back to a synthesized label.
	assert.Contains(t, sender.sent[10][0], "@alice")
	assert.Contains(t, sender.sent[10][0], "User20")
}

func TestSendGameReminder_ContinuesPastDeliveryFailures(t *testing.T) {
	tomorrow := time.Now().In(GameTimezone).AddDate(0, 0, 1)
	game := testGame(tomorrow, "19:00", 42, 10, 20, 30)
	store := newFakeSlotStore(game)
	sender := newFakeNotifier()
	sender.failFor[20] = true

	svc, _ := newTestReminderService(store, newFakeUserDirectory(), sender)
	svc.sendGameReminder(tomorrow)

	assert.Equal(t, 1, sender.sentTo(10))
	assert.Equal(t, 0, sender.sentTo(20))
	assert.Equal(t, 1, sender.sentTo(30))
}

func TestSendGameReminder_EmptyRosterSendsNothing(t *testing.T) {
	tomorrow := time.Now().In(GameTimezone).AddDate(0, 0, 1)
	store := newFakeSlotStore(testGame(tomorrow, "19:00", 42))
	sender := newFakeNotifier()

	svc, _ := newTestReminderService(store, newFakeUserDirectory(), sender)
	svc.sendGameReminder(tomorrow)

	assert.Equal(t, 0, sender.totalSent())
}

func TestSendGameReminder_DeletedGameSendsNothing(t *testing.T) {
	// The timer may outlive the game; dispatch re-reads state and finds it
	// gone.
	tomorrow := time.Now().In(GameTimezone).AddDate(0, 0, 1)
	game := testGame(tomorrow, "19:00", 42, 10)
	store := newFakeSlotStore(game)
	sender := newFakeNotifier()

	svc, _ := newTestReminderService(store, newFakeUserDirectory(), sender)
	store.remove(tomorrow)
	svc.sendGameReminder(tomorrow)

	assert.Equal(t, 0, sender.totalSent())
}

func TestSendPaymentOffer_GoesToCreatorOnly(t *testing.T) {
	tomorrow := time.Now().In(GameTimezone).AddDate(0, 0, 1)
	game := testGame(tomorrow, "19:00", 42, 10, 20)
	store := newFakeSlotStore(game)
	sender := newFakeNotifier()

	svc, _ := newTestReminderService(store, newFakeUserDirectory(), sender)
	svc.sendPaymentOffer(tomorrow)

	assert.Equal(t, 1, sender.sentTo(42))
	assert.Equal(t, 1, sender.totalSent())
}

func TestStartInstant_UsesFixedOffset(t *testing.T) {
	date := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	game := testGame(date, "19:00", 42)

	svc, _ := newTestReminderService(newFakeSlotStore(), newFakeUserDirectory(), newFakeNotifier())
	start, ok := svc.StartInstant(game)

	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 5, 19, 0, 0, 0, GameTimezone), start)
	assert.Equal(t, time.Date(2025, 6, 5, 16, 0, 0, 0, time.UTC).Unix(), start.Unix())
}

func TestStartInstant_AcceptsSecondsSuffix(t *testing.T) {
	date := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	game := testGame(date, "19:00:00", 42)

	svc, _ := newTestReminderService(newFakeSlotStore(), newFakeUserDirectory(), newFakeNotifier())
	start, ok := svc.StartInstant(game)

	require.True(t, ok)
	assert.Equal(t, 19, start.Hour())
}
