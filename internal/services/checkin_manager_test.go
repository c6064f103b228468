package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"musicjam/internal/models/db_models"
	"musicjam/pkg/utils"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	mu          sync.Mutex
	reminders   []uuid.UUID
	messages    map[uuid.UUID][]string
	emergencies []uuid.UUID
	reminderErr error
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{messages: make(map[uuid.UUID][]string)}
}

func (n *recordingNotifier) ScheduleReminder(ctx context.Context, checkIn db_models.CheckIn) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminders = append(n.reminders, checkIn.ID)
	return n.reminderErr
}

func (n *recordingNotifier) NotifyContacts(ctx context.Context, checkIn db_models.CheckIn, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages[checkIn.ID] = append(n.messages[checkIn.ID], message)
	return nil
}

func (n *recordingNotifier) SendEmergencyAlert(ctx context.Context, checkIn db_models.CheckIn) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emergencies = append(n.emergencies, checkIn.ID)
	return nil
}

func (n *recordingNotifier) emergencyCount(id uuid.UUID) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, got := range n.emergencies {
		if got == id {
			count++
		}
	}
	return count
}

func (n *recordingNotifier) messageCount(id uuid.UUID) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages[id])
}

type memCheckInRepo struct {
	mu        sync.Mutex
	records   map[uuid.UUID]db_models.CheckIn
	updateErr error
}

func newMemCheckInRepo() *memCheckInRepo {
	return &memCheckInRepo{records: make(map[uuid.UUID]db_models.CheckIn)}
}

func (r *memCheckInRepo) LoadAll(ctx context.Context) ([]*db_models.CheckIn, []*db_models.CheckIn, []*db_models.CheckIn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var scheduled, active, historical []*db_models.CheckIn
	for _, rec := range r.records {
		c := rec
		switch c.Status {
		case db_models.CheckInStatusScheduled:
			scheduled = append(scheduled, &c)
		case db_models.CheckInStatusActive, db_models.CheckInStatusEmergency:
			active = append(active, &c)
		default:
			historical = append(historical, &c)
		}
	}
	return scheduled, active, historical, nil
}

func (r *memCheckInRepo) Insert(ctx context.Context, checkIn *db_models.CheckIn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[checkIn.ID] = *checkIn
	return nil
}

func (r *memCheckInRepo) Update(ctx context.Context, checkIn *db_models.CheckIn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	r.records[checkIn.ID] = *checkIn
	return nil
}

func newTestManager() (*CheckInManager, *fakeClock, *recordingNotifier, *memCheckInRepo) {
	clock := &fakeClock{now: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)}
	notifier := newRecordingNotifier()
	repo := newMemCheckInRepo()
	manager := NewCheckInManager(repo, notifier, clock, zap.NewNop().Sugar())
	return manager, clock, notifier, repo
}

func testContacts() []db_models.EmergencyContact {
	return []db_models.EmergencyContact{
		{
			BaseModel:   db_models.BaseModel{ID: uuid.New()},
			Name:        "Dana",
			Phone:       "+15550100",
			Email:       "dana@example.com",
			AlertsOptIn: true,
		},
		{
			BaseModel: db_models.BaseModel{ID: uuid.New()},
			Name:      "Sam",
			Phone:     "+15550101",
		},
	}
}

func scheduleInput(accountID uuid.UUID, clock *fakeClock) ScheduleCheckInInput {
	now := clock.Now()
	return ScheduleCheckInInput{
		AccountID:       accountID,
		CounterpartID:   uuid.New(),
		CounterpartName: "Robin",
		Location:        "Blue Note rehearsal rooms",
		ScheduledAt:     now.Add(15 * time.Minute),
		Deadline:        now.Add(30 * time.Minute),
		Contacts:        testContacts(),
	}
}

func mustSchedule(t *testing.T, m *CheckInManager, accountID uuid.UUID, clock *fakeClock) *db_models.CheckIn {
	t.Helper()
	rec, err := m.Schedule(context.Background(), scheduleInput(accountID, clock))
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	return rec
}

func TestScheduleCreatesScheduledRecord(t *testing.T) {
	m, clock, notifier, _ := newTestManager()
	accountID := uuid.New()

	rec := mustSchedule(t, m, accountID, clock)

	if rec.Status != db_models.CheckInStatusScheduled {
		t.Errorf("status = %q, want scheduled", rec.Status)
	}
	scheduled := m.Scheduled(accountID)
	if len(scheduled) != 1 || scheduled[0].ID != rec.ID {
		t.Fatalf("scheduled collection = %d records, want exactly the new one", len(scheduled))
	}
	if len(notifier.reminders) != 1 || notifier.reminders[0] != rec.ID {
		t.Errorf("reminder calls = %v, want one for %s", notifier.reminders, rec.ID)
	}
	if m.HasActive() {
		t.Error("HasActive = true before any Start")
	}
}

func TestScheduleValidation(t *testing.T) {
	m, clock, _, _ := newTestManager()
	now := clock.Now()

	tests := []struct {
		name        string
		scheduledAt time.Time
		deadline    time.Time
	}{
		{"meeting time in the past", now.Add(-time.Minute), now.Add(time.Hour)},
		{"meeting time is now", now, now.Add(time.Hour)},
		{"deadline before meeting", now.Add(time.Hour), now.Add(30 * time.Minute)},
		{"deadline equals meeting", now.Add(time.Hour), now.Add(time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := scheduleInput(uuid.New(), clock)
			input.ScheduledAt = tt.scheduledAt
			input.Deadline = tt.deadline

			_, err := m.Schedule(context.Background(), input)
			if !errors.Is(err, utils.ErrInvalidSchedule) {
				t.Fatalf("Schedule error = %v, want ErrInvalidSchedule", err)
			}
		})
	}

	if got := len(m.Scheduled(uuid.Nil)); got != 0 {
		t.Errorf("scheduled collection has %d records after rejected inputs", got)
	}
}

func TestStartNotFound(t *testing.T) {
	m, _, notifier, _ := newTestManager()

	err := m.Start(context.Background(), uuid.Nil, uuid.New())
	if !errors.Is(err, utils.ErrCheckInNotFound) {
		t.Fatalf("Start error = %v, want ErrCheckInNotFound", err)
	}
	if m.HasActive() {
		t.Error("HasActive = true after failed Start")
	}
	if len(notifier.messages) != 0 {
		t.Error("notifier was called for a failed Start")
	}
}

func TestStartActivates(t *testing.T) {
	m, clock, notifier, _ := newTestManager()
	accountID := uuid.New()
	rec := mustSchedule(t, m, accountID, clock)

	if err := m.Start(context.Background(), accountID, rec.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if got := len(m.Scheduled(accountID)); got != 0 {
		t.Errorf("scheduled collection has %d records after Start", got)
	}
	active := m.Active(accountID)
	if len(active) != 1 || active[0].ID != rec.ID {
		t.Fatalf("active collection = %d records, want the started one", len(active))
	}
	if active[0].Status != db_models.CheckInStatusActive {
		t.Errorf("status = %q, want active", active[0].Status)
	}
	if active[0].ActivatedAt == nil {
		t.Error("ActivatedAt is nil after Start")
	}
	if !m.HasActive() {
		t.Error("HasActive = false with one active check-in")
	}
	if notifier.messageCount(rec.ID) != 1 {
		t.Errorf("contact notifications = %d, want 1 in-progress message", notifier.messageCount(rec.ID))
	}
}

func TestCompleteMovesToHistoryFront(t *testing.T) {
	m, clock, notifier, _ := newTestManager()
	accountID := uuid.New()

	first := mustSchedule(t, m, accountID, clock)
	second := mustSchedule(t, m, accountID, clock)
	ctx := context.Background()

	if err := m.Start(ctx, accountID, first.ID); err != nil {
		t.Fatalf("Start first: %v", err)
	}
	clock.Advance(time.Minute)
	if err := m.Complete(ctx, accountID, first.ID); err != nil {
		t.Fatalf("Complete first: %v", err)
	}
	if err := m.Start(ctx, accountID, second.ID); err != nil {
		t.Fatalf("Start second: %v", err)
	}
	clock.Advance(time.Minute)
	if err := m.Complete(ctx, accountID, second.ID); err != nil {
		t.Fatalf("Complete second: %v", err)
	}

	history := m.History(accountID)
	if len(history) != 2 {
		t.Fatalf("history = %d records, want 2", len(history))
	}
	if history[0].ID != second.ID {
		t.Error("most recent completion is not at history index 0")
	}
	done := history[0]
	if done.Status != db_models.CheckInStatusCompleted {
		t.Errorf("status = %q, want completed", done.Status)
	}
	if done.CompletedAt == nil || done.ActivatedAt == nil || done.CompletedAt.Before(*done.ActivatedAt) {
		t.Error("CompletedAt should be set and not precede ActivatedAt")
	}
	if m.HasActive() {
		t.Error("HasActive = true after completing everything")
	}

	// The monitor must not act on completed records.
	emergenciesBefore := notifier.emergencyCount(first.ID) + notifier.emergencyCount(second.ID)
	clock.Advance(2 * time.Hour)
	m.sweep(ctx, clock.Now())
	if got := notifier.emergencyCount(first.ID) + notifier.emergencyCount(second.ID); got != emergenciesBefore {
		t.Error("sweep escalated a completed check-in")
	}
}

func TestCancelFromScheduled(t *testing.T) {
	m, clock, notifier, _ := newTestManager()
	accountID := uuid.New()
	rec := mustSchedule(t, m, accountID, clock)
	ctx := context.Background()

	if err := m.Cancel(ctx, accountID, rec.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	history := m.History(accountID)
	if len(history) != 1 || history[0].Status != db_models.CheckInStatusCancelled {
		t.Fatalf("cancelled record not at history front: %+v", history)
	}
	if notifier.messageCount(rec.ID) != 0 {
		t.Error("contacts notified for a cancellation before monitoring began")
	}

	// Terminal: a second Cancel finds nothing.
	if err := m.Cancel(ctx, accountID, rec.ID); !errors.Is(err, utils.ErrCheckInNotFound) {
		t.Fatalf("second Cancel error = %v, want ErrCheckInNotFound", err)
	}
}

func TestCancelFromActive(t *testing.T) {
	m, clock, notifier, _ := newTestManager()
	accountID := uuid.New()
	rec := mustSchedule(t, m, accountID, clock)
	ctx := context.Background()

	if err := m.Start(ctx, accountID, rec.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Cancel(ctx, accountID, rec.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if m.HasActive() {
		t.Error("HasActive = true after cancelling the only active check-in")
	}
	history := m.History(accountID)
	if len(history) != 1 || history[0].Status != db_models.CheckInStatusCancelled {
		t.Fatalf("cancelled record not in history: %+v", history)
	}

	// No monitor activity may follow the cancellation.
	clock.Advance(2 * time.Hour)
	m.sweep(ctx, clock.Now())
	if notifier.emergencyCount(rec.ID) != 0 {
		t.Error("sweep escalated a cancelled check-in")
	}
}

func TestTriggerEmergencyManual(t *testing.T) {
	m, clock, notifier, _ := newTestManager()
	accountID := uuid.New()
	rec := mustSchedule(t, m, accountID, clock)
	ctx := context.Background()

	if err := m.TriggerEmergency(ctx, accountID, rec.ID); !errors.Is(err, utils.ErrCheckInNotFound) {
		t.Fatalf("TriggerEmergency on scheduled record = %v, want ErrCheckInNotFound", err)
	}

	if err := m.Start(ctx, accountID, rec.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.TriggerEmergency(ctx, accountID, rec.ID); err != nil {
		t.Fatalf("TriggerEmergency: %v", err)
	}

	active := m.Active(accountID)
	if len(active) != 1 || active[0].Status != db_models.CheckInStatusEmergency {
		t.Fatalf("emergency record should stay in the active collection: %+v", active)
	}
	if notifier.emergencyCount(rec.ID) != 1 {
		t.Errorf("emergency alerts = %d, want 1", notifier.emergencyCount(rec.ID))
	}

	// Complete and Cancel treat a terminal record as gone.
	if err := m.Complete(ctx, accountID, rec.ID); !errors.Is(err, utils.ErrCheckInNotFound) {
		t.Errorf("Complete after emergency = %v, want ErrCheckInNotFound", err)
	}
	if err := m.Cancel(ctx, accountID, rec.ID); !errors.Is(err, utils.ErrCheckInNotFound) {
		t.Errorf("Cancel after emergency = %v, want ErrCheckInNotFound", err)
	}
}

func TestSweepOverdueAndEscalation(t *testing.T) {
	m, clock, notifier, _ := newTestManager()
	accountID := uuid.New()
	rec := mustSchedule(t, m, accountID, clock) // deadline = T+30m
	ctx := context.Background()

	if err := m.Start(ctx, accountID, rec.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	startMessages := notifier.messageCount(rec.ID)

	// Before the deadline nothing happens.
	clock.Advance(29 * time.Minute)
	m.sweep(ctx, clock.Now())
	if notifier.messageCount(rec.ID) != startMessages {
		t.Error("sweep notified before the deadline")
	}

	// Past the deadline: exactly one overdue notification, repeated sweeps
	// stay silent.
	clock.Advance(2 * time.Minute) // T+31m
	m.sweep(ctx, clock.Now())
	m.sweep(ctx, clock.Now())
	if got := notifier.messageCount(rec.ID) - startMessages; got != 1 {
		t.Fatalf("overdue notifications = %d, want exactly 1", got)
	}
	if notifier.emergencyCount(rec.ID) != 0 {
		t.Fatal("escalated before the grace period elapsed")
	}

	// Past deadline + grace: exactly one automatic escalation.
	clock.Advance(15 * time.Minute) // T+46m
	m.sweep(ctx, clock.Now())
	m.sweep(ctx, clock.Now())
	if notifier.emergencyCount(rec.ID) != 1 {
		t.Fatalf("emergency alerts = %d, want exactly 1", notifier.emergencyCount(rec.ID))
	}

	active := m.Active(accountID)
	if len(active) != 1 || active[0].Status != db_models.CheckInStatusEmergency {
		t.Fatalf("escalated record should stay active with emergency status: %+v", active)
	}
}

func TestReminderFailureDoesNotFailSchedule(t *testing.T) {
	m, clock, notifier, _ := newTestManager()
	notifier.reminderErr = errors.New("smtp unreachable")

	rec, err := m.Schedule(context.Background(), scheduleInput(uuid.New(), clock))
	if err != nil {
		t.Fatalf("Schedule with failing reminder: %v", err)
	}
	if rec.Status != db_models.CheckInStatusScheduled {
		t.Errorf("status = %q, want scheduled", rec.Status)
	}
}

func TestPersistFailureDoesNotFailTransition(t *testing.T) {
	m, clock, _, repo := newTestManager()
	accountID := uuid.New()
	rec := mustSchedule(t, m, accountID, clock)

	repo.updateErr = errors.New("connection refused")
	if err := m.Start(context.Background(), accountID, rec.ID); err != nil {
		t.Fatalf("Start with failing save: %v", err)
	}
	if len(m.Active(accountID)) != 1 {
		t.Error("in-memory transition did not stand after save failure")
	}
}

func TestRestore(t *testing.T) {
	m, clock, _, repo := newTestManager()
	accountID := uuid.New()

	now := clock.Now()
	seed := []db_models.CheckIn{
		{BaseModel: db_models.BaseModel{ID: uuid.New()}, AccountID: accountID, Status: db_models.CheckInStatusScheduled, ScheduledAt: now.Add(time.Hour), Deadline: now.Add(2 * time.Hour)},
		{BaseModel: db_models.BaseModel{ID: uuid.New()}, AccountID: accountID, Status: db_models.CheckInStatusActive, ScheduledAt: now.Add(-time.Hour), Deadline: now.Add(time.Hour)},
		{BaseModel: db_models.BaseModel{ID: uuid.New()}, AccountID: accountID, Status: db_models.CheckInStatusEmergency, ScheduledAt: now.Add(-3 * time.Hour), Deadline: now.Add(-2 * time.Hour)},
		{BaseModel: db_models.BaseModel{ID: uuid.New()}, AccountID: accountID, Status: db_models.CheckInStatusCompleted, ScheduledAt: now.Add(-5 * time.Hour), Deadline: now.Add(-4 * time.Hour)},
	}
	for i := range seed {
		if err := repo.Insert(context.Background(), &seed[i]); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	if err := m.Restore(context.Background()); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := len(m.Scheduled(accountID)); got != 1 {
		t.Errorf("scheduled = %d, want 1", got)
	}
	if got := len(m.Active(accountID)); got != 2 {
		t.Errorf("active = %d, want 2 (active + emergency)", got)
	}
	if got := len(m.History(accountID)); got != 1 {
		t.Errorf("history = %d, want 1", got)
	}
	if !m.HasActive() {
		t.Error("HasActive = false after restoring active records")
	}
}

func TestSnapshotsAreScopedByAccount(t *testing.T) {
	m, clock, _, _ := newTestManager()
	alice := uuid.New()
	bob := uuid.New()

	aliceRec := mustSchedule(t, m, alice, clock)
	mustSchedule(t, m, bob, clock)

	if got := len(m.Scheduled(alice)); got != 1 {
		t.Errorf("alice sees %d scheduled, want 1", got)
	}
	if got := len(m.Scheduled(uuid.Nil)); got != 2 {
		t.Errorf("unscoped snapshot = %d, want 2", got)
	}

	// Bob cannot transition Alice's record.
	if err := m.Start(context.Background(), bob, aliceRec.ID); !errors.Is(err, utils.ErrCheckInNotFound) {
		t.Fatalf("cross-account Start = %v, want ErrCheckInNotFound", err)
	}
}

func TestMonitorLifecycle(t *testing.T) {
	m, clock, notifier, _ := newTestManager()
	m.interval = 5 * time.Millisecond
	accountID := uuid.New()
	rec := mustSchedule(t, m, accountID, clock)
	ctx := context.Background()

	if err := m.Start(ctx, accountID, rec.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	clock.Advance(time.Hour) // past deadline + grace

	m.StartMonitor()
	m.StartMonitor() // second call is a no-op

	deadline := time.Now().Add(2 * time.Second)
	for notifier.emergencyCount(rec.ID) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	m.StopMonitor()
	m.StopMonitor() // idempotent

	if got := notifier.emergencyCount(rec.ID); got != 1 {
		t.Fatalf("emergency alerts via monitor = %d, want 1", got)
	}
}
