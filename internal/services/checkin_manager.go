package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"musicjam/internal/models/db_models"
	"musicjam/internal/repositories"
	"musicjam/pkg/utils"
)

const (
	// MonitorInterval is how often the sweep re-checks active check-ins.
	MonitorInterval = 60 * time.Second

	// OverdueGracePeriod is how long past the deadline a check-in may stay
	// overdue before automatic emergency escalation.
	OverdueGracePeriod = 15 * time.Minute
)

type ScheduleCheckInInput struct {
	AccountID       uuid.UUID
	CounterpartID   uuid.UUID
	CounterpartName string
	Location        string
	ScheduledAt     time.Time
	Deadline        time.Time
	Contacts        []db_models.EmergencyContact
}

type CheckInManagerInterface interface {
	Restore(ctx context.Context) error
	Schedule(ctx context.Context, input ScheduleCheckInInput) (*db_models.CheckIn, error)
	Start(ctx context.Context, accountID, id uuid.UUID) error
	Complete(ctx context.Context, accountID, id uuid.UUID) error
	Cancel(ctx context.Context, accountID, id uuid.UUID) error
	TriggerEmergency(ctx context.Context, accountID, id uuid.UUID) error
	Scheduled(accountID uuid.UUID) []db_models.CheckIn
	Active(accountID uuid.UUID) []db_models.CheckIn
	History(accountID uuid.UUID) []db_models.CheckIn
	HasActive() bool
	StartMonitor()
	StopMonitor()
}

// CheckInManager owns every check-in's lifecycle. A record lives in exactly
// one of three collections (scheduled, active, historical) and moves between
// them only through the operations below, all serialized on one mutex. The
// notifier and repository are collaborators: their failures are logged and
// never roll back a transition.
//
// Emergency records stay in the active collection so they remain visible to
// monitoring; completed and cancelled records move to the front of the
// historical collection.
type CheckInManager struct {
	mu              sync.Mutex
	scheduled       []*db_models.CheckIn
	active          []*db_models.CheckIn
	historical      []*db_models.CheckIn
	hasActive       bool
	overdueNotified map[uuid.UUID]bool

	repo     repositories.CheckInRepository
	notifier Notifier
	clock    Clock
	log      *zap.SugaredLogger

	interval    time.Duration
	monitorStop chan struct{}
	monitorDone chan struct{}
}

func NewCheckInManager(
	repo repositories.CheckInRepository,
	notifier Notifier,
	clock Clock,
	log *zap.SugaredLogger,
) *CheckInManager {
	return &CheckInManager{
		overdueNotified: make(map[uuid.UUID]bool),
		repo:            repo,
		notifier:        notifier,
		clock:           clock,
		log:             log,
		interval:        MonitorInterval,
	}
}

// Restore hydrates the in-memory collections from the repository. Called once
// at process start, before the monitor runs.
func (m *CheckInManager) Restore(ctx context.Context) error {
	scheduled, active, historical, err := m.repo.LoadAll(ctx)
	if err != nil {
		return utils.ErrDatabaseError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduled = scheduled
	m.active = active
	m.historical = historical
	m.hasActive = len(active) > 0
	return nil
}

// Schedule validates the time ordering, creates the record in scheduled
// status, and asks the notifier for a reminder. The reminder is non-critical:
// its failure is logged and swallowed.
func (m *CheckInManager) Schedule(ctx context.Context, input ScheduleCheckInInput) (*db_models.CheckIn, error) {
	now := m.clock.Now()
	if !input.ScheduledAt.After(now) {
		return nil, utils.ErrInvalidSchedule
	}
	if !input.Deadline.After(input.ScheduledAt) {
		return nil, utils.ErrInvalidSchedule
	}

	rec := &db_models.CheckIn{
		BaseModel: db_models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now.Unix(),
			UpdatedAt: now.Unix(),
		},
		AccountID:       input.AccountID,
		CounterpartID:   input.CounterpartID,
		CounterpartName: input.CounterpartName,
		Location:        input.Location,
		ScheduledAt:     input.ScheduledAt,
		Deadline:        input.Deadline,
		Status:          db_models.CheckInStatusScheduled,
		Contacts:        input.Contacts,
	}

	m.mu.Lock()
	m.scheduled = append(m.scheduled, rec)
	snapshot := *rec
	m.mu.Unlock()

	if err := m.repo.Insert(ctx, &snapshot); err != nil {
		m.log.Errorw("check-in save failed", "check_in_id", snapshot.ID, "error", err)
	}
	if err := m.notifier.ScheduleReminder(ctx, snapshot); err != nil {
		m.log.Warnw("reminder scheduling failed", "check_in_id", snapshot.ID, "error", err)
	}

	result := snapshot
	return &result, nil
}

// Start moves a scheduled check-in to active, stamps the activation time, and
// notifies every opted-in contact that the session is in progress.
func (m *CheckInManager) Start(ctx context.Context, accountID, id uuid.UUID) error {
	m.mu.Lock()
	idx := findCheckIn(m.scheduled, accountID, id)
	if idx < 0 {
		m.mu.Unlock()
		return utils.ErrCheckInNotFound
	}
	rec := m.scheduled[idx]
	m.scheduled = removeAt(m.scheduled, idx)

	now := m.clock.Now()
	rec.Status = db_models.CheckInStatusActive
	rec.ActivatedAt = &now
	m.active = append(m.active, rec)
	m.hasActive = true
	snapshot := *rec
	m.mu.Unlock()

	m.persistUpdate(ctx, snapshot)

	message := fmt.Sprintf(
		"A jam session with %s at %s is now in progress. A check-in is expected by %s.",
		snapshot.CounterpartName, snapshot.Location, snapshot.Deadline.Format("Mon Jan 2 15:04"),
	)
	if err := m.notifier.NotifyContacts(ctx, snapshot, message); err != nil {
		m.log.Warnw("start notification failed", "check_in_id", snapshot.ID, "error", err)
	}
	return nil
}

// Complete terminates an active check-in as completed and moves it to the
// front of the history.
func (m *CheckInManager) Complete(ctx context.Context, accountID, id uuid.UUID) error {
	m.mu.Lock()
	idx := findActive(m.active, accountID, id)
	if idx < 0 {
		m.mu.Unlock()
		return utils.ErrCheckInNotFound
	}
	rec := m.active[idx]
	m.active = removeAt(m.active, idx)

	now := m.clock.Now()
	rec.Status = db_models.CheckInStatusCompleted
	rec.CompletedAt = &now
	m.historical = append([]*db_models.CheckIn{rec}, m.historical...)
	m.hasActive = len(m.active) > 0
	delete(m.overdueNotified, rec.ID)
	snapshot := *rec
	m.mu.Unlock()

	m.persistUpdate(ctx, snapshot)

	message := fmt.Sprintf(
		"The session with %s at %s has ended safely. No further action is needed.",
		snapshot.CounterpartName, snapshot.Location,
	)
	if err := m.notifier.NotifyContacts(ctx, snapshot, message); err != nil {
		m.log.Warnw("completion notification failed", "check_in_id", snapshot.ID, "error", err)
	}
	return nil
}

// Cancel terminates a check-in from either the scheduled or the active
// collection. Cancelling a scheduled record notifies no one, since monitoring
// never began.
func (m *CheckInManager) Cancel(ctx context.Context, accountID, id uuid.UUID) error {
	m.mu.Lock()
	if idx := findCheckIn(m.scheduled, accountID, id); idx >= 0 {
		rec := m.scheduled[idx]
		m.scheduled = removeAt(m.scheduled, idx)
		rec.Status = db_models.CheckInStatusCancelled
		m.historical = append([]*db_models.CheckIn{rec}, m.historical...)
		snapshot := *rec
		m.mu.Unlock()

		m.persistUpdate(ctx, snapshot)
		return nil
	}

	idx := findActive(m.active, accountID, id)
	if idx < 0 {
		m.mu.Unlock()
		return utils.ErrCheckInNotFound
	}
	rec := m.active[idx]
	m.active = removeAt(m.active, idx)
	rec.Status = db_models.CheckInStatusCancelled
	m.historical = append([]*db_models.CheckIn{rec}, m.historical...)
	m.hasActive = len(m.active) > 0
	delete(m.overdueNotified, rec.ID)
	snapshot := *rec
	m.mu.Unlock()

	m.persistUpdate(ctx, snapshot)
	return nil
}

// TriggerEmergency marks an active check-in as an emergency in place: the
// record stays in the active collection for monitoring visibility. Alerting
// every contact is best-effort. Calling it on a record already in emergency
// re-sends the alert without changing state.
func (m *CheckInManager) TriggerEmergency(ctx context.Context, accountID, id uuid.UUID) error {
	m.mu.Lock()
	idx := findCheckIn(m.active, accountID, id)
	if idx < 0 {
		m.mu.Unlock()
		return utils.ErrCheckInNotFound
	}
	rec := m.active[idx]
	alreadyEmergency := rec.Status == db_models.CheckInStatusEmergency
	if !alreadyEmergency {
		rec.Status = db_models.CheckInStatusEmergency
	}
	snapshot := *rec
	m.mu.Unlock()

	if !alreadyEmergency {
		m.persistUpdate(ctx, snapshot)
	}
	if err := m.notifier.SendEmergencyAlert(ctx, snapshot); err != nil {
		m.log.Errorw("emergency alert failed", "check_in_id", snapshot.ID, "error", err)
	}
	return nil
}

func (m *CheckInManager) Scheduled(accountID uuid.UUID) []db_models.CheckIn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyFor(m.scheduled, accountID)
}

func (m *CheckInManager) Active(accountID uuid.UUID) []db_models.CheckIn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyFor(m.active, accountID)
}

func (m *CheckInManager) History(accountID uuid.UUID) []db_models.CheckIn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyFor(m.historical, accountID)
}

func (m *CheckInManager) HasActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasActive
}

// StartMonitor launches the single periodic sweep over the active collection.
// One goroutine serves every active check-in; there is no per-record timer.
func (m *CheckInManager) StartMonitor() {
	m.mu.Lock()
	if m.monitorStop != nil {
		m.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	m.monitorStop = stop
	m.monitorDone = done
	interval := m.interval
	m.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				m.sweep(context.Background(), m.clock.Now())
			}
		}
	}()
}

// StopMonitor stops the sweep goroutine and waits for it to exit.
func (m *CheckInManager) StopMonitor() {
	m.mu.Lock()
	stop := m.monitorStop
	done := m.monitorDone
	m.monitorStop = nil
	m.monitorDone = nil
	m.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// sweep re-checks every active record's deadline. An overdue check-in gets one
// overdue notification (the overdueNotified set suppresses repeats on later
// ticks); past the grace period it is escalated to emergency. Records that
// already left the active status are skipped, so escalation is idempotent.
func (m *CheckInManager) sweep(ctx context.Context, now time.Time) {
	var overdue []db_models.CheckIn
	var escalated []db_models.CheckIn

	m.mu.Lock()
	for _, rec := range m.active {
		if rec.Status != db_models.CheckInStatusActive {
			continue
		}
		if !now.After(rec.Deadline) {
			continue
		}
		if !m.overdueNotified[rec.ID] {
			m.overdueNotified[rec.ID] = true
			overdue = append(overdue, *rec)
		}
		if now.After(rec.Deadline.Add(OverdueGracePeriod)) {
			rec.Status = db_models.CheckInStatusEmergency
			escalated = append(escalated, *rec)
		}
	}
	m.mu.Unlock()

	for _, snapshot := range overdue {
		message := fmt.Sprintf(
			"No check-in received for the session with %s at %s (deadline %s). We will escalate if there is no response.",
			snapshot.CounterpartName, snapshot.Location, snapshot.Deadline.Format("15:04"),
		)
		if err := m.notifier.NotifyContacts(ctx, snapshot, message); err != nil {
			m.log.Warnw("overdue notification failed", "check_in_id", snapshot.ID, "error", err)
		}
	}
	for _, snapshot := range escalated {
		m.log.Errorw("check-in escalated to emergency",
			"check_in_id", snapshot.ID,
			"deadline", snapshot.Deadline,
			"counterpart", snapshot.CounterpartName)
		m.persistUpdate(ctx, snapshot)
		if err := m.notifier.SendEmergencyAlert(ctx, snapshot); err != nil {
			m.log.Errorw("emergency alert failed", "check_in_id", snapshot.ID, "error", err)
		}
	}
}

// persistUpdate mirrors a transition to the repository. Durability is
// best-effort: a failed save is logged and the in-memory state stands.
func (m *CheckInManager) persistUpdate(ctx context.Context, snapshot db_models.CheckIn) {
	if err := m.repo.Update(ctx, &snapshot); err != nil {
		m.log.Errorw("check-in save failed", "check_in_id", snapshot.ID, "error", err)
	}
}

// findCheckIn matches by id and, when accountID is non-nil, by owner.
func findCheckIn(list []*db_models.CheckIn, accountID, id uuid.UUID) int {
	for i, rec := range list {
		if rec.ID != id {
			continue
		}
		if accountID != uuid.Nil && rec.AccountID != accountID {
			continue
		}
		return i
	}
	return -1
}

// findActive is findCheckIn restricted to records still in active status:
// emergency records live in the same collection but are terminal, so Complete
// and Cancel treat them as not found.
func findActive(list []*db_models.CheckIn, accountID, id uuid.UUID) int {
	idx := findCheckIn(list, accountID, id)
	if idx >= 0 && list[idx].Status != db_models.CheckInStatusActive {
		return -1
	}
	return idx
}

func removeAt(list []*db_models.CheckIn, idx int) []*db_models.CheckIn {
	return append(list[:idx], list[idx+1:]...)
}

func copyFor(list []*db_models.CheckIn, accountID uuid.UUID) []db_models.CheckIn {
	out := make([]db_models.CheckIn, 0, len(list))
	for _, rec := range list {
		if accountID != uuid.Nil && rec.AccountID != accountID {
			continue
		}
		out = append(out, *rec)
	}
	return out
}
