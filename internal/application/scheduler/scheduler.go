// Package scheduler owns the process-wide registry of live timers for
// recurring tasks. Each active RecurringTask record maps to one cron
// entry; the registry is never serialized and is rebuilt from storage
// by ReconcileOnStartup after every process restart.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/crewdesk/crewdesk/internal/domain"
	"github.com/crewdesk/crewdesk/internal/frequency"
)

// Scheduler registers, cancels, and fires timers for recurring tasks.
// The registry map is mutated only here; other components stop or
// reschedule timers through this type, never directly.
type Scheduler struct {
	repo             Repository
	notifier         Notifier
	cron             *cron.Cron
	operationTimeout time.Duration

	mu      sync.Mutex
	entries map[string]registryEntry
}

// registryEntry is one live timer: the cron handle plus the schedule
// expression it was registered with.
type registryEntry struct {
	entryID cron.EntryID
	spec    string
}

// ScheduleStatus is a read-only view of one registry entry.
type ScheduleStatus struct {
	RecurringTaskID string
	Active          bool
	Spec            string
}

// Option is a functional option for configuring Scheduler.
type Option func(*Scheduler)

// WithOperationTimeout sets the timeout for the storage work done by a
// single timer trigger.
func WithOperationTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		s.operationTimeout = d
	}
}

// WithLocation sets the timezone cron expressions are evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		s.cron = cron.New(cron.WithLocation(loc))
	}
}

// New creates a scheduler. Run must be called before timers fire.
func New(repo Repository, notifier Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		repo:             repo,
		notifier:         notifier,
		cron:             cron.New(cron.WithLocation(time.UTC)),
		operationTimeout: 30 * time.Second,
		entries:          make(map[string]registryEntry),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run starts the cron runner. Timers registered before and after Run
// both fire; each trigger runs in its own goroutine, so a slow
// materialization never delays other timers.
func (s *Scheduler) Run() {
	s.cron.Start()
}

// Shutdown stops all timers. In-flight materializations are not
// awaited; their writes are transactional and safe to abandon.
func (s *Scheduler) Shutdown() {
	s.cron.Stop()
}

// Schedule resolves the recurring task's frequency label and registers
// a timer for it, replacing any prior entry under the same identity.
//
// An unknown frequency is logged and reported as false rather than
// returned as an error: an invalid label must never crash or fail the
// creation that carried it.
func (s *Scheduler) Schedule(rt *domain.RecurringTask) bool {
	spec, ok := frequency.Resolve(rt.Frequency)
	if !ok {
		slog.Warn("unknown frequency label, not scheduling",
			"recurring_task_id", rt.ID,
			"frequency", rt.Frequency)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prior, exists := s.entries[rt.ID]; exists {
		s.cron.Remove(prior.entryID)
		delete(s.entries, rt.ID)
	}

	id := rt.ID
	entryID, err := s.cron.AddFunc(spec, func() {
		s.fire(id)
	})
	if err != nil {
		// Catalog expressions are valid by construction; this guards
		// against a catalog regression.
		slog.Error("failed to register timer",
			"recurring_task_id", rt.ID,
			"spec", spec,
			"error", err)
		return false
	}

	s.entries[rt.ID] = registryEntry{entryID: entryID, spec: spec}

	slog.Info("recurring task scheduled",
		"recurring_task_id", rt.ID,
		"frequency", rt.Frequency,
		"spec", spec)

	return true
}

// Stop cancels and removes the registry entry for the given recurring
// task. Idempotent: stopping an unknown or already-stopped id returns
// false, not an error.
func (s *Scheduler) Stop(recurringTaskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[recurringTaskID]
	if !exists {
		return false
	}

	s.cron.Remove(entry.entryID)
	delete(s.entries, recurringTaskID)

	slog.Info("recurring task stopped", "recurring_task_id", recurringTaskID)

	return true
}

// Reschedule stops the existing timer, persists the new frequency on
// the record, and schedules it again. Returns whether a timer is live
// afterwards; an unknown new frequency leaves the record persisted but
// unscheduled, reported as false.
func (s *Scheduler) Reschedule(ctx context.Context, recurringTaskID, newFrequency string) (bool, error) {
	rt, err := s.repo.FindRecurringTaskByID(ctx, recurringTaskID)
	if err != nil {
		return false, err
	}

	s.Stop(rt.ID)

	if err := s.repo.UpdateRecurringFrequency(ctx, rt.ID, newFrequency); err != nil {
		return false, fmt.Errorf("failed to update frequency: %w", err)
	}
	rt.Frequency = newFrequency

	return s.Schedule(rt), nil
}

// ReconcileOnStartup rebuilds the registry from the persisted set of
// active recurring tasks. It clears any stale entries first (none
// exist in a fresh process, but the clear keeps the operation safe to
// run at any time), then schedules each active record independently:
// one record's failure is logged and the loop continues. Running it
// twice produces the same registry as running it once.
func (s *Scheduler) ReconcileOnStartup(ctx context.Context) error {
	s.clearRegistry()

	active, err := s.repo.FindActiveRecurringTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active recurring tasks: %w", err)
	}

	var scheduled, failed int
	for _, rt := range active {
		if s.Schedule(rt) {
			scheduled++
		} else {
			failed++
		}
	}

	slog.InfoContext(ctx, "scheduler reconciliation complete",
		"active_records", len(active),
		"scheduled", scheduled,
		"failed", failed)

	return nil
}

// ListActive returns a snapshot of the registry, sorted by recurring
// task id.
func (s *Scheduler) ListActive() []ScheduleStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]ScheduleStatus, 0, len(s.entries))
	for id, entry := range s.entries {
		statuses = append(statuses, ScheduleStatus{
			RecurringTaskID: id,
			Active:          true,
			Spec:            entry.spec,
		})
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].RecurringTaskID < statuses[j].RecurringTaskID
	})

	return statuses
}

func (s *Scheduler) clearRegistry() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.entries {
		s.cron.Remove(entry.entryID)
		delete(s.entries, id)
	}
}

// fire is the timer trigger boundary. Every error and panic is caught
// and logged here: a failing materialization must never terminate the
// process or deregister the timer, and the schedule keeps firing on
// subsequent cycles.
func (s *Scheduler) fire(recurringTaskID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.operationTimeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			slog.ErrorContext(ctx, "panic during materialization",
				"recurring_task_id", recurringTaskID,
				"panic", p)
		}
	}()

	// Re-read the record so the trigger sees frequency or assignee
	// edits, and skips records deactivated since registration.
	rt, err := s.repo.FindRecurringTaskByID(ctx, recurringTaskID)
	if err != nil {
		slog.ErrorContext(ctx, "trigger could not load recurring task",
			"recurring_task_id", recurringTaskID,
			"error", err)
		return
	}
	if !rt.Active {
		slog.DebugContext(ctx, "skipping trigger for deactivated recurring task",
			"recurring_task_id", recurringTaskID)
		return
	}

	task, err := s.Materialize(ctx, rt)
	if err != nil {
		slog.ErrorContext(ctx, "materialization failed",
			"recurring_task_id", recurringTaskID,
			"error", err)
		return
	}

	slog.InfoContext(ctx, "recurring task materialized",
		"recurring_task_id", recurringTaskID,
		"task_id", task.ID,
		"due_at", task.DueAt)
}
