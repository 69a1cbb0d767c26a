package scheduler

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aquafit/pixreminder/internal/domain/model"
)

// EmitFunc receives the snapshot of a reminder whose grace period elapsed
// while the order was still pending.
type EmitFunc func(snapshot model.ReminderSnapshot)

type registryEntry struct {
	snapshot    model.ReminderSnapshot
	scheduledAt time.Time
	fireAt      time.Time
	token       Token
}

// Registry tracks at most one pending reminder per order id. All mutation
// goes through a single mutex, which also serializes cancel against the
// timer-fire path: a cancelled entry can never fire, and a fired entry is
// removed before the emit callback runs.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
	timer   Timer
	emit    EmitFunc
	logger  *slog.Logger
}

// NewRegistry constructs an empty registry. emit is invoked outside the
// registry lock once per fired reminder.
func NewRegistry(timer Timer, emit EmitFunc, logger *slog.Logger) *Registry {
	return &Registry{
		entries: make(map[string]*registryEntry),
		timer:   timer,
		emit:    emit,
		logger:  logger,
	}
}

// Schedule arms a reminder for the order unless one is already pending.
// Returns false on duplicate, leaving the existing reminder untouched.
func (r *Registry) Schedule(snapshot model.ReminderSnapshot, grace time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[snapshot.OrderID]; exists {
		return false
	}

	now := time.Now()
	entry := &registryEntry{
		snapshot:    snapshot,
		scheduledAt: now,
		fireAt:      now.Add(grace),
	}
	r.entries[snapshot.OrderID] = entry
	entry.token = r.timer.Arm(grace, func() { r.fire(snapshot.OrderID, entry) })
	return true
}

// Cancel disarms and removes the pending reminder for the order. Returns
// false when nothing was pending, which is a normal case for orders paid
// immediately or never scheduled.
func (r *Registry) Cancel(orderID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.entries[orderID]
	if !exists {
		return false
	}
	entry.token.Stop()
	delete(r.entries, orderID)
	return true
}

// fire runs on timer expiry. The entry identity check guards against the
// race where the reminder was cancelled and a new one scheduled before this
// callback acquired the lock.
func (r *Registry) fire(orderID string, armed *registryEntry) {
	r.mu.Lock()
	entry, exists := r.entries[orderID]
	if !exists || entry != armed {
		r.mu.Unlock()
		r.logger.Debug("reminder fire skipped, entry gone", slog.String("order", orderID))
		return
	}
	delete(r.entries, orderID)
	r.mu.Unlock()

	r.emit(entry.snapshot)
}

// Pending returns a snapshot of currently armed reminders, ordered by fire
// time.
func (r *Registry) Pending() []model.PendingReminder {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending := make([]model.PendingReminder, 0, len(r.entries))
	for id, entry := range r.entries {
		pending = append(pending, model.PendingReminder{
			OrderID:     id,
			ScheduledAt: entry.scheduledAt,
			FireAt:      entry.fireAt,
			Phone:       entry.snapshot.Phone,
		})
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].FireAt.Before(pending[j].FireAt) })
	return pending
}

// Len reports the number of armed reminders.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
