package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"bookmark-backend/internal/reminder/domain"

	"github.com/google/uuid"
)

// MemoryReminderRepository keeps reminders in process memory. It backs local
// runs without a database and the engine tests.
type MemoryReminderRepository struct {
	mu        sync.RWMutex
	reminders map[string]domain.Reminder
	now       func() time.Time
}

// NewMemoryReminderRepository creates an empty in-memory repository
func NewMemoryReminderRepository() *MemoryReminderRepository {
	return &MemoryReminderRepository{
		reminders: make(map[string]domain.Reminder),
		now:       time.Now,
	}
}

// SetClock overrides the time used for updated_at stamps
func (r *MemoryReminderRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Get returns a copy of the stored reminder
func (r *MemoryReminderRepository) Get(id string) (*domain.Reminder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.reminders[id]
	if !ok {
		return nil, false
	}
	return clone(stored), true
}

// All returns copies of every stored reminder ordered by due_at
func (r *MemoryReminderRepository) All() []*domain.Reminder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Reminder, 0, len(r.reminders))
	for _, stored := range r.reminders {
		out = append(out, clone(stored))
	}
	sortByDue(out)
	return out
}

// Delete removes a reminder, as a user-initiated deletion would
func (r *MemoryReminderRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reminders, id)
}

// Put stores a reminder as-is, keeping its timestamps. Used to seed state.
func (r *MemoryReminderRepository) Put(reminder *domain.Reminder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reminder.ID == "" {
		reminder.ID = uuid.New().String()
	}
	r.reminders[reminder.ID] = *clone(*reminder)
}

func (r *MemoryReminderRepository) FindDue(_ context.Context, now time.Time) ([]*domain.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var due []*domain.Reminder
	for _, stored := range r.reminders {
		if stored.IsDue(now) {
			due = append(due, clone(stored))
		}
	}
	sortByDue(due)
	return due, nil
}

func (r *MemoryReminderRepository) Update(_ context.Context, id string, patch domain.Patch) (*domain.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.reminders[id]
	if !ok {
		return nil, domain.ErrReminderNotFound
	}
	if patch.EmailSent {
		stored.EmailSent = true
	}
	if patch.Completed {
		stored.Completed = true
	}
	stored.UpdatedAt = r.now()
	r.reminders[id] = stored
	return clone(stored), nil
}

func (r *MemoryReminderRepository) Create(_ context.Context, reminder *domain.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reminder.ID == "" {
		reminder.ID = uuid.New().String()
	}
	now := r.now()
	if reminder.CreatedAt.IsZero() {
		reminder.CreatedAt = now
	}
	reminder.UpdatedAt = now
	r.reminders[reminder.ID] = *clone(*reminder)
	return nil
}

func (r *MemoryReminderRepository) DeleteCompletedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, stored := range r.reminders {
		if stored.Completed && stored.UpdatedAt.Before(cutoff) {
			delete(r.reminders, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *MemoryReminderRepository) GroupByStats(_ context.Context) ([]domain.StatsRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type key struct {
		channel   domain.Channel
		completed bool
		emailSent bool
	}
	counts := make(map[key]int64)
	for _, stored := range r.reminders {
		counts[key{stored.Channel, stored.Completed, stored.EmailSent}]++
	}

	rows := make([]domain.StatsRow, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, domain.StatsRow{Channel: k.channel, Completed: k.completed, EmailSent: k.emailSent, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Channel != b.Channel {
			return a.Channel < b.Channel
		}
		if a.Completed != b.Completed {
			return !a.Completed
		}
		return !a.EmailSent && b.EmailSent
	})
	return rows, nil
}

func (r *MemoryReminderRepository) CountDue(_ context.Context, now time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, stored := range r.reminders {
		if stored.IsDue(now) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryReminderRepository) CountUpcoming(_ context.Context, now time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, stored := range r.reminders {
		if !stored.Completed && stored.DueAt.After(now) {
			n++
		}
	}
	return n, nil
}

func clone(r domain.Reminder) *domain.Reminder {
	if r.NextOccurrenceAt != nil {
		next := *r.NextOccurrenceAt
		r.NextOccurrenceAt = &next
	}
	return &r
}

func sortByDue(reminders []*domain.Reminder) {
	sort.Slice(reminders, func(i, j int) bool {
		return reminders[i].DueAt.Before(reminders[j].DueAt)
	})
}
