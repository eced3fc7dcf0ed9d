package repository

import (
	"context"
	"time"

	"bookmark-backend/internal/reminder/domain"
)

// ReminderRepository defines the interface for reminder data access
type ReminderRepository interface {
	// FindDue returns reminders where due_at <= now AND completed = false
	FindDue(ctx context.Context, now time.Time) ([]*domain.Reminder, error)

	// Update applies a patch to a single reminder in one statement and returns
	// the stored result. Returns domain.ErrReminderNotFound if the id is gone.
	Update(ctx context.Context, id string, patch domain.Patch) (*domain.Reminder, error)

	// Create inserts a new reminder, assigning an id if empty
	Create(ctx context.Context, reminder *domain.Reminder) error

	// DeleteCompletedBefore removes completed reminders last updated before cutoff
	DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// GroupByStats counts reminders grouped by channel, completed and email_sent
	GroupByStats(ctx context.Context) ([]domain.StatsRow, error)

	// CountDue counts reminders that are due at now
	CountDue(ctx context.Context, now time.Time) (int64, error)

	// CountUpcoming counts incomplete reminders due after now
	CountUpcoming(ctx context.Context, now time.Time) (int64, error)
}

// patchValues converts a patch into column updates. Only raised flags are
// written so a stored true can never be reset.
func patchValues(patch domain.Patch, now time.Time) map[string]interface{} {
	values := map[string]interface{}{
		"updated_at": now,
	}
	if patch.EmailSent {
		values["email_sent"] = true
	}
	if patch.Completed {
		values["completed"] = true
	}
	return values
}
