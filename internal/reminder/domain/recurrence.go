package domain

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

// Advance returns the occurrence that follows t for the given kind.
// Daily and weekly are fixed wall-clock offsets. Monthly keeps the day of
// month and clamps to the last day of the following month.
func Advance(t time.Time, kind RecurrenceKind) (time.Time, error) {
	switch kind {
	case RecurrenceDaily:
		return t.Add(24 * time.Hour), nil
	case RecurrenceWeekly:
		return t.Add(7 * 24 * time.Hour), nil
	case RecurrenceMonthly:
		return nextMonth(t), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidRecurrence, kind)
	}
}

func nextMonth(t time.Time) time.Time {
	first := now.With(t).BeginningOfMonth().AddDate(0, 1, 0)
	lastDay := now.With(first).EndOfMonth().Day()

	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// NextOccurrence builds the successor of a completed recurring reminder.
// The successor is due at the occurrence that just fired and is seeded with
// the one after it.
func NextOccurrence(r *Reminder, createdAt time.Time) (*Reminder, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if !r.IsRecurring {
		return nil, fmt.Errorf("%w: reminder %s is not recurring", ErrInvalidRecurrence, r.ID)
	}

	seed := *r.NextOccurrenceAt
	next, err := Advance(seed, r.RecurrenceKind)
	if err != nil {
		return nil, err
	}

	return &Reminder{
		UserID:           r.UserID,
		SiteID:           r.SiteID,
		Title:            r.Title,
		Description:      r.Description,
		DueAt:            seed,
		Channel:          r.Channel,
		IsRecurring:      true,
		RecurrenceKind:   r.RecurrenceKind,
		NextOccurrenceAt: &next,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}, nil
}
