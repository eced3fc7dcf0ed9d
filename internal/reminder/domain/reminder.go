package domain

import (
	"errors"
	"fmt"
	"time"
)

// Channel is the delivery mechanism a reminder requires
type Channel string

const (
	ChannelNotification Channel = "notification"
	ChannelEmail        Channel = "email"
	ChannelBoth         Channel = "both"
)

// IncludesEmail reports whether the email sender must succeed before completion
func (c Channel) IncludesEmail() bool {
	return c == ChannelEmail || c == ChannelBoth
}

// IncludesNotification reports whether the reminder is surfaced in-app
func (c Channel) IncludesNotification() bool {
	return c == ChannelNotification || c == ChannelBoth
}

// RecurrenceKind is how far a recurring reminder advances each time it fires
type RecurrenceKind string

const (
	RecurrenceDaily   RecurrenceKind = "daily"
	RecurrenceWeekly  RecurrenceKind = "weekly"
	RecurrenceMonthly RecurrenceKind = "monthly"
)

var (
	ErrReminderNotFound  = errors.New("reminder not found")
	ErrInvalidRecurrence = errors.New("invalid recurrence")
)

// Reminder asks the owner to revisit a saved site at DueAt
type Reminder struct {
	ID               string         `json:"id" gorm:"primaryKey" bson:"_id"`
	UserID           string         `json:"user_id" gorm:"index;not null" bson:"user_id"`
	SiteID           string         `json:"site_id" gorm:"index" bson:"site_id"`
	Title            string         `json:"title" gorm:"not null" bson:"title"`
	Description      string         `json:"description,omitempty" bson:"description"`
	DueAt            time.Time      `json:"due_at" gorm:"index;not null" bson:"due_at"`
	Channel          Channel        `json:"channel" gorm:"default:notification" bson:"channel"`
	Completed        bool           `json:"completed" gorm:"index;default:false" bson:"completed"`
	EmailSent        bool           `json:"email_sent" gorm:"default:false" bson:"email_sent"`
	IsRecurring      bool           `json:"is_recurring" gorm:"default:false" bson:"is_recurring"`
	RecurrenceKind   RecurrenceKind `json:"recurrence_kind,omitempty" bson:"recurrence_kind,omitempty"`
	NextOccurrenceAt *time.Time     `json:"next_occurrence_at,omitempty" bson:"next_occurrence_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" bson:"updated_at"`
}

// IsDue reports whether the reminder is actionable at now
func (r *Reminder) IsDue(now time.Time) bool {
	return !r.Completed && !r.DueAt.After(now)
}

// Validate checks the recurrence metadata of a recurring reminder
func (r *Reminder) Validate() error {
	if !r.IsRecurring {
		return nil
	}
	if r.NextOccurrenceAt == nil {
		return fmt.Errorf("%w: next occurrence missing", ErrInvalidRecurrence)
	}
	switch r.RecurrenceKind {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRecurrence, r.RecurrenceKind)
	}
}

// Patch raises state flags on a reminder. Flags can only move from false to
// true; a false field leaves the stored value untouched.
type Patch struct {
	EmailSent bool
	Completed bool
}

// StatsRow is one group of the (channel, completed, email_sent) breakdown
type StatsRow struct {
	Channel   Channel `json:"channel" bson:"channel"`
	Completed bool    `json:"completed" bson:"completed"`
	EmailSent bool    `json:"email_sent" bson:"email_sent"`
	Count     int64   `json:"count" bson:"count"`
}

// Stats is the read-only introspection view of the reminder store
type Stats struct {
	Groups      []StatsRow `json:"groups"`
	Due         int64      `json:"due"`
	Upcoming    int64      `json:"upcoming"`
	ScanRunning bool       `json:"scan_running"`
}
