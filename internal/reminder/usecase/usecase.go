package usecase

import (
	"context"
	"errors"
	"time"

	"bookmark-backend/internal/reminder/domain"
)

// ErrScanInProgress is returned when a scan is requested while another one runs
var ErrScanInProgress = errors.New("reminder scan already in progress")

// ReminderUsecase defines the reminder engine operations
type ReminderUsecase interface {
	// RunScan delivers every due reminder once and applies state transitions.
	// Returns ErrScanInProgress without touching the store if a scan is running.
	RunScan(ctx context.Context) (*domain.ScanSummary, error)

	// SweepCompleted deletes completed reminders older than the retention window
	SweepCompleted(ctx context.Context) (int64, error)

	// GetStats returns the read-only store breakdown
	GetStats(ctx context.Context) (*domain.Stats, error)

	// SetPushNotifier enables best-effort push for in-app reminders
	SetPushNotifier(notifier PushNotifier)

	// SetConcurrency bounds the number of reminders dispatched in parallel
	SetConcurrency(n int)

	// SetRetentionWindow sets how long completed reminders are kept
	SetRetentionWindow(window time.Duration)

	// SetClock overrides the time source
	SetClock(now func() time.Time)
}

// EmailSender delivers a single email and returns its message id
type EmailSender interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) (string, error)
}

// PushNotifier fans a notification out to a user's devices and returns how
// many devices accepted it
type PushNotifier interface {
	NotifyUser(ctx context.Context, userID, title, body string, data map[string]string) (int, error)
}
