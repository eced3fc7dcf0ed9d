package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	authrepo "bookmark-backend/internal/auth/repository"
	"bookmark-backend/internal/reminder/domain"
	"bookmark-backend/internal/reminder/repository"
	sitedomain "bookmark-backend/internal/site/domain"
	siterepo "bookmark-backend/internal/site/repository"
	"bookmark-backend/pkg/logger"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConcurrency     = 4
	defaultRetentionWindow = 30 * 24 * time.Hour
)

// reminderUsecase implements ReminderUsecase interface
type reminderUsecase struct {
	reminderRepo repository.ReminderRepository
	userRepo     authrepo.UserRepository
	siteRepo     siterepo.SiteRepository
	mailer       EmailSender
	push         PushNotifier

	guard           singleFlight
	concurrency     int
	retentionWindow time.Duration
	now             func() time.Time
}

// NewReminderUsecase creates a new instance of reminderUsecase
func NewReminderUsecase(
	reminderRepo repository.ReminderRepository,
	userRepo authrepo.UserRepository,
	siteRepo siterepo.SiteRepository,
	mailer EmailSender,
) ReminderUsecase {
	return &reminderUsecase{
		reminderRepo:    reminderRepo,
		userRepo:        userRepo,
		siteRepo:        siteRepo,
		mailer:          mailer,
		concurrency:     defaultConcurrency,
		retentionWindow: defaultRetentionWindow,
		now:             time.Now,
	}
}

func (u *reminderUsecase) SetPushNotifier(notifier PushNotifier) {
	u.push = notifier
}

func (u *reminderUsecase) SetConcurrency(n int) {
	if n > 0 {
		u.concurrency = n
	}
}

func (u *reminderUsecase) SetRetentionWindow(window time.Duration) {
	if window > 0 {
		u.retentionWindow = window
	}
}

func (u *reminderUsecase) SetClock(now func() time.Time) {
	u.now = now
}

func (u *reminderUsecase) RunScan(ctx context.Context) (*domain.ScanSummary, error) {
	if !u.guard.tryAcquire() {
		return nil, ErrScanInProgress
	}
	defer u.guard.release()

	log := logger.Component("engine")
	now := u.now()
	summary := &domain.ScanSummary{StartedAt: now}

	reminders, err := u.reminderRepo.FindDue(ctx, now)
	if err != nil {
		summary.FinishedAt = u.now()
		return summary, fmt.Errorf("failed to find due reminders: %w", err)
	}
	if len(reminders) == 0 {
		summary.FinishedAt = u.now()
		return summary, nil
	}

	log.WithField("count", len(reminders)).Info("Found due reminders")

	var (
		mu      sync.Mutex
		aborted atomic.Bool
		seen    = make(map[string]struct{}, len(reminders))
	)
	g := new(errgroup.Group)
	g.SetLimit(u.concurrency)

	for _, r := range reminders {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}

		g.Go(func() error {
			if aborted.Load() {
				return nil
			}
			outcome, err := u.safeProcess(ctx, r)

			mu.Lock()
			summary.Add(outcome)
			mu.Unlock()

			if err != nil {
				aborted.Store(true)
				return err
			}
			return nil
		})
	}

	err = g.Wait()
	summary.FinishedAt = u.now()
	if err != nil {
		log.WithError(err).Error("Scan aborted")
		return summary, err
	}

	log.WithFields(logrus.Fields{
		"processed": summary.ProcessedCount,
		"errors":    summary.ErrorCount,
		"skipped":   summary.SkippedCount,
		"took":      summary.FinishedAt.Sub(summary.StartedAt).String(),
	}).Info("Scan completed")
	return summary, nil
}

// safeProcess keeps a panicking sender, lookup or store from taking down the
// process. The panic becomes a failed outcome for that reminder only.
func (u *reminderUsecase) safeProcess(ctx context.Context, r *domain.Reminder) (out domain.ReminderOutcome, err error) {
	defer func() {
		if p := recover(); p != nil {
			logger.Component("engine").WithFields(logrus.Fields{
				"reminder_id": r.ID,
				"panic":       p,
			}).Error("Recovered from panic while processing reminder")
			out = domain.ReminderOutcome{
				ReminderID: r.ID,
				Channel:    r.Channel,
				Status:     domain.OutcomeFailed,
				Error:      fmt.Sprintf("panic: %v", p),
			}
			err = nil
		}
	}()
	return u.processReminder(ctx, r)
}

// processReminder dispatches one reminder and applies its state transition.
// A non-nil error means the store is unusable and the scan must stop.
func (u *reminderUsecase) processReminder(ctx context.Context, r *domain.Reminder) (domain.ReminderOutcome, error) {
	log := logger.Component("engine").WithField("reminder_id", r.ID)
	out := domain.ReminderOutcome{ReminderID: r.ID, Channel: r.Channel}
	patch := domain.Patch{Completed: true}

	var site *sitedomain.Site
	if r.SiteID != "" {
		s, err := u.siteRepo.FindByID(ctx, r.SiteID)
		if err != nil {
			log.WithError(err).Warn("Site lookup failed, continuing without site details")
		}
		site = s
	}

	if r.Channel.IncludesEmail() {
		if r.EmailSent {
			// an earlier scan delivered the email; only completion is missing
			patch.EmailSent = true
		} else {
			messageID, err := u.sendEmail(ctx, r, site)
			if err != nil {
				log.WithError(err).Warn("Email delivery failed, reminder stays due")
				out.Status = domain.OutcomeFailed
				out.Error = err.Error()
				return out, nil
			}
			out.MessageID = messageID
			patch.EmailSent = true
		}
	}

	updated, err := u.reminderRepo.Update(ctx, r.ID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrReminderNotFound) {
			log.Debug("Reminder disappeared during scan, skipping")
			out.Status = domain.OutcomeSkipped
			out.Error = err.Error()
			return out, nil
		}
		out.Status = domain.OutcomeFailed
		out.Error = err.Error()
		if out.MessageID != "" {
			// the email left but emailSent was not stored; the next scan resends it
			log.WithError(err).WithField("message_id", out.MessageID).Error("Email delivered but state update failed")
		}
		return out, fmt.Errorf("failed to update reminder %s: %w", r.ID, err)
	}

	out.Status = domain.OutcomeCompleted
	out.EmailSent = updated.EmailSent

	if r.Channel.IncludesNotification() && u.push != nil {
		out.PushSent = u.sendPush(ctx, r, site)
	}

	if r.IsRecurring {
		u.materialize(ctx, r, &out)
	}
	return out, nil
}

func (u *reminderUsecase) sendEmail(ctx context.Context, r *domain.Reminder, site *sitedomain.Site) (string, error) {
	owner, err := u.userRepo.FindByID(ctx, r.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve owner %s: %w", r.UserID, err)
	}
	if owner == nil || owner.Email == "" {
		return "", fmt.Errorf("owner %s has no email address", r.UserID)
	}

	msg := composeEmail(r, owner, site)
	return u.mailer.Send(ctx, owner.Email, msg.subject, msg.textBody, msg.htmlBody)
}

func (u *reminderUsecase) sendPush(ctx context.Context, r *domain.Reminder, site *sitedomain.Site) bool {
	data := map[string]string{
		"type":        "site_reminder",
		"reminder_id": r.ID,
	}
	if site != nil {
		data["site_id"] = site.ID
		data["url"] = site.URL
	}

	delivered, err := u.push.NotifyUser(ctx, r.UserID, r.Title, pushBody(r, site), data)
	if err != nil {
		logger.Component("engine").WithError(err).WithField("reminder_id", r.ID).Warn("Push notification failed")
		return false
	}
	return delivered > 0
}

// materialize enqueues the next occurrence of a completed recurring reminder.
// Failures leave the original completed and are reported on the outcome.
func (u *reminderUsecase) materialize(ctx context.Context, r *domain.Reminder, out *domain.ReminderOutcome) {
	log := logger.Component("engine").WithField("reminder_id", r.ID)

	successor, err := domain.NextOccurrence(r, u.now())
	if err != nil {
		log.WithError(err).Warn("Skipping recurrence")
		out.RecurrenceError = err.Error()
		return
	}

	if err := u.reminderRepo.Create(ctx, successor); err != nil {
		log.WithError(err).Error("Failed to create next occurrence")
		out.RecurrenceError = err.Error()
		return
	}

	log.WithFields(logrus.Fields{
		"successor_id": successor.ID,
		"due_at":       successor.DueAt,
	}).Info("Scheduled next occurrence")
	out.SuccessorID = successor.ID
}

func (u *reminderUsecase) SweepCompleted(ctx context.Context) (int64, error) {
	cutoff := u.now().Add(-u.retentionWindow)
	deleted, err := u.reminderRepo.DeleteCompletedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep completed reminders: %w", err)
	}

	logger.Component("engine").WithFields(logrus.Fields{
		"deleted": deleted,
		"cutoff":  cutoff,
	}).Info("Retention sweep completed")
	return deleted, nil
}

func (u *reminderUsecase) GetStats(ctx context.Context) (*domain.Stats, error) {
	now := u.now()

	groups, err := u.reminderRepo.GroupByStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to group reminders: %w", err)
	}
	due, err := u.reminderRepo.CountDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count due reminders: %w", err)
	}
	upcoming, err := u.reminderRepo.CountUpcoming(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count upcoming reminders: %w", err)
	}

	if groups == nil {
		groups = []domain.StatsRow{}
	}
	return &domain.Stats{
		Groups:      groups,
		Due:         due,
		Upcoming:    upcoming,
		ScanRunning: u.guard.busy(),
	}, nil
}
