package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bookmark-backend/internal/reminder/domain"
	"bookmark-backend/internal/reminder/usecase"
	"bookmark-backend/pkg/logger"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Engine is the part of the reminder usecase the scheduler drives
type Engine interface {
	RunScan(ctx context.Context) (*domain.ScanSummary, error)
	SweepCompleted(ctx context.Context) (int64, error)
}

// ReminderScheduler fires a reminder scan on a fixed interval and the
// retention sweep on a cron schedule
type ReminderScheduler struct {
	engine            Engine
	interval          time.Duration
	retentionSchedule string

	cron     *cron.Cron
	stopChan chan struct{}
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
}

// NewReminderScheduler creates a new scheduler
func NewReminderScheduler(engine Engine, interval time.Duration, retentionSchedule string) *ReminderScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if retentionSchedule == "" {
		retentionSchedule = "@weekly"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ReminderScheduler{
		engine:            engine,
		interval:          interval,
		retentionSchedule: retentionSchedule,
		cron:              cron.New(),
		stopChan:          make(chan struct{}),
		ctx:               ctx,
		cancel:            cancel,
	}
}

// Start begins the scan loop and registers the retention job
func (s *ReminderScheduler) Start() error {
	log := logger.Component("scheduler")

	if _, err := s.cron.AddFunc(s.retentionSchedule, s.sweep); err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", s.retentionSchedule, err)
	}
	s.cron.Start()

	log.WithFields(logrus.Fields{
		"interval":  s.interval.String(),
		"retention": s.retentionSchedule,
	}).Info("Starting reminder scheduler")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		// Run immediately on start
		s.tick()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.tick()
			case <-s.stopChan:
				log.Info("Scheduler stopped")
				return
			}
		}
	}()
	return nil
}

// Stop halts both triggers and waits for in-flight work to return
func (s *ReminderScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		<-s.cron.Stop().Done()
		s.wg.Wait()
		s.cancel()
	})
}

// tick starts a scan without blocking the loop. A tick that lands while a
// scan is still running is dropped by the engine guard.
func (s *ReminderScheduler) tick() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.recoverPanic("scan")

		summary, err := s.engine.RunScan(s.ctx)
		log := logger.Component("scheduler")
		switch {
		case errors.Is(err, usecase.ErrScanInProgress):
			log.Debug("Previous scan still running, tick dropped")
		case err != nil:
			log.WithError(err).Error("Reminder scan failed")
		case summary != nil && len(summary.Outcomes) > 0:
			log.WithFields(logrus.Fields{
				"processed": summary.ProcessedCount,
				"errors":    summary.ErrorCount,
				"skipped":   summary.SkippedCount,
			}).Info("Reminder scan finished")
		}
	}()
}

func (s *ReminderScheduler) sweep() {
	s.wg.Add(1)
	defer s.wg.Done()
	defer s.recoverPanic("sweep")

	if _, err := s.engine.SweepCompleted(s.ctx); err != nil {
		logger.Component("scheduler").WithError(err).Error("Retention sweep failed")
	}
}

func (s *ReminderScheduler) recoverPanic(job string) {
	if r := recover(); r != nil {
		logger.Component("scheduler").WithFields(logrus.Fields{
			"job":   job,
			"panic": r,
		}).Error("Recovered from panic")
	}
}
