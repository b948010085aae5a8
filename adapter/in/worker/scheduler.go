// Package worker runs the background classification sweep.
package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/pool"
	"github.com/rs/zerolog"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
)

// Classifier runs one full classification pass for an email.
type Classifier interface {
	ClassifyEmailByID(ctx context.Context, emailID int64) (*domain.ClassificationResult, error)
}

// EmailLister finds emails still waiting for classification.
type EmailLister interface {
	ListUnclassified(ctx context.Context, limit int) ([]*domain.Email, error)
}

// ReminderDispatcher sends due reminders. Optional.
type ReminderDispatcher interface {
	DispatchDue(ctx context.Context, limit int) (int, error)
}

// SchedulerConfig tunes the sweep loop.
type SchedulerConfig struct {
	Interval     time.Duration
	BatchSize    int
	Concurrency  int
	EmailTimeout time.Duration
}

func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Interval:     time.Minute,
		BatchSize:    50,
		Concurrency:  4,
		EmailTimeout: 90 * time.Second,
	}
}

// Scheduler triggers periodic sweeps over unclassified emails. At most
// one sweep runs at a time: a tick that fires mid-sweep is skipped, not
// queued. Emails within a sweep are classified concurrently under a
// bounded worker pool.
type Scheduler struct {
	classifier Classifier
	emails     EmailLister
	reminders  ReminderDispatcher
	cfg        SchedulerConfig
	log        zerolog.Logger

	inFlight atomic.Bool
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewScheduler(classifier Classifier, emails EmailLister, reminders ReminderDispatcher, cfg SchedulerConfig, log zerolog.Logger) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Scheduler{
		classifier: classifier,
		emails:     emails,
		reminders:  reminders,
		cfg:        cfg,
		log:        log.With().Str("component", "sweep_scheduler").Logger(),
		done:       make(chan struct{}),
	}
}

// Start runs the tick loop until Stop is called.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()

		s.log.Info().
			Dur("interval", s.cfg.Interval).
			Int("batch_size", s.cfg.BatchSize).
			Int("concurrency", s.cfg.Concurrency).
			Msg("sweep scheduler started")

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunSweep(ctx)
				s.dispatchReminders(ctx)
			}
		}
	}()
}

// Stop halts the tick loop. An in-flight sweep finishes its submitted
// emails before the worker pool closes.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.done
	s.log.Info().Msg("sweep scheduler stopped")
}

// RunSweep classifies one batch of unclassified emails. Returns the
// number processed, or -1 when another sweep was already in flight.
func (s *Scheduler) RunSweep(ctx context.Context) int {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.log.Debug().Msg("sweep already in flight, skipping tick")
		return -1
	}
	defer s.inFlight.Store(false)

	emails, err := s.emails.ListUnclassified(ctx, s.cfg.BatchSize)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list unclassified emails")
		return 0
	}
	if len(emails) == 0 {
		return 0
	}

	start := time.Now()
	var failed atomic.Int64

	classifyWorker := pool.WorkerFunc[int64](func(ctx context.Context, emailID int64) error {
		emailCtx := ctx
		if s.cfg.EmailTimeout > 0 {
			var cancel context.CancelFunc
			emailCtx, cancel = context.WithTimeout(ctx, s.cfg.EmailTimeout)
			defer cancel()
		}

		if _, err := s.classifier.ClassifyEmailByID(emailCtx, emailID); err != nil {
			failed.Add(1)
			s.log.Warn().Err(err).Int64("email_id", emailID).Msg("failed to classify email")
		}
		return nil
	})

	grp := pool.New[int64](s.cfg.Concurrency, classifyWorker).WithContinueOnError()
	if err := grp.Go(ctx); err != nil {
		s.log.Error().Err(err).Msg("failed to start sweep worker pool")
		return 0
	}

	for _, email := range emails {
		grp.Submit(email.ID)
	}

	if err := grp.Close(ctx); err != nil && ctx.Err() == nil {
		s.log.Warn().Err(err).Msg("sweep worker pool closed with error")
	}

	s.log.Info().
		Int("total", len(emails)).
		Int64("failed", failed.Load()).
		Dur("elapsed", time.Since(start)).
		Msg("sweep finished")

	return len(emails)
}

func (s *Scheduler) dispatchReminders(ctx context.Context) {
	if s.reminders == nil {
		return
	}
	sent, err := s.reminders.DispatchDue(ctx, s.cfg.BatchSize)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to dispatch due reminders")
		return
	}
	if sent > 0 {
		s.log.Info().Int("sent", sent).Msg("dispatched due reminders")
	}
}
