package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
)

type blockingClassifier struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int64
	once    sync.Once
}

func (b *blockingClassifier) ClassifyEmailByID(ctx context.Context, _ int64) (*domain.ClassificationResult, error) {
	b.calls.Add(1)
	b.once.Do(func() { close(b.started) })
	select {
	case <-b.release:
	case <-ctx.Done():
	}
	return &domain.ClassificationResult{Method: domain.MethodRegex}, nil
}

type staticLister struct {
	emails []*domain.Email
}

func (s *staticLister) ListUnclassified(_ context.Context, limit int) ([]*domain.Email, error) {
	if len(s.emails) > limit {
		return s.emails[:limit], nil
	}
	return s.emails, nil
}

func TestRunSweepSkipsWhenInFlight(t *testing.T) {
	classifier := &blockingClassifier{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	lister := &staticLister{emails: []*domain.Email{{ID: 1}, {ID: 2}}}

	s := NewScheduler(classifier, lister, nil, SchedulerConfig{
		Interval:    time.Hour,
		BatchSize:   10,
		Concurrency: 2,
	}, zerolog.Nop())

	firstDone := make(chan int)
	go func() {
		firstDone <- s.RunSweep(context.Background())
	}()

	select {
	case <-classifier.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first sweep never started classifying")
	}

	// A tick arriving mid-sweep must skip, not queue.
	if got := s.RunSweep(context.Background()); got != -1 {
		t.Errorf("overlapping sweep returned %d, want -1 (skipped)", got)
	}

	close(classifier.release)

	select {
	case got := <-firstDone:
		if got != 2 {
			t.Errorf("first sweep processed %d, want 2", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("first sweep did not finish")
	}

	// With the sweep finished the guard is clear again.
	if got := s.RunSweep(context.Background()); got != 2 {
		t.Errorf("follow-up sweep returned %d, want 2", got)
	}
}

type countingClassifier struct {
	calls atomic.Int64
}

func (c *countingClassifier) ClassifyEmailByID(_ context.Context, _ int64) (*domain.ClassificationResult, error) {
	c.calls.Add(1)
	return &domain.ClassificationResult{Method: domain.MethodRegex}, nil
}

func TestRunSweepEmptyBatch(t *testing.T) {
	classifier := &countingClassifier{}
	s := NewScheduler(classifier, &staticLister{}, nil, DefaultSchedulerConfig(), zerolog.Nop())

	if got := s.RunSweep(context.Background()); got != 0 {
		t.Errorf("empty sweep returned %d, want 0", got)
	}
	if classifier.calls.Load() != 0 {
		t.Errorf("classifier called %d times on empty batch", classifier.calls.Load())
	}
}

func TestRunSweepRespectsBatchLimit(t *testing.T) {
	classifier := &countingClassifier{}
	emails := make([]*domain.Email, 8)
	for i := range emails {
		emails[i] = &domain.Email{ID: int64(i + 1)}
	}

	s := NewScheduler(classifier, &staticLister{emails: emails}, nil, SchedulerConfig{
		Interval:    time.Hour,
		BatchSize:   3,
		Concurrency: 2,
	}, zerolog.Nop())

	if got := s.RunSweep(context.Background()); got != 3 {
		t.Errorf("sweep processed %d, want batch limit of 3", got)
	}
	if classifier.calls.Load() != 3 {
		t.Errorf("classifier calls = %d, want 3", classifier.calls.Load())
	}
}
