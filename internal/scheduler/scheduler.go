// Package scheduler runs the periodic regeneration sweep over all tranches.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/model"
)

// DefaultSpec runs the sweep every night at 02:00.
const DefaultSpec = "0 2 * * *"

// Sweeper regenerates the schedule of every tranche.
type Sweeper interface {
	RegenerateAll(ctx context.Context) (model.SweepSummary, error)
}

// stopGrace is how long Stop waits for a cancelled sweep to return.
const stopGrace = 5 * time.Second

// Scheduler wraps a cron runner with a single sweep job.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	timeout time.Duration
	logger  *zap.Logger

	// base is the parent of every sweep context; Stop cancels it when the
	// shutdown deadline passes.
	base    context.Context
	cancel  context.CancelFunc
	running sync.WaitGroup
}

// New creates a Scheduler for the given five-field cron spec.
// An empty spec yields a nil Scheduler, meaning the sweep is disabled.
func New(spec string, sweeper Sweeper, logger *zap.Logger) (*Scheduler, error) {
	if spec == "" {
		return nil, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		sweeper: sweeper,
		timeout: 30 * time.Minute,
		logger:  logger,
	}
	s.base, s.cancel = context.WithCancel(context.Background())

	if _, err := s.cron.AddFunc(spec, s.Run); err != nil {
		s.cancel()
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return s, nil
}

// Run performs one sweep. It is the cron job body and may be called directly.
func (s *Scheduler) Run() {
	s.running.Add(1)
	defer s.running.Done()

	ctx, cancel := context.WithTimeout(s.base, s.timeout)
	defer cancel()

	start := time.Now()
	summary, err := s.sweeper.RegenerateAll(ctx)
	if err != nil {
		s.logger.Error("regeneration sweep aborted", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return
	}
	s.logger.Info("regeneration sweep completed",
		zap.Int("tranches", summary.Tranches),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// Start begins running the sweep on schedule in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.logger.Info("regeneration sweep scheduled", zap.Time("next_run", e.Next))
	}
}

// Stop stops scheduling new sweeps and waits for a running one to finish.
// When ctx expires first, the running sweep is cancelled, which rolls back its
// current transaction, and Stop waits up to stopGrace for it to return.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cron.Stop()

	done := make(chan struct{})
	go func() {
		s.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return
	case <-ctx.Done():
	}

	s.logger.Warn("regeneration sweep still running at shutdown, cancelling it")
	s.cancel()

	select {
	case <-done:
	case <-time.After(stopGrace):
		s.logger.Error("regeneration sweep did not stop after cancellation")
	}
}
