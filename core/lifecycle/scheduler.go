package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/lazyacme/core/logger"
	"github.com/dmitrymomot/lazyacme/core/metrics"
)

// DefaultInterval is the renewal evaluation period.
const DefaultInterval = 24 * time.Hour

// Scheduler periodically re-evaluates every configured domain and renews
// certificates close to expiry. The first evaluation happens one interval
// after Start.
type Scheduler struct {
	manager  *Manager
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	started bool
	running atomic.Bool
}

// NewScheduler creates a Scheduler. A non-positive interval uses DefaultInterval.
func NewScheduler(m *Manager, interval time.Duration, opts ...SchedulerOption) (*Scheduler, error) {
	if m == nil {
		return nil, ErrMissingDependency
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	s := &Scheduler{
		manager:  m,
		interval: interval,
		logger:   m.logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("scheduler"))
	return s, nil
}

// Running reports whether the loop is armed.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// Start runs the loop until ctx is done and returns ctx.Err().
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrSchedulerRunning
	}
	s.started = true
	s.mu.Unlock()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.running.Store(true)
	defer s.running.Store(false)

	s.logger.InfoContext(ctx, "renewal scheduler started", slog.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(context.Background(), "renewal scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Run provides errgroup compatibility. Context cancellation is a clean exit.
func (s *Scheduler) Run(ctx context.Context) func() error {
	return func() error {
		err := s.Start(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
}

// Tick performs one evaluation pass. The domain list is reloaded every time.
// The pass is abandoned as soon as another acquisition holds the lock; it is
// never queued.
func (s *Scheduler) Tick(ctx context.Context) {
	metrics.RenewalTick()
	s.logger.InfoContext(ctx, "running scheduled certificate check")

	domains, err := s.manager.config.LoadDomains()
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load domain config", logger.Error(err))
		return
	}

	reg := s.manager.registry
	for _, d := range domains {
		if ctx.Err() != nil {
			return
		}

		if reg.GlobalLockHeld() {
			metrics.LockRejected(metrics.SourceScheduler)
			s.logger.InfoContext(ctx, "acquisition in progress, skipping until next tick", logger.Domain(d.Name))
			return
		}

		due, left, err := s.manager.NeedsRenewal(d.Name)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to evaluate certificate", logger.Domain(d.Name), logger.Error(err))
			continue
		}
		if !due {
			s.logger.DebugContext(ctx, "certificate not due", logger.Domain(d.Name), slog.Duration("time_left", left))
			continue
		}

		if !reg.TryAcquireGlobalLock() {
			metrics.LockRejected(metrics.SourceScheduler)
			s.logger.InfoContext(ctx, "acquisition in progress, skipping until next tick", logger.Domain(d.Name))
			return
		}

		s.logger.InfoContext(ctx, "certificate due for renewal", logger.Domain(d.Name), slog.Duration("time_left", left))
		_ = s.manager.AcquireOrRenew(ctx, Request{
			Domain:   d.Name,
			Provider: d.DNSProvider,
			Mode:     ModeRenew,
		})
	}
}

// ArmAfterReconcile returns an errgroup function that reconciles startup
// state and then runs the scheduler. A failed or incomplete reconciliation
// leaves the scheduler disarmed without stopping the process.
func (s *Scheduler) ArmAfterReconcile(ctx context.Context) func() error {
	return func() error {
		if err := s.manager.Reconcile(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.WarnContext(ctx, "renewal scheduler not armed", logger.Error(err))
			return nil
		}
		return s.Run(ctx)()
	}
}
