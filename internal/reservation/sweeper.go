package reservation

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const DefaultSweepInterval = 30 * time.Second

// Sweeper periodically returns lapsed holds to open. Every instance runs one;
// concurrent sweeps are safe because each expiry is a compare-and-set.
type Sweeper struct {
	engine   *Engine
	interval time.Duration
	logger   *slog.Logger

	started  atomic.Bool
	stopOnce sync.Once
	done     chan struct{}
	stopped  chan struct{}
}

func NewSweeper(engine *Engine, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	return &Sweeper{
		engine:   engine,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start runs one sweep immediately and then one per interval until Stop is
// called or ctx is done.
func (s *Sweeper) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}

	s.logger.Info("starting hold expiry sweeper", "interval", s.interval.String())

	go func() {
		defer close(s.stopped)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.sweep(ctx)

		for {
			select {
			case <-ticker.C:
				s.sweep(ctx)
			case <-s.done:
				s.logger.Info("hold expiry sweeper stopped")
				return
			case <-ctx.Done():
				s.logger.Info("hold expiry sweeper stopped", "reason", ctx.Err())
				return
			}
		}
	}()
}

// Stop waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	if !s.started.Load() {
		return
	}

	s.stopOnce.Do(func() {
		close(s.done)
	})

	<-s.stopped
}

func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()

	expired, err := s.engine.ExpireSweep(ctx, s.engine.now())
	if err != nil {
		s.logger.Error("hold expiry sweep failed", "error", err, "expired", expired)
		return
	}

	if expired > 0 {
		s.logger.Info("expired holds released", "count", expired, "elapsed", time.Since(start).String())
		return
	}

	s.logger.Debug("no expired holds found")
}
