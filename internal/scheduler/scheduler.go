// Package scheduler owns the daily notification sweep. One background
// goroutine, started once at process startup, fires at local midnight and
// runs the low-stock sweep followed by the expiring-soon sweep. Errors are
// logged and the task re-arms for the next day; there is no checkpointing
// because each sweep re-queries live state.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/lfmartins/stock-manager/internal/notify"
)

type Scheduler struct {
	deriver *notify.Deriver
	log     zerolog.Logger
	now     func() time.Time
	done    chan struct{}
}

func New(deriver *notify.Deriver, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		deriver: deriver,
		log:     logger,
		now:     time.Now,
		done:    make(chan struct{}),
	}
}

// Start launches the daily loop. Cancelling ctx stops it; Wait blocks until
// the loop has exited.
func (s *Scheduler) Start(ctx context.Context) {
	go s.run(ctx)
}

// Wait blocks until the scheduler goroutine has stopped.
func (s *Scheduler) Wait() {
	<-s.done
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	for {
		next := nextMidnight(s.now())
		timer := time.NewTimer(next.Sub(s.now()))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info().Msg("scheduler stopped")
			return
		case <-timer.C:
			s.RunSweeps()
		}
	}
}

// RunSweeps executes both daily sweeps sequentially. Exported so operators
// can trigger an off-schedule run and so tests can drive it directly.
func (s *Scheduler) RunSweeps() {
	started := s.now()

	if err := s.deriver.CheckLowStockProducts(); err != nil {
		s.log.Error().Err(err).Msg("low stock sweep failed")
	}
	if err := s.deriver.CheckExpiringProducts(); err != nil {
		s.log.Error().Err(err).Msg("expiring soon sweep failed")
	}

	s.log.Info().Dur("elapsed", s.now().Sub(started)).Msg("scheduled notification checks completed")
}

// nextMidnight returns the first local midnight strictly after t.
func nextMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}
