package scheduler

import (
	"context"
	"sync"
	"time"

	"travel-booking/internal/usecase"
	"travel-booking/pkg/utils"

	"go.uber.org/zap"
)

const sweepBatchSize = 100

// Expiry periodically reclaims bookings whose payment window lapsed. The
// sweep is idempotent and races with payment capture are resolved under the
// booking row lock, so overlapping runs are harmless.
type Expiry struct {
	booking  usecase.BookingService
	interval time.Duration
	log      *zap.Logger

	stopCh chan struct{}
	doneWg sync.WaitGroup
	once   sync.Once

	now func() time.Time
}

func NewExpiry(booking usecase.BookingService, config utils.SchedulerConfig, log *zap.Logger) *Expiry {
	interval := time.Duration(config.SweepIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Expiry{
		booking:  booking,
		interval: interval,
		log:      log.With(zap.String("scheduler", "expiry")),
		stopCh:   make(chan struct{}),
		now:      time.Now,
	}
}

func (e *Expiry) Start(ctx context.Context) {
	e.doneWg.Add(1)
	go e.run(ctx)
	e.log.Info("Expiry scheduler started", zap.Duration("interval", e.interval))
}

// Stop signals the loop and waits for an in-flight sweep to finish.
func (e *Expiry) Stop() {
	e.once.Do(func() {
		close(e.stopCh)
	})
	e.doneWg.Wait()
	e.log.Info("Expiry scheduler stopped")
}

func (e *Expiry) run(ctx context.Context) {
	defer e.doneWg.Done()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	// One sweep at startup so a restart does not wait a full interval to
	// reclaim overdue bookings.
	e.sweep(ctx)

	for {
		select {
		case <-e.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.sweep(ctx)
		}
	}
}

func (e *Expiry) sweep(ctx context.Context) {
	started := e.now()
	count, err := e.booking.SweepExpired(ctx, sweepBatchSize)
	if err != nil {
		e.log.Error("Expiry sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		e.log.Info("Expiry sweep reclaimed bookings",
			zap.Int("count", count),
			zap.Duration("took", e.now().Sub(started)),
		)
	}
}
