package service

import (
	"log/slog"
	"time"
)

// Sweeper is anything holding expiring state that needs periodic pruning,
// such as the local user pool's refresh tokens and codes.
type Sweeper interface {
	Name() string
	Sweep(now time.Time) int
}

// HousekeepingService periodically prunes expired state so in-memory
// collaborators don't grow without bound.
type HousekeepingService struct {
	Sweepers []Sweeper
	Logger   *slog.Logger
	Interval time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(logger *slog.Logger, interval time.Duration, sweepers ...Sweeper) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Sweepers: sweepers,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "sweepers", len(s.Sweepers))
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

// run is the main background worker loop.
func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup(time.Now())

	for {
		select {
		case now := <-ticker.C:
			s.cleanup(now)
		case <-s.stopCh:
			return
		}
	}
}

// cleanup runs every sweeper. A panicking sweeper is logged and skipped so
// the others still run.
func (s *HousekeepingService) cleanup(now time.Time) int {
	s.Logger.Debug("starting housekeeping cleanup")

	total := 0
	for _, sw := range s.Sweepers {
		total += s.sweep(sw, now)
	}

	s.Logger.Info("housekeeping cleanup completed", "removed", total)
	return total
}

func (s *HousekeepingService) sweep(sw Sweeper, now time.Time) (removed int) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("housekeeping sweeper panicked", "sweeper", sw.Name(), "panic", r)
			removed = 0
		}
	}()

	removed = sw.Sweep(now)
	s.Logger.Debug("sweeper finished", "sweeper", sw.Name(), "removed", removed)
	return removed
}
