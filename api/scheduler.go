/*
scheduler.go - Background bank-holiday sync

PURPOSE:
  Periodically pulls bank holidays from an upstream source (normally the
  GOV.UK feed) and stores them, so summaries keep working from the local
  store when the feed is unreachable.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Each pass syncs the current and the next calendar year for every region
  - A failing region is logged and skipped; the rest of the pass continues

CONFIGURATION:
  - CheckInterval: How often to sync (default: 24 hours)
  - Enabled: Whether the scheduler is active (default: true)

USAGE:
  scheduler := NewHolidaySyncScheduler(store, source, regions, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - holidays/govuk.go: Upstream feed
  - holidays.go: Manual import endpoints
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/holidays"
	"go.uber.org/zap"
)

// HolidaySyncScheduler copies upstream bank holidays into the store.
type HolidaySyncScheduler struct {
	Store         generic.HolidayStore
	Source        holidays.Source
	Regions       []string
	Logger        *zap.Logger
	CheckInterval time.Duration
	Enabled       bool

	// Now picks the years to sync.
	Now func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// SyncResult reports one pass.
type SyncResult struct {
	Saved  int
	Failed int
}

// NewHolidaySyncScheduler creates a new scheduler.
func NewHolidaySyncScheduler(store generic.HolidayStore, source holidays.Source, regions []string, logger *zap.Logger) *HolidaySyncScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HolidaySyncScheduler{
		Store:         store,
		Source:        source,
		Regions:       regionsOrDefault(regions),
		Logger:        logger,
		CheckInterval: 24 * time.Hour,
		Enabled:       true,
		Now:           time.Now,
	}
}

// Start begins the scheduler.
func (s *HolidaySyncScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		s.Logger.Info("holiday sync disabled, not starting")
		return
	}
	if s.ticker != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.cancel = cancel
	s.wg.Add(1)

	go s.run(ctx)

	s.Logger.Info("holiday sync started", zap.Duration("interval", s.CheckInterval))
}

// Stop stops the scheduler. An in-flight pass is cancelled and waited for.
func (s *HolidaySyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stop)
		s.cancel()
		s.wg.Wait()
		s.ticker = nil
		s.cancel = nil
		s.Logger.Info("holiday sync stopped")
	}
}

func (s *HolidaySyncScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	// Sync immediately on start
	s.sync(ctx)

	for {
		select {
		case <-s.ticker.C:
			s.sync(ctx)
		case <-s.stop:
			return
		}
	}
}

func (s *HolidaySyncScheduler) sync(ctx context.Context) SyncResult {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	year := now.Year()

	var res SyncResult
	for _, region := range s.Regions {
		for _, y := range []int{year, year + 1} {
			if ctx.Err() != nil {
				s.Logger.Info("holiday sync cancelled", zap.Int("saved", res.Saved))
				return res
			}
			hs, err := s.Source.Holidays(ctx, region, y)
			if err != nil {
				res.Failed++
				s.Logger.Warn("holiday sync failed",
					zap.String("region", region),
					zap.Int("year", y),
					zap.Error(err))
				continue
			}
			if len(hs) == 0 {
				continue
			}
			if err := s.Store.SaveHolidays(ctx, hs); err != nil {
				res.Failed++
				s.Logger.Error("failed to store holidays",
					zap.String("region", region),
					zap.Int("year", y),
					zap.Error(err))
				continue
			}
			res.Saved += len(hs)
		}
	}

	s.Logger.Info("holiday sync completed",
		zap.Int("saved", res.Saved),
		zap.Int("failed", res.Failed))
	return res
}

// RunNow triggers an immediate sync (for testing/admin).
func (s *HolidaySyncScheduler) RunNow(ctx context.Context) SyncResult {
	return s.sync(ctx)
}

// GetNextRunTime returns when the next scheduled sync will occur.
func (s *HolidaySyncScheduler) GetNextRunTime() time.Time {
	return time.Now().Add(s.CheckInterval)
}

func regionsOrDefault(regions []string) []string {
	if len(regions) == 0 {
		return holidays.Regions
	}
	return regions
}
