/*
source.go - Bank-holiday sources

PURPOSE:
  A leave calculation only needs a set of dates that are not business days.
  This package produces that set from rules computed locally, from the GOV.UK
  feed, or from holidays persisted in the store. A Chain tries sources in
  order so a deployment can prefer curated data and still fall back to the
  computed rules.

SEE ALSO:
  - generic/calendar.go: BankHolidaySet, the calendar consumed by leave
  - store/sqlite: persistence behind Stored
*/
package holidays

import (
	"context"
	"sort"

	"github.com/warp/leave-engine/generic"
	"go.uber.org/zap"
)

// Source returns the bank holidays of a region for one calendar year.
type Source interface {
	Holidays(ctx context.Context, region string, year int) ([]generic.Holiday, error)
}

// Calendar resolves the holidays of a region and year into a BankHolidaySet.
func Calendar(ctx context.Context, src Source, region string, year int) (generic.BankHolidaySet, error) {
	hs, err := src.Holidays(ctx, region, year)
	if err != nil {
		return nil, err
	}
	return generic.HolidaySet(hs), nil
}

// =============================================================================
// STORED
// =============================================================================

// Stored reads holidays previously saved to a HolidayStore.
type Stored struct {
	Store generic.HolidayStore
}

var _ Source = Stored{}

func (s Stored) Holidays(ctx context.Context, region string, year int) ([]generic.Holiday, error) {
	return s.Store.ListHolidays(ctx, region, year)
}

// =============================================================================
// CHAIN
// =============================================================================

// Chain returns the first non-empty answer from its sources. A failing source
// is logged and skipped; the last error is returned only if no source answers.
type Chain struct {
	Sources []Source
	Logger  *zap.Logger
}

var _ Source = Chain{}

func NewChain(logger *zap.Logger, sources ...Source) Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Chain{Sources: sources, Logger: logger}
}

func (c Chain) Holidays(ctx context.Context, region string, year int) ([]generic.Holiday, error) {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var lastErr error
	for i, src := range c.Sources {
		hs, err := src.Holidays(ctx, region, year)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("holiday source failed",
				zap.Int("source", i),
				zap.String("region", region),
				zap.Int("year", year),
				zap.Error(err))
			lastErr = err
			continue
		}
		if len(hs) > 0 {
			return hs, nil
		}
	}
	return nil, lastErr
}

func sortHolidays(hs []generic.Holiday) {
	sort.SliceStable(hs, func(i, j int) bool {
		return hs[i].Date.Before(hs[j].Date)
	})
}

// FilterYear keeps the holidays of one region falling in year.
func FilterYear(hs []generic.Holiday, region string, year int) []generic.Holiday {
	var out []generic.Holiday
	for _, h := range hs {
		if h.Region == region && (year == 0 || h.Date.Year() == year) {
			out = append(out, h)
		}
	}
	return out
}
