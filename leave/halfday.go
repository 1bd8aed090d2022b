package leave

import (
	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/generic"
)

// =============================================================================
// HALF-DAY POLICY
// =============================================================================
//
// A half-day marker belongs to the boundary day it was recorded against. When
// a request is clamped to a calendar year, a clamped boundary only receives
// the half-day reduction if it is still the request's original boundary: a
// booking from 29 Dec to 2 Jan with an afternoon-off end does not make
// 31 Dec a half day in the earlier year.
//
// Precedence: per-boundary signals first; the legacy whole-request flag only
// applies to requests that were single-day to begin with and were not
// shortened by the clamp.

var half = decimal.NewFromFloat(0.5)

// countDays returns the business-day length of the clamped span with the
// half-day policy applied. The result is never negative and is not rounded.
func countDays(r Request, original, clamped generic.Period, calendar generic.HolidayCalendar) decimal.Decimal {
	if clamped.IsSingleDay() {
		return singleDay(r, original, clamped.Start, calendar)
	}
	return multiDay(r, original, clamped, calendar)
}

func singleDay(r Request, original generic.Period, day generic.TimePoint, calendar generic.HolidayCalendar) decimal.Decimal {
	if !generic.IsBusinessDay(day, calendar) {
		return decimal.Zero
	}
	startSignal := r.StartHalf && day.Equal(original.Start)
	endSignal := r.EndHalf && day.Equal(original.End)
	legacySignal := r.HalfDay && original.IsSingleDay()
	if startSignal || endSignal || legacySignal {
		return half
	}
	return decimal.NewFromInt(1)
}

func multiDay(r Request, original, clamped generic.Period, calendar generic.HolidayCalendar) decimal.Decimal {
	days := decimal.NewFromInt(int64(clamped.BusinessDays(calendar)))

	applied := false
	if r.StartHalf && clamped.Start.Equal(original.Start) && generic.IsBusinessDay(clamped.Start, calendar) {
		days = days.Sub(half)
		applied = true
	}
	if r.EndHalf && clamped.End.Equal(original.End) && generic.IsBusinessDay(clamped.End, calendar) {
		days = days.Sub(half)
		applied = true
	}
	if !applied && r.HalfDay && original.IsSingleDay() && clamped.Equal(original) {
		days = days.Sub(half)
	}

	if days.IsNegative() {
		return decimal.Zero
	}
	return days
}
