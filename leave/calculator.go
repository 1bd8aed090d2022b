package leave

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/generic"
)

// =============================================================================
// ALLOWANCE
// =============================================================================

// YearAllowance is an employee's base allowance and carryover for one year,
// unrounded and not yet summed.
type YearAllowance struct {
	Allowance generic.Amount
	Carryover generic.Amount
}

// Total returns allowance + carryover.
func (a YearAllowance) Total() generic.Amount { return a.Allowance.Add(a.Carryover) }

// AllowanceForYear looks up the year-keyed allowance and carryover, falling
// back to the employee's non-year-keyed figures when the year entry is
// absent or zero. A nil employee yields zeros.
func AllowanceForYear(emp *Employee, year int) YearAllowance {
	if emp == nil {
		return YearAllowance{Allowance: generic.ZeroDays(), Carryover: generic.ZeroDays()}
	}
	key := strconv.Itoa(year)
	return YearAllowance{
		Allowance: generic.DaysFromDecimal(byYear(emp.AllowanceByYear, key, emp.Allowance)),
		Carryover: generic.DaysFromDecimal(byYear(emp.CarryoverByYear, key, emp.Carryover)),
	}
}

func byYear(m map[string]decimal.Decimal, key string, fallback decimal.Decimal) decimal.Decimal {
	if v, ok := m[key]; ok && !v.IsZero() {
		return v
	}
	return fallback
}

// =============================================================================
// USED DAYS
// =============================================================================

// Consumption is one request's contribution to a year's used days.
type Consumption struct {
	Request Request
	Period  generic.Period // the request clamped to the year
	Days    generic.Amount // unrounded
}

// Breakdown returns the contribution of every request that counts toward the
// year: approved, Paid, with a valid start date, overlapping the calendar
// year. Requests contributing zero days (e.g. a single bank holiday) are
// included with Days == 0.
func Breakdown(requests []Request, year int, calendar generic.HolidayCalendar) []Consumption {
	bounds := generic.CalendarYear(year)
	var out []Consumption
	for _, r := range requests {
		if !r.CountsTowardAllowance() {
			continue
		}
		original := r.Period()
		if !original.Overlaps(bounds) {
			continue
		}
		clamped := original.Clamp(bounds)
		out = append(out, Consumption{
			Request: r,
			Period:  clamped,
			Days:    generic.DaysFromDecimal(countDays(r, original, clamped, calendar)),
		})
	}
	return out
}

// UsedDays returns the business days of approved Paid leave taken in year,
// rounded to the nearest half day. A nil calendar excludes weekends only.
func UsedDays(requests []Request, year int, calendar generic.HolidayCalendar) generic.Amount {
	total := generic.ZeroDays()
	for _, c := range Breakdown(requests, year, calendar) {
		total = total.Add(c.Days)
	}
	return total.RoundToHalf()
}

// Remaining returns max(0, total - used), rounded to the nearest half day.
func Remaining(total, used generic.Amount) generic.Amount {
	return total.Sub(used).Floor0().RoundToHalf()
}

// =============================================================================
// UPCOMING / PENDING
// =============================================================================

// NextUpcomingApproved returns the approved request with the earliest start
// among those ending on or after today, or nil. Requests without a start date
// sort last; ties keep input order.
func NextUpcomingApproved(requests []Request, today generic.TimePoint) *Request {
	var candidates []Request
	for _, r := range requests {
		if !r.IsApproved() {
			continue
		}
		last := r.End
		if last.IsZero() {
			last = r.Start
		}
		if last.IsZero() || last.Before(today) {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !a.HasStart() || !b.HasStart() {
			return a.HasStart() && !b.HasStart()
		}
		return a.Start.Before(b.Start)
	})
	next := candidates[0]
	return &next
}

// PendingCount counts requests whose status is pending or requested.
func PendingCount(requests []Request) int {
	n := 0
	for _, r := range requests {
		if r.IsPending() {
			n++
		}
	}
	return n
}
