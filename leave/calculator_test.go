package leave_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) generic.TimePoint {
	return generic.NewTimePoint(year, month, day)
}

func days(n float64) generic.Amount {
	return generic.Days(n)
}

func assertDays(t *testing.T, expected float64, got generic.Amount, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, got.Value.Equal(decimal.NewFromFloat(expected)),
		append([]any{"expected %v days, got %v", expected, got.Value}, msgAndArgs...)...)
}

// approved builds an approved Paid request document.
func approved(start, end string) leave.Record {
	return leave.Record{
		"employee":  "Sam Carter",
		"startDate": start,
		"endDate":   end,
		"status":    "Approved",
	}
}

func decode(docs ...leave.Record) []leave.Request {
	return leave.DecodeRequests(docs)
}

func with(doc leave.Record, kv ...any) leave.Record {
	for i := 0; i+1 < len(kv); i += 2 {
		doc[kv[i].(string)] = kv[i+1]
	}
	return doc
}

// =============================================================================
// ALLOWANCE
// =============================================================================

func TestAllowanceForYear_YearKeyed(t *testing.T) {
	emp := leave.DecodeEmployee(leave.Record{
		"name":            "Sam Carter",
		"allowanceByYear": map[string]any{"2024": 20.0},
		"carryoverByYear": map[string]any{"2024": 3.0},
		"allowance":       25.0,
		"carryover":       1.0,
	})

	a := leave.AllowanceForYear(emp, 2024)
	assertDays(t, 20, a.Allowance)
	assertDays(t, 3, a.Carryover)
	assertDays(t, 23, a.Total())
}

func TestAllowanceForYear_FallsBackWhenYearMissingOrZero(t *testing.T) {
	// GIVEN: 2025 is keyed as zero, 2026 is absent
	// THEN: both use the flat allowance/carryover fields
	emp := leave.DecodeEmployee(leave.Record{
		"allowanceByYear": map[string]any{"2025": 0.0},
		"allowance":       "28",
		"carryOver":       2,
	})

	for _, year := range []int{2025, 2026} {
		a := leave.AllowanceForYear(emp, year)
		assertDays(t, 28, a.Allowance, "year %d", year)
		assertDays(t, 2, a.Carryover, "year %d", year)
	}
}

func TestAllowanceForYear_MissingDataIsZero(t *testing.T) {
	assertDays(t, 0, leave.AllowanceForYear(nil, 2024).Total())

	emp := leave.DecodeEmployee(leave.Record{
		"allowanceByYear": map[string]any{"2024": "lots"},
		"allowance":       true,
	})
	assertDays(t, 0, leave.AllowanceForYear(emp, 2024).Total())
}

// =============================================================================
// USED DAYS - WHOLE DAYS
// =============================================================================

func TestUsedDays_FullWeek(t *testing.T) {
	// Mon 10 Jun - Fri 14 Jun 2024
	reqs := decode(approved("2024-06-10", "2024-06-14"))
	assertDays(t, 5, leave.UsedDays(reqs, 2024, nil))
}

func TestUsedDays_SkipsWeekendsAndBankHolidays(t *testing.T) {
	// Fri 24 May - Fri 31 May 2024; Mon 27 May is the Spring bank holiday
	reqs := decode(approved("2024-05-24", "2024-05-31"))
	holidays := generic.NewBankHolidaySet("2024-05-27")

	assertDays(t, 6, leave.UsedDays(reqs, 2024, nil))
	assertDays(t, 5, leave.UsedDays(reqs, 2024, holidays))
}

func TestUsedDays_SingleSaturdayIsZero(t *testing.T) {
	reqs := decode(approved("2024-06-15", ""))
	assertDays(t, 0, leave.UsedDays(reqs, 2024, nil))
}

func TestUsedDays_SingleBankHolidayIsZero(t *testing.T) {
	reqs := decode(with(approved("2024-12-25", "2024-12-25"), "startHalfDay", true))
	assertDays(t, 0, leave.UsedDays(reqs, 2024, generic.NewBankHolidaySet("2024-12-25")))
}

func TestUsedDays_OnlyApprovedPaidCounts(t *testing.T) {
	reqs := decode(
		approved("2024-06-10", "2024-06-10"),
		with(approved("2024-06-11", "2024-06-11"), "status", "Pending"),
		with(approved("2024-06-12", "2024-06-12"), "status", "rejected"),
		with(approved("2024-06-13", "2024-06-13"), "isUnpaid", true),
		with(approved("2024-06-14", "2024-06-14"), "leaveType", "Sick"),
		with(approved("2024-06-17", "2024-06-17"), "isAccrued", "yes"),
		with(approved("2024-06-18", "2024-06-18"), "status", "  APPROVED "),
	)
	assertDays(t, 2, leave.UsedDays(reqs, 2024, nil))
}

func TestUsedDays_UnparsableDatesAreSkipped(t *testing.T) {
	reqs := decode(
		approved("not a date", "2024-06-14"),
		with(approved("", ""), "startDate", nil),
		approved("2024-06-10", "garbage"), // end falls back to start
	)
	assertDays(t, 1, leave.UsedDays(reqs, 2024, nil))
}

func TestUsedDays_OtherYearsIgnored(t *testing.T) {
	reqs := decode(approved("2023-03-06", "2023-03-10"), approved("2025-03-03", "2025-03-07"))
	assertDays(t, 0, leave.UsedDays(reqs, 2024, nil))
}

func TestUsedDays_Idempotent(t *testing.T) {
	reqs := decode(
		approved("2023-12-29", "2024-01-02"),
		with(approved("2024-06-10", "2024-06-12"), "endAMPM", "AM"),
	)
	holidays := generic.NewBankHolidaySet("2024-01-01")

	first := leave.UsedDays(reqs, 2024, holidays)
	second := leave.UsedDays(reqs, 2024, holidays)
	assert.True(t, first.Equal(second))
}

// =============================================================================
// USED DAYS - HALF DAYS
// =============================================================================

func TestUsedDays_SingleDayHalfSignals(t *testing.T) {
	tests := []struct {
		name string
		doc  leave.Record
		want float64
	}{
		{"start half flag", with(approved("2024-06-10", ""), "startHalfDay", true), 0.5},
		{"end half flag", with(approved("2024-06-10", "2024-06-10"), "endHalfDay", true), 0.5},
		{"AM designator", with(approved("2024-06-10", ""), "startAMPM", "am"), 0.5},
		{"PM designator", with(approved("2024-06-10", ""), "endAMPM", "P.M."), 0.5},
		{"legacy flag", with(approved("2024-06-10", ""), "halfDay", true), 0.5},
		{"legacy alias", with(approved("2024-06-10", ""), "isHalfDay", "true"), 0.5},
		{"unknown designator", with(approved("2024-06-10", ""), "startAMPM", "lunch"), 1},
		{"no signal", approved("2024-06-10", ""), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDays(t, tt.want, leave.UsedDays(decode(tt.doc), 2024, nil))
		})
	}
}

func TestUsedDays_MultiDayBoundaryHalves(t *testing.T) {
	tests := []struct {
		name string
		doc  leave.Record
		want float64
	}{
		{"start half", with(approved("2024-06-10", "2024-06-14"), "startHalfDay", true), 4.5},
		{"end half", with(approved("2024-06-10", "2024-06-14"), "endHalfDay", true), 4.5},
		{"both halves", with(approved("2024-06-10", "2024-06-14"), "startHalfDay", true, "endAMPM", "AM"), 4},
		// Sat 15 Jun is not a business day, so its half flag changes nothing
		{"end half on weekend", with(approved("2024-06-10", "2024-06-15"), "endHalfDay", true), 5},
		// legacy flag only applies to single-day originals
		{"legacy flag on multi-day", with(approved("2024-06-10", "2024-06-14"), "halfDay", true), 5},
		{"two day both halves", with(approved("2024-06-10", "2024-06-11"), "startHalfDay", true, "endHalfDay", true), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDays(t, tt.want, leave.UsedDays(decode(tt.doc), 2024, nil))
		})
	}
}

func TestUsedDays_ScenarioB_YearBoundaryEndHalf(t *testing.T) {
	// GIVEN: Fri 29 Dec 2023 - Tue 2 Jan 2024, end half on 2 Jan
	doc := with(approved("2023-12-29", "2024-01-02"), "endHalfDay", true)
	reqs := decode(doc)

	// WHEN: 1 Jan is a bank holiday
	// THEN: 2024 = Jan 1 (0) + Jan 2 half (0.5)
	withHoliday := generic.NewBankHolidaySet("2024-01-01")
	assertDays(t, 0.5, leave.UsedDays(reqs, 2024, withHoliday))

	// WHEN: no bank holidays
	// THEN: 2024 = Jan 1 (1) + Jan 2 half (0.5)
	assertDays(t, 1.5, leave.UsedDays(reqs, 2024, nil))

	// 2023 side is clamped to Dec 29-31: only Fri 29 is a business day, and
	// Dec 31 is not the original end so the end half never applies there
	assertDays(t, 1, leave.UsedDays(reqs, 2023, nil))
}

func TestUsedDays_StartHalfStaysInOriginalYear(t *testing.T) {
	// GIVEN: Fri 29 Dec 2023 (afternoon off) - Tue 2 Jan 2024
	reqs := decode(with(approved("2023-12-29", "2024-01-02"), "startAMPM", "PM"))
	holidays := generic.NewBankHolidaySet("2024-01-01")

	assertDays(t, 0.5, leave.UsedDays(reqs, 2023, holidays))
	// clamped start is Jan 1, not the original start
	assertDays(t, 1, leave.UsedDays(reqs, 2024, holidays))
}

func TestUsedDays_ClampedToSingleDay(t *testing.T) {
	// GIVEN: Tue 31 Dec 2024 - Fri 3 Jan 2025
	base := approved("2024-12-31", "2025-01-03")

	// Clamped to the single day 31 Dec, which is the original start
	assertDays(t, 0.5, leave.UsedDays(decode(with(base, "startHalfDay", true)), 2024, nil))

	// End half belongs to 3 Jan, not 31 Dec
	assertDays(t, 1, leave.UsedDays(decode(with(approved("2024-12-31", "2025-01-03"), "endHalfDay", true)), 2024, nil))

	// Legacy flag: original was not single-day
	assertDays(t, 1, leave.UsedDays(decode(with(approved("2024-12-31", "2025-01-03"), "halfDay", true)), 2024, nil))
}

func TestUsedDays_SumRoundedToHalf(t *testing.T) {
	reqs := decode(
		with(approved("2024-06-10", ""), "halfDay", true),
		with(approved("2024-06-11", ""), "halfDay", true),
		with(approved("2024-06-12", ""), "startAMPM", "AM"),
	)
	assertDays(t, 1.5, leave.UsedDays(reqs, 2024, nil))
}

// =============================================================================
// BREAKDOWN
// =============================================================================

func TestBreakdown_ReportsClampedPeriods(t *testing.T) {
	docs := []leave.Record{
		with(approved("2023-12-29", "2024-01-02"), "id", "req-1"),
		with(approved("2024-06-15", ""), "id", "req-2"),
		with(approved("2024-06-10", ""), "id", "req-3", "status", "pending"),
	}
	breakdown := leave.Breakdown(decode(docs...), 2024, nil)

	require.Len(t, breakdown, 2)
	assert.Equal(t, "req-1", breakdown[0].Request.ID)
	assert.Equal(t, "[2024-01-01, 2024-01-02]", breakdown[0].Period.String())
	assertDays(t, 2, breakdown[0].Days)
	assert.Equal(t, "req-2", breakdown[1].Request.ID)
	assertDays(t, 0, breakdown[1].Days)
}

// =============================================================================
// REMAINING
// =============================================================================

func TestRemaining_NeverNegative(t *testing.T) {
	tests := []struct {
		total, used, want float64
	}{
		{23, 5, 18},
		{20, 20, 0},
		{10, 12.5, 0},
		{0, 3, 0},
		{20.5, 0.5, 20},
		{7.25, 1, 6.5},
	}
	for _, tt := range tests {
		assertDays(t, tt.want, leave.Remaining(days(tt.total), days(tt.used)),
			"total %v used %v", tt.total, tt.used)
	}
}

// =============================================================================
// UPCOMING / PENDING
// =============================================================================

func TestNextUpcomingApproved_ScenarioE(t *testing.T) {
	reqs := decode(
		with(approved("2024-07-01", "2024-07-05"), "id", "july"),
		with(approved("2024-06-20", "2024-06-21"), "id", "june"),
	)
	next := leave.NextUpcomingApproved(reqs, date(2024, time.June, 1))
	require.NotNil(t, next)
	assert.Equal(t, "june", next.ID)
}

func TestNextUpcomingApproved_Filters(t *testing.T) {
	reqs := decode(
		with(approved("2024-05-01", "2024-05-03"), "id", "past"),
		with(approved("2024-05-30", "2024-06-03"), "id", "ongoing"),
		with(approved("2024-06-02", ""), "id", "pending", "status", "pending"),
		with(approved("2024-06-10", ""), "id", "unpaid", "paid", false),
	)
	next := leave.NextUpcomingApproved(reqs, date(2024, time.June, 1))
	require.NotNil(t, next)
	// ongoing leave ends after today; unpaid approved leave is still leave
	assert.Equal(t, "ongoing", next.ID)

	assert.Nil(t, leave.NextUpcomingApproved(reqs, date(2024, time.July, 1)))
	assert.Nil(t, leave.NextUpcomingApproved(nil, date(2024, time.July, 1)))
}

func TestNextUpcomingApproved_MissingStartSortsLast(t *testing.T) {
	reqs := decode(
		with(leave.Record{"status": "approved", "endDate": "2024-06-05"}, "id", "no-start"),
		with(approved("2024-08-01", ""), "id", "august"),
	)
	next := leave.NextUpcomingApproved(reqs, date(2024, time.June, 1))
	require.NotNil(t, next)
	assert.Equal(t, "august", next.ID)
}

func TestPendingCount_ScenarioC(t *testing.T) {
	reqs := decode(
		with(approved("2024-06-10", ""), "status", "Pending"),
		with(approved("2024-06-11", ""), "status", " requested"),
		with(approved("2024-06-12", ""), "status", "Approved"),
		with(approved("2024-06-13", ""), "status", "declined"),
	)
	assert.Equal(t, 2, leave.PendingCount(reqs))
	assertDays(t, 1, leave.UsedDays(reqs, 2024, nil))
}
