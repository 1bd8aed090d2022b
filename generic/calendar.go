package generic

import (
	"sort"
	"strings"
	"time"
)

// =============================================================================
// HOLIDAY CALENDAR - Public holidays that never count against leave
// =============================================================================

// HolidayCalendar answers whether a date is a public holiday.
type HolidayCalendar interface {
	IsHoliday(date TimePoint) bool
}

// BankHolidaySet is a membership set of ISO dates (YYYY-MM-DD).
// The zero value (and a nil set) contains no holidays.
type BankHolidaySet map[string]struct{}

var _ HolidayCalendar = BankHolidaySet(nil)

// NewBankHolidaySet builds a set from ISO date strings. Entries that are not
// valid dates are ignored; surrounding whitespace and a trailing time part
// ("2024-12-25T00:00:00Z") are tolerated.
func NewBankHolidaySet(dates ...string) BankHolidaySet {
	set := make(BankHolidaySet, len(dates))
	for _, d := range dates {
		set.AddString(d)
	}
	return set
}

// Add inserts a date.
func (s BankHolidaySet) Add(date TimePoint) {
	if s == nil || date.IsZero() {
		return
	}
	s[date.String()] = struct{}{}
}

// AddString inserts an ISO date string and reports whether it was valid.
func (s BankHolidaySet) AddString(iso string) bool {
	iso = strings.TrimSpace(iso)
	if len(iso) > len(DateLayout) {
		iso = iso[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, iso)
	if err != nil {
		return false
	}
	s.Add(DateOf(t, nil))
	return true
}

// IsHoliday implements HolidayCalendar.
func (s BankHolidaySet) IsHoliday(date TimePoint) bool {
	if s == nil {
		return false
	}
	_, ok := s[date.String()]
	return ok
}

// ForYear returns the subset of dates that fall in year.
func (s BankHolidaySet) ForYear(year int) BankHolidaySet {
	out := make(BankHolidaySet)
	prefix := NewTimePoint(year, time.January, 1).Time.Format("2006") + "-"
	for d := range s {
		if strings.HasPrefix(d, prefix) {
			out[d] = struct{}{}
		}
	}
	return out
}

// Dates returns the members in ascending order.
func (s BankHolidaySet) Dates() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// IsBusinessDay reports whether date is a weekday that is not a holiday.
// A nil calendar excludes weekends only.
func IsBusinessDay(date TimePoint, calendar HolidayCalendar) bool {
	if date.IsWeekend() {
		return false
	}
	if calendar != nil && calendar.IsHoliday(date) {
		return false
	}
	return true
}
