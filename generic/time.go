package generic

import (
	"time"
	_ "time/tzdata"
)

// =============================================================================
// TIME POINT - A calendar date (leave is booked in whole and half days)
// =============================================================================

// TimePoint is a calendar date. The time-of-day part is always midnight UTC so
// that two TimePoints for the same date compare equal regardless of where the
// underlying instant came from.
type TimePoint struct {
	Time time.Time
}

// DateLayout is the ISO date format used for bank holidays and API payloads.
const DateLayout = "2006-01-02"

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t as observed in loc.
// A nil loc uses t's own location.
func DateOf(t time.Time, loc *time.Location) TimePoint {
	if loc != nil {
		t = t.In(loc)
	}
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

func Today() TimePoint {
	return DateOf(time.Now(), DefaultLocation)
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.Time.After(other.Time) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint   { return TimePoint{Time: tp.Time.AddDate(0, 0, n)} }
func (tp TimePoint) AddMonths(n int) TimePoint { return TimePoint{Time: tp.Time.AddDate(0, n, 0)} }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }
func (tp TimePoint) IsWeekend() bool {
	wd := tp.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (tp TimePoint) String() string {
	if tp.IsZero() {
		return ""
	}
	return tp.Time.Format(DateLayout)
}

// MinTime / MaxTime return the earlier / later of two dates.
func MinTime(a, b TimePoint) TimePoint {
	if b.Before(a) {
		return b
	}
	return a
}

func MaxTime(a, b TimePoint) TimePoint {
	if b.After(a) {
		return b
	}
	return a
}

// =============================================================================
// CALENDAR LOCATION
// =============================================================================

// DefaultLocation is the zone used to turn instants (timestamps, RFC3339
// strings with offsets, epoch milliseconds) into calendar dates. Crew book
// leave against UK dates, so a booking stored as 23:00Z during BST belongs
// to the following day.
var DefaultLocation = mustLoadLocation("Europe/London")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadLocation resolves a zone name, falling back to DefaultLocation for "".
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return DefaultLocation, nil
	}
	return time.LoadLocation(name)
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

func DaysBetween(from, to TimePoint) int { return int(to.Time.Sub(from.Time).Hours() / 24) }
func StartOfYear(year int) TimePoint     { return NewTimePoint(year, time.January, 1) }
func EndOfYear(year int) TimePoint       { return NewTimePoint(year, time.December, 31) }

// NthWeekday returns the n-th occurrence (1-based) of weekday in the month.
func NthWeekday(year int, month time.Month, weekday time.Weekday, n int) TimePoint {
	first := NewTimePoint(year, month, 1)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDays(offset + (n-1)*7)
}

// LastWeekday returns the last occurrence of weekday in the month.
func LastWeekday(year int, month time.Month, weekday time.Weekday) TimePoint {
	last := NewTimePoint(year, month+1, 1).AddDays(-1)
	offset := (int(last.Weekday()) - int(weekday) + 7) % 7
	return last.AddDays(-offset)
}
