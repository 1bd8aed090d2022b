package generic

// =============================================================================
// PERIOD - Closed date range [Start, End]
// =============================================================================

// Period is an inclusive range of calendar dates.
type Period struct {
	Start TimePoint
	End   TimePoint
}

// CalendarYear returns [Jan 1, Dec 31] of year.
func CalendarYear(year int) Period {
	return Period{Start: StartOfYear(year), End: EndOfYear(year)}
}

// NewPeriod builds a period, treating a zero end as a single-day period and
// an end before start as ending on start.
func NewPeriod(start, end TimePoint) Period {
	if end.IsZero() || end.Before(start) {
		end = start
	}
	return Period{Start: start, End: end}
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Overlaps reports whether the two periods share at least one date.
func (p Period) Overlaps(other Period) bool {
	return p.Start.BeforeOrEqual(other.End) && other.Start.BeforeOrEqual(p.End)
}

// Clamp returns the part of p that lies within bounds. The result is only
// meaningful when p.Overlaps(bounds).
func (p Period) Clamp(bounds Period) Period {
	return Period{
		Start: MaxTime(p.Start, bounds.Start),
		End:   MinTime(p.End, bounds.End),
	}
}

// IsSingleDay reports whether the period covers exactly one date.
func (p Period) IsSingleDay() bool { return p.Start.Equal(p.End) }

// Equal reports whether both boundaries match.
func (p Period) Equal(other Period) bool {
	return p.Start.Equal(other.Start) && p.End.Equal(other.End)
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// BusinessDays counts the weekdays in the period that are not holidays.
func (p Period) BusinessDays(calendar HolidayCalendar) int {
	n := 0
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		if IsBusinessDay(current, calendar) {
			n++
		}
	}
	return n
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
