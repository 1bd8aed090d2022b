package holidays

import (
	"context"
	"time"

	"github.com/warp/leave-engine/generic"
)

// Regions follow the division keys of the GOV.UK bank-holidays feed.
const (
	RegionEnglandAndWales = "england-and-wales"
	RegionScotland        = "scotland"
	RegionNorthernIreland = "northern-ireland"
)

// Regions lists every region with a computed calendar.
var Regions = []string{RegionEnglandAndWales, RegionScotland, RegionNorthernIreland}

// KnownRegion reports whether region has a computed calendar.
func KnownRegion(region string) bool {
	for _, r := range Regions {
		if r == region {
			return true
		}
	}
	return false
}

// Computed derives the statutory UK bank holidays from the calendar rules.
// One-off proclamations (jubilees, coronations, moved May holidays) are not
// derivable; import the GOV.UK feed for those.
type Computed struct{}

var _ Source = Computed{}

func (Computed) Holidays(_ context.Context, region string, year int) ([]generic.Holiday, error) {
	return ComputeUK(region, year)
}

// fixedDay is a holiday on a fixed date that moves to the next free weekday
// when it falls on a weekend or on another holiday's substitute.
type fixedDay struct {
	month time.Month
	day   int
	title string
}

// ComputeUK returns the bank holidays of a UK region for year, sorted by date.
func ComputeUK(region string, year int) ([]generic.Holiday, error) {
	if year < 1 || year > 9999 {
		return nil, generic.ErrInvalidYear
	}

	easter := EasterSunday(year)
	var holidays []generic.Holiday
	add := func(d generic.TimePoint, title string) {
		holidays = append(holidays, generic.Holiday{Region: region, Date: d, Title: title})
	}

	switch region {
	case RegionEnglandAndWales:
		observe(year, []fixedDay{{time.January, 1, "New Year’s Day"}}, add)
		add(easter.AddDays(-2), "Good Friday")
		add(easter.AddDays(1), "Easter Monday")
		add(generic.NthWeekday(year, time.May, time.Monday, 1), "Early May bank holiday")
		add(generic.LastWeekday(year, time.May, time.Monday), "Spring bank holiday")
		add(generic.LastWeekday(year, time.August, time.Monday), "Summer bank holiday")

	case RegionScotland:
		observe(year, []fixedDay{
			{time.January, 1, "New Year’s Day"},
			{time.January, 2, "2nd January"},
		}, add)
		add(easter.AddDays(-2), "Good Friday")
		add(generic.NthWeekday(year, time.May, time.Monday, 1), "Early May bank holiday")
		add(generic.LastWeekday(year, time.May, time.Monday), "Spring bank holiday")
		add(generic.NthWeekday(year, time.August, time.Monday, 1), "Summer bank holiday")
		observe(year, []fixedDay{{time.November, 30, "St Andrew’s Day"}}, add)

	case RegionNorthernIreland:
		observe(year, []fixedDay{{time.January, 1, "New Year’s Day"}}, add)
		observe(year, []fixedDay{{time.March, 17, "St Patrick’s Day"}}, add)
		add(easter.AddDays(-2), "Good Friday")
		add(easter.AddDays(1), "Easter Monday")
		add(generic.NthWeekday(year, time.May, time.Monday, 1), "Early May bank holiday")
		add(generic.LastWeekday(year, time.May, time.Monday), "Spring bank holiday")
		observe(year, []fixedDay{{time.July, 12, "Battle of the Boyne (Orangemen’s Day)"}}, add)
		add(generic.LastWeekday(year, time.August, time.Monday), "Summer bank holiday")

	default:
		return nil, generic.ErrRegionUnknown
	}

	observe(year, []fixedDay{
		{time.December, 25, "Christmas Day"},
		{time.December, 26, "Boxing Day"},
	}, add)

	sortHolidays(holidays)
	return holidays, nil
}

// observe places each fixed day on its date, or on the next weekday not
// already used by an earlier day of the same group.
func observe(year int, days []fixedDay, add func(generic.TimePoint, string)) {
	taken := make(map[string]bool, len(days))
	for _, fd := range days {
		actual := generic.NewTimePoint(year, fd.month, fd.day)
		d := actual
		for d.IsWeekend() || taken[d.String()] {
			d = d.AddDays(1)
		}
		taken[d.String()] = true
		title := fd.title
		if !d.Equal(actual) {
			title += " (substitute day)"
		}
		add(d, title)
	}
}

// EasterSunday computes Easter Sunday using the Meeus/Jones/Butcher algorithm.
func EasterSunday(year int) generic.TimePoint {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1
	return generic.NewTimePoint(year, time.Month(month), day)
}
