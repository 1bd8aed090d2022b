/*
Package generic provides the domain-agnostic primitives of the leave engine.

PURPOSE:
  Dates, date ranges, holiday calendars and day quantities are shared by the
  leave calculator, the bank-holiday sources, the store and the API. None of
  them know what a leave request is.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity of days held as a decimal
  - RoundToHalf: The only rounding rule used for day counts

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal so 0.5 steps never drift
  2. Total functions: Coercion helpers return ok=false instead of errors

USAGE:
  used := generic.Days(4.5)
  remaining := generic.Days(23).Sub(used).Floor0().RoundToHalf()

SEE ALSO:
  - time.go: TimePoint and date helpers
  - period.go: Period overlap and clamping
  - calendar.go: HolidayCalendar and BankHolidaySet
  - coerce.go: Tolerant conversion of record values
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity of leave days
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitDays Unit = "days"
)

var two = decimal.NewFromInt(2)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

// Days is shorthand for NewAmount(value, UnitDays).
func Days(value float64) Amount { return NewAmount(value, UnitDays) }

// DaysFromDecimal wraps a decimal day count.
func DaysFromDecimal(d decimal.Decimal) Amount { return Amount{Value: d, Unit: UnitDays} }

func ZeroDays() Amount { return Amount{Value: decimal.Zero, Unit: UnitDays} }

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (a Amount) Add(b Amount) Amount       { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount       { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) IsNegative() bool          { return a.Value.IsNegative() }
func (a Amount) IsZero() bool              { return a.Value.IsZero() }
func (a Amount) IsPositive() bool          { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool { return a.Value.GreaterThan(b.Value) }
func (a Amount) Equal(b Amount) bool       { return a.Value.Equal(b.Value) }

// Floor0 clamps negative amounts to zero.
func (a Amount) Floor0() Amount {
	if a.IsNegative() {
		return Amount{Value: decimal.Zero, Unit: a.Unit}
	}
	return a
}

// RoundToHalf rounds to the nearest multiple of 0.5, ties away from zero.
func (a Amount) RoundToHalf() Amount {
	return Amount{Value: RoundToHalf(a.Value), Unit: a.Unit}
}

// Float64 returns the value as a float for JSON and spreadsheet output.
func (a Amount) Float64() float64 {
	f, _ := a.Value.Float64()
	return f
}

func (a Amount) String() string { return a.Value.String() }

// RoundToHalf rounds d to the nearest 0.5 (1.24 -> 1, 1.25 -> 1.5, -1.25 -> -1.5).
func RoundToHalf(d decimal.Decimal) decimal.Decimal {
	return d.Mul(two).Round(0).Div(two)
}
