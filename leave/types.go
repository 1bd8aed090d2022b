/*
Package leave computes holiday allowance figures for the crew dashboard.

PURPOSE:
  Given an employee's per-year allowance and carryover, the employee's leave
  requests, a target year and a bank-holiday calendar, work out how many days
  are allowed, used and remaining, how many requests are still pending, and
  which approved leave comes next.

KEY CONCEPTS:
  - Record: a raw document from the record store (many historical field names)
  - Request / Employee: typed views decoded through the alias tables in fields.go
  - Status: approved / pending / other, case and whitespace insensitive
  - Kind: Paid / Unpaid / Accrued / Other; only approved Paid leave is used
  - Half days: per-boundary flags and AM/PM designators, plus a legacy
    whole-request flag (see halfday.go)

PURITY:
  Every function here is a pure transform of its arguments. Nothing logs,
  nothing returns an error, nothing reads ambient state; malformed input
  degrades to zero, empty or nil.

USAGE:
  reqs := leave.DecodeRequests(docs)
  emp := leave.DecodeEmployee(empDoc)
  mine := leave.MatchRequests(emp, leave.Identity{}, reqs)
  summary := leave.Summarize(leave.SummaryInput{
      Employee: emp, Requests: mine, Year: 2024,
      Today: generic.Today(), Calendar: bankHolidays,
  })

SEE ALSO:
  - calculator.go: AllowanceForYear, UsedDays, NextUpcomingApproved, PendingCount
  - halfday.go: Boundary half-day policy
  - generic/calendar.go: BankHolidaySet
*/
package leave

import (
	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/generic"
)

// Record is a raw document as delivered by the record store.
type Record = generic.Document

// =============================================================================
// STATUS
// =============================================================================

type Status string

const (
	StatusApproved Status = "approved"
	StatusPending  Status = "pending"
	StatusOther    Status = "other"
)

// =============================================================================
// KIND
// =============================================================================

type Kind string

const (
	KindPaid    Kind = "Paid"
	KindUnpaid  Kind = "Unpaid"
	KindAccrued Kind = "Accrued"
	KindOther   Kind = "Other"
)

// =============================================================================
// REQUEST
// =============================================================================

// Request is the typed view of a leave-request record.
type Request struct {
	ID           string
	EmployeeName string
	EmployeeCode string

	// Start is zero when the record has no parseable start date.
	// End defaults to Start.
	Start generic.TimePoint
	End   generic.TimePoint

	Status     Status
	StatusText string // normalized raw status, e.g. "requested"
	Kind       Kind

	StartHalf bool   // start-half flag or start designator present
	EndHalf   bool   // end-half flag or end designator present
	StartAMPM string // "AM", "PM" or ""
	EndAMPM   string
	HalfDay   bool // legacy whole-request flag

	Doc Record
}

// HasStart reports whether the request has a usable start date.
func (r Request) HasStart() bool { return !r.Start.IsZero() }

// Period returns the original requested span.
func (r Request) Period() generic.Period { return generic.NewPeriod(r.Start, r.End) }

func (r Request) IsApproved() bool { return r.Status == StatusApproved }
func (r Request) IsPending() bool  { return r.Status == StatusPending }

// CountsTowardAllowance reports whether the request consumes allowance.
func (r Request) CountsTowardAllowance() bool {
	return r.IsApproved() && r.Kind == KindPaid && r.HasStart()
}

// =============================================================================
// EMPLOYEE
// =============================================================================

// Employee is the typed view of an employee record. Year maps are keyed by
// the four-digit year as a string, matching the stored documents.
type Employee struct {
	ID              string
	Name            string
	Code            string
	AllowanceByYear map[string]decimal.Decimal
	Allowance       decimal.Decimal
	CarryoverByYear map[string]decimal.Decimal
	Carryover       decimal.Decimal
}

// Identity is the name/code pair used to attribute requests to an employee.
type Identity struct {
	Name string
	Code string
}

func (id Identity) IsEmpty() bool {
	return generic.NormalizeText(id.Name) == "" && generic.NormalizeText(id.Code) == ""
}

// Identity returns the employee's name and code; nil yields an empty identity.
func (e *Employee) Identity() Identity {
	if e == nil {
		return Identity{}
	}
	return Identity{Name: e.Name, Code: e.Code}
}
