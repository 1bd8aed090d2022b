package leave

import "github.com/warp/leave-engine/generic"

// SummaryInput is everything the dashboard needs for one employee and year.
// Requests must already be filtered to the employee (see MatchRequests).
type SummaryInput struct {
	Employee *Employee
	Requests []Request
	Year     int
	Today    generic.TimePoint
	Calendar generic.HolidayCalendar
}

// Summary holds the dashboard figures. Day counts are rounded to half days.
type Summary struct {
	Year         int
	Allowance    generic.Amount
	Carryover    generic.Amount
	Total        generic.Amount
	Used         generic.Amount
	Remaining    generic.Amount
	PendingCount int
	Next         *Request
	Breakdown    []Consumption
}

// Summarize computes the dashboard figures. It never fails: missing data
// yields zero allowance, zero used and zero remaining.
func Summarize(in SummaryInput) Summary {
	allowance := AllowanceForYear(in.Employee, in.Year)
	total := allowance.Total().RoundToHalf()
	used := UsedDays(in.Requests, in.Year, in.Calendar)

	return Summary{
		Year:         in.Year,
		Allowance:    allowance.Allowance.RoundToHalf(),
		Carryover:    allowance.Carryover.RoundToHalf(),
		Total:        total,
		Used:         used,
		Remaining:    Remaining(total, used),
		PendingCount: PendingCount(in.Requests),
		Next:         NextUpcomingApproved(in.Requests, in.Today),
		Breakdown:    Breakdown(in.Requests, in.Year, in.Calendar),
	}
}
