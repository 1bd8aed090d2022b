package factory

import (
	"encoding/json"
	"strconv"
)

// Presets build documents in the shapes the record store produces. They are
// used by the demo scenarios and tests; field names deliberately vary across
// presets because real records do too.

// EmployeeJSON returns an employee document with one year of allowance and
// carryover.
func EmployeeJSON(name, code string, year int, allowance, carryover float64) string {
	y := strconv.Itoa(year)
	doc := map[string]interface{}{
		"name":            name,
		"code":            code,
		"allowanceByYear": map[string]interface{}{y: allowance},
		"carryoverByYear": map[string]interface{}{y: carryover},
	}
	return marshal(doc)
}

// FlatEmployeeJSON returns an employee document using the flat allowance
// fields instead of per-year maps.
func FlatEmployeeJSON(name, code string, allowance, carryover float64) string {
	return marshal(map[string]interface{}{
		"employeeName":     name,
		"userCode":         code,
		"holidayAllowance": allowance,
		"carryOver":        carryover,
	})
}

// AnnualLeaveJSON returns a paid annual-leave request.
func AnnualLeaveJSON(id, employee, start, end, status string) string {
	return marshal(map[string]interface{}{
		"id":        id,
		"employee":  employee,
		"startDate": start,
		"endDate":   end,
		"status":    status,
		"leaveType": "Annual Leave",
	})
}

// HalfDayLeaveJSON returns a paid request with explicit half-day boundaries.
func HalfDayLeaveJSON(id, employee, start, end, status string, startHalf, endHalf bool) string {
	return marshal(map[string]interface{}{
		"id":           id,
		"employee":     employee,
		"startDate":    start,
		"endDate":      end,
		"status":       status,
		"startHalfDay": startHalf,
		"endHalfDay":   endHalf,
	})
}

// LegacyHalfDayJSON returns a single-day request flagged with the legacy
// whole-request halfDay marker.
func LegacyHalfDayJSON(id, employee, date, status string) string {
	return marshal(map[string]interface{}{
		"id":       id,
		"employee": employee,
		"date":     date,
		"state":    status,
		"halfDay":  true,
	})
}

// UnpaidLeaveJSON returns an unpaid request.
func UnpaidLeaveJSON(id, employee, start, end, status string) string {
	return marshal(map[string]interface{}{
		"id":        id,
		"employee":  employee,
		"startDate": start,
		"endDate":   end,
		"status":    status,
		"isUnpaid":  true,
	})
}

// SickLeaveJSON returns a sick-leave request, which never counts against
// the allowance.
func SickLeaveJSON(id, employee, start, end, status string) string {
	return marshal(map[string]interface{}{
		"id":        id,
		"employee":  employee,
		"startDate": start,
		"endDate":   end,
		"status":    status,
		"leaveType": "Sick",
	})
}

// TOILJSON returns a time-off-in-lieu request.
func TOILJSON(id, employee, start, end, status string) string {
	return marshal(map[string]interface{}{
		"id":        id,
		"employee":  employee,
		"start":     start,
		"end":       end,
		"status":    status,
		"leaveType": "TOIL",
	})
}

func marshal(doc map[string]interface{}) string {
	b, _ := json.MarshalIndent(doc, "", "  ")
	return string(b)
}
