package leave

import "github.com/warp/leave-engine/generic"

// =============================================================================
// FIELD ALIASES - Part of the data contract with the record store
// =============================================================================
//
// Documents written by older app versions use different field names for the
// same logical value. Each logical field lists its accepted names in priority
// order; lookup returns the first one that is present and non-empty.

type fieldAliases []string

var (
	fieldID           = fieldAliases{"id", "requestId", "docId"}
	fieldEmployeeName = fieldAliases{"employee", "employeeName", "name"}
	fieldEmployeeCode = fieldAliases{"employeeCode", "code", "userCode"}

	fieldStart  = fieldAliases{"startDate", "start", "date", "from"}
	fieldEnd    = fieldAliases{"endDate", "end", "to"}
	fieldStatus = fieldAliases{"status", "approvalStatus", "state"}

	// Kind signals: explicit flags first, then free-text hints.
	fieldUnpaidFlag  = fieldAliases{"isUnpaid", "unpaid"}
	fieldAccruedFlag = fieldAliases{"isAccrued", "accrued"}
	fieldPaidFlag    = fieldAliases{"paid", "isPaid"}
	fieldKindHints   = fieldAliases{"leaveType", "paidStatus", "type", "holidayType"}

	fieldStartHalf = fieldAliases{"startHalfDay", "startHalf", "halfDayStart"}
	fieldEndHalf   = fieldAliases{"endHalfDay", "endHalf", "halfDayEnd"}
	fieldStartAMPM = fieldAliases{"startAMPM", "startAmPm", "startHalfDayPeriod"}
	fieldEndAMPM   = fieldAliases{"endAMPM", "endAmPm", "endHalfDayPeriod"}
	fieldHalfDay   = fieldAliases{"halfDay", "isHalfDay"}

	fieldAllowanceByYear = fieldAliases{"allowanceByYear", "holidayAllowanceByYear"}
	fieldAllowance       = fieldAliases{"allowance", "holidayAllowance"}
	fieldCarryoverByYear = fieldAliases{"carryoverByYear", "carryOverByYear"}
	fieldCarryover       = fieldAliases{"carryover", "carryOver"}
)

// lookup returns the first present, non-empty value.
func (f fieldAliases) lookup(doc Record) (any, bool) {
	for _, name := range f {
		v, ok := doc[name]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && generic.NormalizeText(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

func (f fieldAliases) text(doc Record) string {
	v, _ := f.lookup(doc)
	return generic.ToString(v)
}

// flag returns the first truthy alias; absent or falsy everywhere is false.
func (f fieldAliases) flag(doc Record) bool {
	for _, name := range f {
		if generic.Truthy(doc[name]) {
			return true
		}
	}
	return false
}

// explicitBool returns the first alias holding a real boolean (or a
// recognizable yes/no string).
func (f fieldAliases) explicitBool(doc Record) (value, ok bool) {
	for _, name := range f {
		switch v := doc[name].(type) {
		case bool:
			return v, true
		case string:
			switch generic.NormalizeText(v) {
			case "true", "yes", "y", "1":
				return true, true
			case "false", "no", "n", "0":
				return false, true
			}
		}
	}
	return false, false
}

// hints returns every non-empty text value, in alias order.
func (f fieldAliases) hints(doc Record) []string {
	var out []string
	for _, name := range f {
		if s := generic.NormalizeText(generic.ToString(doc[name])); s != "" {
			out = append(out, s)
		}
	}
	return out
}
