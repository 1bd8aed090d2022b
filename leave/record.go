package leave

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/generic"
)

// =============================================================================
// DECODER - Record -> Request / Employee
// =============================================================================

// Decoder turns raw records into typed views. Location is the zone used to
// read instants (timestamps, epoch millis) as calendar dates; nil means
// generic.DefaultLocation.
type Decoder struct {
	Location *time.Location
}

var defaultDecoder = Decoder{}

// DecodeRequest decodes a leave-request record with the default decoder.
func DecodeRequest(doc Record) Request { return defaultDecoder.Request(doc) }

// DecodeRequests decodes a batch of records.
func DecodeRequests(docs []Record) []Request { return defaultDecoder.Requests(docs) }

// DecodeEmployee decodes an employee record. A nil record yields nil.
func DecodeEmployee(doc Record) *Employee { return defaultDecoder.Employee(doc) }

func (d Decoder) Requests(docs []Record) []Request {
	out := make([]Request, 0, len(docs))
	for _, doc := range docs {
		out = append(out, d.Request(doc))
	}
	return out
}

func (d Decoder) Request(doc Record) Request {
	r := Request{
		ID:           fieldID.text(doc),
		EmployeeName: fieldEmployeeName.text(doc),
		EmployeeCode: fieldEmployeeCode.text(doc),
		StatusText:   generic.NormalizeText(fieldStatus.text(doc)),
		Kind:         resolveKind(doc),
		StartAMPM:    designator(fieldStartAMPM.text(doc)),
		EndAMPM:      designator(fieldEndAMPM.text(doc)),
		HalfDay:      fieldHalfDay.flag(doc),
		Doc:          doc,
	}
	r.Status = NormalizeStatus(r.StatusText)
	r.StartHalf = fieldStartHalf.flag(doc) || r.StartAMPM != ""
	r.EndHalf = fieldEndHalf.flag(doc) || r.EndAMPM != ""

	if v, ok := fieldStart.lookup(doc); ok {
		r.Start, _ = generic.ParseDate(v, d.Location)
	}
	var end generic.TimePoint
	if v, ok := fieldEnd.lookup(doc); ok {
		end, _ = generic.ParseDate(v, d.Location)
	}
	switch {
	case !r.HasStart():
		// Kept for upcoming-leave ordering; never counted.
		r.End = end
	case end.IsZero() || end.Before(r.Start):
		r.End = r.Start
	default:
		r.End = end
	}
	return r
}

func (d Decoder) Employee(doc Record) *Employee {
	if doc == nil {
		return nil
	}
	return &Employee{
		ID:              fieldID.text(doc),
		Name:            fieldEmployeeName.text(doc),
		Code:            fieldEmployeeCode.text(doc),
		AllowanceByYear: yearMap(fieldAllowanceByYear, doc),
		Allowance:       number(fieldAllowance, doc),
		CarryoverByYear: yearMap(fieldCarryoverByYear, doc),
		Carryover:       number(fieldCarryover, doc),
	}
}

// =============================================================================
// STATUS / KIND NORMALIZATION
// =============================================================================

// NormalizeStatus maps free-text status to approved / pending / other.
func NormalizeStatus(raw string) Status {
	switch generic.NormalizeText(raw) {
	case "approved", "approve", "accepted", "confirmed":
		return StatusApproved
	case "pending", "requested", "submitted", "awaiting approval":
		return StatusPending
	default:
		return StatusOther
	}
}

// resolveKind classifies a request. Explicit flags win over text hints.
// Among hints a contradicting kind beats Paid: Unpaid, then Accrued, then
// Other. No signal at all means Paid.
func resolveKind(doc Record) Kind {
	if fieldUnpaidFlag.flag(doc) {
		return KindUnpaid
	}
	if fieldAccruedFlag.flag(doc) {
		return KindAccrued
	}
	if paid, ok := fieldPaidFlag.explicitBool(doc); ok {
		if paid {
			return KindPaid
		}
		return KindUnpaid
	}
	best := KindPaid
	for _, hint := range fieldKindHints.hints(doc) {
		if k, ok := kindFromHint(hint); ok && kindRank[k] > kindRank[best] {
			best = k
		}
	}
	return best
}

var kindRank = map[Kind]int{
	KindPaid:    0,
	KindOther:   1,
	KindAccrued: 2,
	KindUnpaid:  3,
}

var otherLeaveHints = []string{
	"sick", "compassionate", "bereavement", "maternity", "paternity", "jury", "training",
}

func kindFromHint(hint string) (Kind, bool) {
	switch {
	case strings.Contains(hint, "unpaid"):
		return KindUnpaid, true
	case strings.Contains(hint, "accrued"), strings.Contains(hint, "toil"), strings.Contains(hint, "lieu"):
		return KindAccrued, true
	}
	for _, h := range otherLeaveHints {
		if strings.Contains(hint, h) {
			return KindOther, true
		}
	}
	switch {
	case strings.Contains(hint, "paid"), strings.Contains(hint, "annual"), strings.Contains(hint, "holiday"):
		return KindPaid, true
	}
	return "", false
}

// designator normalizes an AM/PM marker; anything unrecognized is "".
func designator(raw string) string {
	switch strings.ReplaceAll(generic.NormalizeText(raw), ".", "") {
	case "am", "morning":
		return "AM"
	case "pm", "afternoon":
		return "PM"
	}
	return ""
}

// SetStatus writes status into doc under the first status alias already in
// use (or "status"), removing the other aliases so the record reads back
// unambiguously.
func SetStatus(doc Record, status string) {
	target := fieldStatus[0]
	for _, name := range fieldStatus {
		if _, ok := doc[name]; ok {
			target = name
			break
		}
	}
	for _, name := range fieldStatus {
		if name != target {
			delete(doc, name)
		}
	}
	doc[target] = status
}

// =============================================================================
// NUMBERS
// =============================================================================

func number(f fieldAliases, doc Record) decimal.Decimal {
	v, _ := f.lookup(doc)
	return generic.ToDecimal(v)
}

// yearMap reads a year -> days mapping. Non-numeric entries resolve to zero.
func yearMap(f fieldAliases, doc Record) map[string]decimal.Decimal {
	v, ok := f.lookup(doc)
	if !ok {
		return nil
	}
	out := make(map[string]decimal.Decimal)
	switch m := v.(type) {
	case map[string]any:
		for k, x := range m {
			out[strings.TrimSpace(k)] = generic.ToDecimal(x)
		}
	case generic.Document:
		for k, x := range m {
			out[strings.TrimSpace(k)] = generic.ToDecimal(x)
		}
	case map[string]float64:
		for k, x := range m {
			out[strings.TrimSpace(k)] = decimal.NewFromFloat(x)
		}
	case map[string]int:
		for k, x := range m {
			out[strings.TrimSpace(k)] = decimal.NewFromInt(int64(x))
		}
	default:
		return nil
	}
	return out
}
