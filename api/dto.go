/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Employee and request
  bodies are raw documents (see factory/documents.go); the DTOs here are the
  typed views the API returns.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Employee:  EmployeeDTO
  Request:   RequestDTO
  Summary:   SummaryDTO, ConsumptionDTO
  Holidays:  HolidayDTO, CreateHolidayRequest, DefaultHolidaysRequest
  Scenarios: ScenarioDTO

SEE ALSO:
  - handlers.go: Uses these types
  - leave/summary.go: Summary computed for SummaryDTO
*/
package api

import (
	"time"

	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Code      string           `json:"code,omitempty"`
	Data      generic.Document `json:"data"`
	CreatedAt string           `json:"created_at,omitempty"`
	UpdatedAt string           `json:"updated_at,omitempty"`
}

// RequestDTO is the decoded view of a leave request.
type RequestDTO struct {
	ID           string           `json:"id"`
	Employee     string           `json:"employee"`
	EmployeeCode string           `json:"employee_code,omitempty"`
	Start        string           `json:"start,omitempty"`
	End          string           `json:"end,omitempty"`
	Status       string           `json:"status"`
	StatusText   string           `json:"status_text,omitempty"`
	Kind         string           `json:"kind"`
	StartHalf    bool             `json:"start_half"`
	EndHalf      bool             `json:"end_half"`
	StartAMPM    string           `json:"start_ampm,omitempty"`
	EndAMPM      string           `json:"end_ampm,omitempty"`
	HalfDay      bool             `json:"half_day"`
	Data         generic.Document `json:"data,omitempty"`
}

// ConsumptionDTO is one request's contribution to the used total.
type ConsumptionDTO struct {
	RequestID string  `json:"request_id"`
	Start     string  `json:"start"`
	End       string  `json:"end"`
	Days      float64 `json:"days"`
}

// SummaryDTO is the leave dashboard for one employee and year.
type SummaryDTO struct {
	EmployeeID   string           `json:"employee_id,omitempty"`
	Employee     string           `json:"employee"`
	EmployeeCode string           `json:"employee_code,omitempty"`
	Year         int              `json:"year"`
	Today        string           `json:"today"`
	Region       string           `json:"region"`
	Allowance    float64          `json:"allowance"`
	Carryover    float64          `json:"carryover"`
	Total        float64          `json:"total"`
	Used         float64          `json:"used"`
	Remaining    float64          `json:"remaining"`
	PendingCount int              `json:"pending_count"`
	NextUpcoming *RequestDTO      `json:"next_upcoming"`
	Breakdown    []ConsumptionDTO `json:"breakdown"`
}

// HolidayDTO represents a bank holiday.
type HolidayDTO struct {
	Region string `json:"region"`
	Date   string `json:"date"`
	Title  string `json:"title"`
	Notes  string `json:"notes,omitempty"`
}

// CreateHolidayRequest adds one holiday.
type CreateHolidayRequest struct {
	Region string `json:"region"`
	Date   string `json:"date"`
	Title  string `json:"title"`
	Notes  string `json:"notes"`
}

// DefaultHolidaysRequest stores the computed calendar for a region and year.
type DefaultHolidaysRequest struct {
	Region string `json:"region"`
	Year   int    `json:"year"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Employee    string `json:"employee,omitempty"`
	Year        int    `json:"year,omitempty"`
	Today       string `json:"today,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(doc generic.StoredDocument) EmployeeDTO {
	return EmployeeDTO{
		ID:        doc.ID,
		Name:      doc.Name,
		Code:      doc.Code,
		Data:      doc.Data,
		CreatedAt: formatTime(doc.CreatedAt),
		UpdatedAt: formatTime(doc.UpdatedAt),
	}
}

func toEmployeeDTOs(docs []generic.StoredDocument) []EmployeeDTO {
	dtos := make([]EmployeeDTO, len(docs))
	for i, d := range docs {
		dtos[i] = toEmployeeDTO(d)
	}
	return dtos
}

func toRequestDTO(r leave.Request) RequestDTO {
	return RequestDTO{
		ID:           r.ID,
		Employee:     r.EmployeeName,
		EmployeeCode: r.EmployeeCode,
		Start:        formatDate(r.Start),
		End:          formatDate(r.End),
		Status:       string(r.Status),
		StatusText:   r.StatusText,
		Kind:         string(r.Kind),
		StartHalf:    r.StartHalf,
		EndHalf:      r.EndHalf,
		StartAMPM:    r.StartAMPM,
		EndAMPM:      r.EndAMPM,
		HalfDay:      r.HalfDay,
		Data:         r.Doc,
	}
}

func toRequestDTOs(reqs []leave.Request) []RequestDTO {
	dtos := make([]RequestDTO, len(reqs))
	for i, r := range reqs {
		dtos[i] = toRequestDTO(r)
	}
	return dtos
}

func toSummaryDTO(s leave.Summary, emp *leave.Employee, id leave.Identity, today generic.TimePoint, region string) SummaryDTO {
	dto := SummaryDTO{
		Employee:     id.Name,
		EmployeeCode: id.Code,
		Year:         s.Year,
		Today:        today.String(),
		Region:       region,
		Allowance:    s.Allowance.Float64(),
		Carryover:    s.Carryover.Float64(),
		Total:        s.Total.Float64(),
		Used:         s.Used.Float64(),
		Remaining:    s.Remaining.Float64(),
		PendingCount: s.PendingCount,
		Breakdown:    make([]ConsumptionDTO, 0, len(s.Breakdown)),
	}
	if emp != nil {
		dto.EmployeeID = emp.ID
	}
	if s.Next != nil {
		next := toRequestDTO(*s.Next)
		dto.NextUpcoming = &next
	}
	for _, c := range s.Breakdown {
		dto.Breakdown = append(dto.Breakdown, ConsumptionDTO{
			RequestID: c.Request.ID,
			Start:     c.Period.Start.String(),
			End:       c.Period.End.String(),
			Days:      c.Days.Float64(),
		})
	}
	return dto
}

func toHolidayDTOs(hs []generic.Holiday) []HolidayDTO {
	dtos := make([]HolidayDTO, len(hs))
	for i, h := range hs {
		dtos[i] = HolidayDTO{Region: h.Region, Date: h.Date.String(), Title: h.Title, Notes: h.Notes}
	}
	return dtos
}

func formatDate(tp generic.TimePoint) string {
	if tp.IsZero() {
		return ""
	}
	return tp.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
