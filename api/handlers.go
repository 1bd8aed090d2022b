/*
handlers.go - HTTP API handlers for the leave engine

PURPOSE:
  Exposes the leave calculator via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the leave package for all figures.

ENDPOINTS:
  Employees:
    GET    /api/employees                 List all employees
    POST   /api/employees                 Create employees from raw documents
    GET    /api/employees/{id}            Get employee details
    DELETE /api/employees/{id}            Delete employee
    GET    /api/employees/{id}/summary    Leave dashboard (?year=&today=&region=)
    GET    /api/employees/{id}/requests   Requests attributed to the employee

  Summary by identity:
    GET    /api/summary                   Dashboard for ?name=&code= (no stored employee needed)

  Requests:
    GET    /api/requests                  List requests (?status=approved|pending|other)
    POST   /api/requests                  Create requests from raw documents
    GET    /api/requests/{id}             Get request
    POST   /api/requests/{id}/approve     Pending -> approved
    POST   /api/requests/{id}/reject      Pending -> rejected
    POST   /api/requests/{id}/cancel      Pending/approved -> cancelled

  Holidays, reports and scenarios: see holidays.go, report.go, scenarios.go.

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Document persistence
  - Holidays: Bank-holiday source for the calendar
  - Factory: Raw JSON to stored documents
  - Decoder: Reads stored documents in the configured timezone

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, unknown region
  - 404: Resource not found
  - 502: Bank-holiday feed unavailable
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - leave/summary.go: Dashboard figures
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/leave-engine/factory"
	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/holidays"
	"github.com/warp/leave-engine/leave"
	"go.uber.org/zap"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    generic.Store
	Holidays holidays.Source
	Factory  *factory.DocumentFactory
	Decoder  leave.Decoder
	Region   string
	Logger   *zap.Logger

	// Now is the clock used for default year and today.
	Now func() time.Time

	mu              sync.RWMutex
	currentScenario string
}

// NewHandler creates a handler with computed England and Wales holidays, the
// Europe/London calendar and a no-op logger. Callers override fields as needed.
func NewHandler(store generic.Store) *Handler {
	return &Handler{
		Store:    store,
		Holidays: holidays.Computed{},
		Factory:  factory.NewDocumentFactory(),
		Decoder:  leave.Decoder{Location: generic.DefaultLocation},
		Region:   holidays.RegionEnglandAndWales,
		Logger:   zap.NewNop(),
		Now:      time.Now,
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.handleError(w, "Failed to list employees", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTOs(employees))
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CreateEmployee stores one or more employee documents.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Factory.ParseEmployees(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	for _, doc := range docs {
		if leave.DecodeEmployee(doc.Data).Identity().IsEmpty() {
			h.handleError(w, "Employee needs a name or code",
				&generic.FieldError{Field: "name", Err: generic.ErrRequired})
			return
		}
	}

	ctx := r.Context()
	for _, doc := range docs {
		if err := h.Store.SaveEmployee(ctx, doc); err != nil {
			h.handleError(w, "Failed to create employee", err)
			return
		}
	}

	h.Logger.Info("employees saved", zap.Int("count", len(docs)))
	writeJSON(w, http.StatusCreated, toEmployeeDTOs(docs))
}

// DeleteEmployee removes an employee. Its requests are kept.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if _, err := h.Store.GetEmployee(ctx, id); err != nil {
		h.handleError(w, "Failed to delete employee", err)
		return
	}
	if err := h.Store.DeleteEmployee(ctx, id); err != nil {
		h.handleError(w, "Failed to delete employee", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// SUMMARY HANDLERS
// =============================================================================

// GetEmployeeSummary returns the leave dashboard for a stored employee.
// GET /api/employees/{id}/summary?year=&today=&region=
func (h *Handler) GetEmployeeSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, err := h.Store.GetEmployee(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, "Failed to get employee", err)
		return
	}
	emp := h.Decoder.Employee(doc.Data)
	if emp.ID == "" {
		emp.ID = doc.ID
	}

	h.writeSummary(w, r, emp, leave.Identity{Name: doc.Name, Code: doc.Code})
}

// GetSummary returns the leave dashboard for a name and/or code. A stored
// employee with that identity supplies the allowance; otherwise allowance is
// zero and only the request figures are meaningful.
// GET /api/summary?name=&code=&year=&today=&region=
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fallback := leave.Identity{Name: strings.TrimSpace(q.Get("name")), Code: strings.TrimSpace(q.Get("code"))}

	var emp *leave.Employee
	if !fallback.IsEmpty() {
		found, err := h.findEmployee(r.Context(), fallback)
		if err != nil {
			h.handleError(w, "Failed to list employees", err)
			return
		}
		emp = found
	}

	h.writeSummary(w, r, emp, fallback)
}

func (h *Handler) writeSummary(w http.ResponseWriter, r *http.Request, emp *leave.Employee, fallback leave.Identity) {
	ctx := r.Context()

	today, year, err := h.parseTodayAndYear(r)
	if err != nil {
		h.handleError(w, "Invalid query", err)
		return
	}
	region := h.region(r)

	calendar, err := holidays.Calendar(ctx, h.Holidays, region, year)
	if err != nil {
		h.handleError(w, "Failed to load bank holidays", err)
		return
	}

	id := leave.ResolveIdentity(emp, fallback)
	requests, err := h.requestsFor(ctx, emp, id)
	if err != nil {
		h.handleError(w, "Failed to list requests", err)
		return
	}

	summary := leave.Summarize(leave.SummaryInput{
		Employee: emp,
		Requests: requests,
		Year:     year,
		Today:    today,
		Calendar: calendar,
	})
	writeJSON(w, http.StatusOK, toSummaryDTO(summary, emp, id, today, region))
}

// GetEmployeeRequests lists the requests attributed to a stored employee.
func (h *Handler) GetEmployeeRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, err := h.Store.GetEmployee(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, "Failed to get employee", err)
		return
	}
	emp := h.Decoder.Employee(doc.Data)

	requests, err := h.requestsFor(ctx, emp, leave.ResolveIdentity(emp, leave.Identity{Name: doc.Name, Code: doc.Code}))
	if err != nil {
		h.handleError(w, "Failed to list requests", err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTOs(requests))
}

// requestsFor loads candidate requests for id and applies the matching policy.
func (h *Handler) requestsFor(ctx context.Context, emp *leave.Employee, id leave.Identity) ([]leave.Request, error) {
	if id.IsEmpty() {
		return nil, nil
	}
	docs, err := h.Store.ListRequestsFor(ctx, id.Name, id.Code)
	if err != nil {
		return nil, err
	}
	return leave.MatchRequests(emp, id, h.decodeRequests(docs)), nil
}

func (h *Handler) findEmployee(ctx context.Context, id leave.Identity) (*leave.Employee, error) {
	docs, err := h.Store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	employees := make([]*leave.Employee, len(docs))
	for i, d := range docs {
		employees[i] = h.Decoder.Employee(d.Data)
		if employees[i].ID == "" {
			employees[i].ID = d.ID
		}
	}
	return leave.FindEmployee(employees, id), nil
}

// =============================================================================
// REQUEST HANDLERS
// =============================================================================

// ListRequests returns requests, optionally filtered by normalized status.
// GET /api/requests?status=
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	status := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	switch leave.Status(status) {
	case "", leave.StatusApproved, leave.StatusPending, leave.StatusOther:
	default:
		h.handleError(w, "Invalid status filter",
			&generic.FieldError{Field: "status", Value: status, Err: generic.ErrInvalidStatus})
		return
	}

	docs, err := h.Store.ListRequests(r.Context(), status)
	if err != nil {
		h.handleError(w, "Failed to list requests", err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTOs(h.decodeRequests(docs)))
}

// GetRequest returns a single request.
func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Store.GetRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, "Failed to get request", err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(h.decodeRequest(*doc)))
}

// CreateRequest stores one or more leave-request documents. Documents are kept
// as posted; each needs an owner (name or code) to ever be matched.
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Factory.ParseRequests(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	for _, doc := range docs {
		if doc.Name == "" && doc.Code == "" {
			h.handleError(w, "Request needs an employee name or code",
				&generic.FieldError{Field: "employee", Err: generic.ErrRequired})
			return
		}
	}

	ctx := r.Context()
	out := make([]RequestDTO, 0, len(docs))
	for _, doc := range docs {
		if err := h.Store.SaveRequest(ctx, doc); err != nil {
			h.handleError(w, "Failed to create request", err)
			return
		}
		out = append(out, toRequestDTO(h.decodeRequest(doc)))
	}

	h.Logger.Info("leave requests saved", zap.Int("count", len(docs)))
	writeJSON(w, http.StatusCreated, out)
}

// ApproveRequest marks a pending request approved.
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "approved", leave.StatusPending)
}

// RejectRequest marks a pending request rejected.
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "rejected", leave.StatusPending)
}

// CancelRequest withdraws a pending or approved request.
func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "cancelled", leave.StatusPending, leave.StatusApproved)
}

// transition rewrites the request's status field in place, keeping the
// document's own alias, and re-lifts the status column.
func (h *Handler) transition(w http.ResponseWriter, r *http.Request, to string, from ...leave.Status) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	doc, err := h.Store.GetRequest(ctx, id)
	if err != nil {
		h.handleError(w, "Failed to get request", err)
		return
	}

	current := h.decodeRequest(*doc)
	allowed := false
	for _, s := range from {
		if current.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		h.handleError(w, fmt.Sprintf("Cannot mark %s request %s", current.Status, to),
			&generic.FieldError{Field: "status", Value: current.StatusText, Err: generic.ErrInvalidStatus})
		return
	}

	leave.SetStatus(doc.Data, to)
	updated := h.Factory.Request(doc.Data)
	updated.CreatedAt = doc.CreatedAt

	if err := h.Store.SaveRequest(ctx, updated); err != nil {
		h.handleError(w, "Failed to update request", err)
		return
	}

	h.Logger.Info("leave request status changed",
		zap.String("request_id", id),
		zap.String("from", current.StatusText),
		zap.String("to", to))
	writeJSON(w, http.StatusOK, toRequestDTO(h.decodeRequest(updated)))
}

func (h *Handler) decodeRequest(doc generic.StoredDocument) leave.Request {
	req := h.Decoder.Request(doc.Data)
	if req.ID == "" {
		req.ID = doc.ID
	}
	return req
}

func (h *Handler) decodeRequests(docs []generic.StoredDocument) []leave.Request {
	out := make([]leave.Request, len(docs))
	for i, d := range docs {
		out[i] = h.decodeRequest(d)
	}
	return out
}

// =============================================================================
// QUERY PARAMETERS
// =============================================================================

// parseTodayAndYear reads ?today= (default: the handler clock in the calendar
// timezone) and ?year= (default: today's year).
func (h *Handler) parseTodayAndYear(r *http.Request) (generic.TimePoint, int, error) {
	q := r.URL.Query()

	today := generic.DateOf(h.now(), h.location())
	if raw := strings.TrimSpace(q.Get("today")); raw != "" {
		tp, ok := generic.ParseDate(raw, h.location())
		if !ok {
			return generic.TimePoint{}, 0, &generic.FieldError{Field: "today", Value: raw, Err: generic.ErrInvalidDate}
		}
		today = tp
	}

	year := today.Year()
	if raw := strings.TrimSpace(q.Get("year")); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 || y > 9999 {
			return generic.TimePoint{}, 0, &generic.FieldError{Field: "year", Value: raw, Err: generic.ErrInvalidYear}
		}
		year = y
	}
	return today, year, nil
}

func (h *Handler) region(r *http.Request) string {
	if region := strings.TrimSpace(r.URL.Query().Get("region")); region != "" {
		return region
	}
	return h.Region
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) location() *time.Location {
	if h.Decoder.Location != nil {
		return h.Decoder.Location
	}
	return generic.DefaultLocation
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// handleError maps domain errors to HTTP statuses.
func (h *Handler) handleError(w http.ResponseWriter, message string, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, notFoundMessage(err), err)
	case errors.Is(err, generic.ErrUpstream):
		writeError(w, http.StatusBadGateway, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Logger.Error(message, zap.Error(err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func notFoundMessage(err error) string {
	if errors.Is(err, generic.ErrEmployeeNotFound) {
		return "Employee not found"
	}
	return "Leave request not found"
}
