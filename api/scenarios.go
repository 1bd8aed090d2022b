/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with employee
	and leave-request documents. Each scenario demonstrates one behavior of
	the leave calculator. The ScenarioDTO says which employee, year and
	"today" to pass to the summary endpoint.

AVAILABLE SCENARIOS:

	standard-year:  20 + 3 days, one approved week in June (5 used, 18 left)
	year-boundary:  Half-day end across New Year, plus an Easter week
	pending:        One approved and one pending request
	unmatched:      Requests with no employee on file
	upcoming-leave: Several approved future requests; earliest is "next"

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create employees from preset documents
 3. Create leave requests from preset documents

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "standard-year"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - factory/presets.go: Document presets
  - leave/summary.go: Figures the scenarios exercise
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/warp/leave-engine/factory"
	"go.uber.org/zap"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "standard-year",
		Name:        "Standard Year",
		Description: "20 days plus 3 carried over, one approved week in June",
		Employee:    "Sam Carter",
		Year:        2024,
		Today:       "2024-06-01",
	},
	{
		ID:          "year-boundary",
		Name:        "Year Boundary",
		Description: "Leave from 29 Dec ending on a half day on 2 Jan, and the Easter week",
		Employee:    "Jordan Lee",
		Year:        2024,
		Today:       "2024-01-15",
	},
	{
		ID:          "pending",
		Name:        "Pending Request",
		Description: "Pending leave is counted but not deducted",
		Employee:    "Priya Shah",
		Year:        2024,
		Today:       "2024-03-01",
	},
	{
		ID:          "unmatched",
		Name:        "No Employee Match",
		Description: "Requests exist but no employee record or identity is given",
		Year:        2024,
		Today:       "2024-06-01",
	},
	{
		ID:          "upcoming-leave",
		Name:        "Upcoming Leave",
		Description: "Several approved future requests; the earliest is shown next",
		Employee:    "Alex Reid",
		Year:        2024,
		Today:       "2024-06-01",
	},
}

// scenarioData is the documents a scenario loads.
type scenarioData struct {
	employees []string
	requests  []string
}

var scenarioDocuments = map[string]func() scenarioData{
	"standard-year":  standardYearScenario,
	"year-boundary":  yearBoundaryScenario,
	"pending":        pendingScenario,
	"unmatched":      unmatchedScenario,
	"upcoming-leave": upcomingLeaveScenario,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	current := h.currentScenario
	h.mu.RUnlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario resets the database and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	build, ok := scenarioDocuments[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		h.handleError(w, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	if err := h.loadScenario(ctx, build()); err != nil {
		h.handleError(w, fmt.Sprintf("Failed to load scenario %s", req.ScenarioID), err)
		return
	}
	h.currentScenario = req.ScenarioID

	h.Logger.Info("scenario loaded", zap.String("scenario", req.ScenarioID))
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all employees, requests and stored holidays.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(r.Context()); err != nil {
		h.handleError(w, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	h.Logger.Info("database reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) loadScenario(ctx context.Context, data scenarioData) error {
	for _, js := range data.employees {
		doc, err := h.Factory.ParseEmployee(js)
		if err != nil {
			return fmt.Errorf("employee document: %w", err)
		}
		if err := h.Store.SaveEmployee(ctx, doc); err != nil {
			return err
		}
	}
	for _, js := range data.requests {
		doc, err := h.Factory.ParseRequest(js)
		if err != nil {
			return fmt.Errorf("request document: %w", err)
		}
		if err := h.Store.SaveRequest(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func standardYearScenario() scenarioData {
	return scenarioData{
		employees: []string{factory.EmployeeJSON("Sam Carter", "SC", 2024, 20, 3)},
		requests: []string{
			factory.AnnualLeaveJSON("a-1", "Sam Carter", "2024-06-10", "2024-06-14", "Approved"),
		},
	}
}

func yearBoundaryScenario() scenarioData {
	return scenarioData{
		employees: []string{factory.EmployeeJSON("Jordan Lee", "JL", 2024, 25, 0)},
		requests: []string{
			// Jan 1 is a bank holiday; Jan 2 is the half-day end: 0.5 in 2024.
			factory.HalfDayLeaveJSON("b-1", "Jordan Lee", "2023-12-29", "2024-01-02", "Approved", false, true),
			// Thu to Tue around Good Friday and Easter Monday: 2 days.
			factory.AnnualLeaveJSON("b-2", "Jordan Lee", "2024-03-28", "2024-04-02", "Approved"),
		},
	}
}

func pendingScenario() scenarioData {
	return scenarioData{
		employees: []string{factory.EmployeeJSON("Priya Shah", "PS", 2024, 22, 1)},
		requests: []string{
			factory.AnnualLeaveJSON("c-1", "Priya Shah", "2024-02-12", "2024-02-16", "Approved"),
			factory.AnnualLeaveJSON("c-2", "Priya Shah", "2024-08-05", "2024-08-09", "Pending"),
			factory.SickLeaveJSON("c-3", "Priya Shah", "2024-01-08", "2024-01-09", "Approved"),
		},
	}
}

func unmatchedScenario() scenarioData {
	return scenarioData{
		requests: []string{
			factory.AnnualLeaveJSON("d-1", "Taylor Morgan", "2024-05-13", "2024-05-17", "Approved"),
			factory.AnnualLeaveJSON("d-2", "Taylor Morgan", "2024-09-02", "2024-09-03", "Pending"),
		},
	}
}

func upcomingLeaveScenario() scenarioData {
	return scenarioData{
		employees: []string{factory.FlatEmployeeJSON("Alex Reid", "AR", 25, 2)},
		requests: []string{
			factory.AnnualLeaveJSON("e-1", "Alex Reid", "2024-07-01", "2024-07-05", "Approved"),
			factory.AnnualLeaveJSON("e-2", "Alex Reid", "2024-06-20", "2024-06-21", "Approved"),
			factory.LegacyHalfDayJSON("e-3", "Alex Reid", "2024-05-03", "Approved"),
			factory.UnpaidLeaveJSON("e-4", "Alex Reid", "2024-08-12", "2024-08-12", "Approved"),
		},
	}
}
