package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/holidays"
	"go.uber.org/zap"
)

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// ListHolidays returns the effective bank holidays for a region and year,
// as resolved by the configured source.
// GET /api/holidays?region=&year=
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	region := h.region(r)

	year := generic.DateOf(h.now(), h.location()).Year()
	if raw := strings.TrimSpace(r.URL.Query().Get("year")); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 || y > 9999 {
			h.handleError(w, "Invalid year",
				&generic.FieldError{Field: "year", Value: raw, Err: generic.ErrInvalidYear})
			return
		}
		year = y
	}

	hs, err := h.Holidays.Holidays(ctx, region, year)
	if err != nil {
		h.handleError(w, "Failed to get holidays", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"region":   region,
		"year":     year,
		"holidays": toHolidayDTOs(hs),
	})
}

// CreateHoliday stores a single holiday.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Region == "" {
		req.Region = h.Region
	}
	if strings.TrimSpace(req.Title) == "" {
		h.handleError(w, "Title is required", &generic.FieldError{Field: "title", Err: generic.ErrRequired})
		return
	}
	date, err := time.Parse(generic.DateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		h.handleError(w, "Invalid date format (use YYYY-MM-DD)",
			&generic.FieldError{Field: "date", Value: req.Date, Err: generic.ErrInvalidDate})
		return
	}

	holiday := generic.Holiday{
		Region: req.Region,
		Date:   generic.DateOf(date, time.UTC),
		Title:  strings.TrimSpace(req.Title),
		Notes:  req.Notes,
	}
	if err := h.Store.SaveHolidays(r.Context(), []generic.Holiday{holiday}); err != nil {
		h.handleError(w, "Failed to create holiday", err)
		return
	}

	writeJSON(w, http.StatusCreated, toHolidayDTOs([]generic.Holiday{holiday})[0])
}

// ImportHolidays stores every event of a GOV.UK bank-holidays document.
// POST /api/holidays/import
func (h *Handler) ImportHolidays(w http.ResponseWriter, r *http.Request) {
	feed, err := holidays.ParseGovUK(http.MaxBytesReader(w, r.Body, 4*maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid bank holidays document", err)
		return
	}

	counts := make(map[string]int, len(feed))
	var all []generic.Holiday
	for region, hs := range feed {
		counts[region] = len(hs)
		all = append(all, hs...)
	}

	if err := h.Store.SaveHolidays(r.Context(), all); err != nil {
		h.handleError(w, "Failed to import holidays", err)
		return
	}

	h.Logger.Info("bank holidays imported", zap.Int("count", len(all)))
	writeJSON(w, http.StatusCreated, map[string]any{"status": "imported", "regions": counts})
}

// AddDefaultHolidays stores the computed calendar for a region and year.
// POST /api/holidays/defaults
func (h *Handler) AddDefaultHolidays(w http.ResponseWriter, r *http.Request) {
	var req DefaultHolidaysRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Region == "" {
		req.Region = h.Region
	}
	if req.Year == 0 {
		req.Year = generic.DateOf(h.now(), h.location()).Year()
	}

	hs, err := holidays.ComputeUK(req.Region, req.Year)
	if err != nil {
		h.handleError(w, "Failed to compute holidays", err)
		return
	}
	if err := h.Store.SaveHolidays(r.Context(), hs); err != nil {
		h.handleError(w, "Failed to save holidays", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":   "created",
		"region":   req.Region,
		"year":     req.Year,
		"holidays": toHolidayDTOs(hs),
	})
}

// DeleteHoliday removes a stored holiday.
// DELETE /api/holidays/{region}/{date}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "date")
	date, err := time.Parse(generic.DateLayout, raw)
	if err != nil {
		h.handleError(w, "Invalid date format (use YYYY-MM-DD)",
			&generic.FieldError{Field: "date", Value: raw, Err: generic.ErrInvalidDate})
		return
	}

	if err := h.Store.DeleteHoliday(r.Context(), chi.URLParam(r, "region"), generic.DateOf(date, time.UTC)); err != nil {
		h.handleError(w, "Failed to delete holiday", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}
