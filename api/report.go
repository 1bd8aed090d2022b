package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/leave"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	allowanceSheet = "Allowances"
	holidaySheet   = "Bank holidays"
	xlsxMIME       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var allowanceHeader = []interface{}{
	"Employee", "Code", "Year", "Allowance", "Carryover", "Total",
	"Used", "Remaining", "Pending requests", "Next leave",
}

// ReportRow is one employee's line in the allowance report.
type ReportRow struct {
	Name    string
	Code    string
	Summary leave.Summary
}

// ExportAllowances returns an XLSX workbook with every employee's figures
// for a year plus the bank holidays that were applied.
// GET /api/reports/allowances.xlsx?year=&today=&region=
func (h *Handler) ExportAllowances(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	today, year, err := h.parseTodayAndYear(r)
	if err != nil {
		h.handleError(w, "Invalid query", err)
		return
	}
	region := h.region(r)

	hs, err := h.Holidays.Holidays(ctx, region, year)
	if err != nil {
		h.handleError(w, "Failed to load bank holidays", err)
		return
	}
	calendar := generic.HolidaySet(hs)

	docs, err := h.Store.ListEmployees(ctx)
	if err != nil {
		h.handleError(w, "Failed to list employees", err)
		return
	}

	rows := make([]ReportRow, 0, len(docs))
	for _, doc := range docs {
		emp := h.Decoder.Employee(doc.Data)
		id := leave.ResolveIdentity(emp, leave.Identity{Name: doc.Name, Code: doc.Code})
		requests, err := h.requestsFor(ctx, emp, id)
		if err != nil {
			h.handleError(w, "Failed to list requests", err)
			return
		}
		rows = append(rows, ReportRow{
			Name: id.Name,
			Code: id.Code,
			Summary: leave.Summarize(leave.SummaryInput{
				Employee: emp,
				Requests: requests,
				Year:     year,
				Today:    today,
				Calendar: calendar,
			}),
		})
	}

	f, err := BuildAllowanceReport(rows, hs)
	if err != nil {
		h.handleError(w, "Failed to build report", err)
		return
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		h.handleError(w, "Failed to write report", err)
		return
	}

	h.Logger.Info("allowance report exported",
		zap.Int("year", year),
		zap.Int("employees", len(rows)))

	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="allowances-%d.xlsx"`, year))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// BuildAllowanceReport lays out the report workbook.
func BuildAllowanceReport(rows []ReportRow, hs []generic.Holiday) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", allowanceSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	if err := f.SetSheetRow(allowanceSheet, "A1", &allowanceHeader); err != nil {
		f.Close()
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(allowanceHeader))
	if err := f.SetCellStyle(allowanceSheet, "A1", lastCol+"1", bold); err != nil {
		f.Close()
		return nil, err
	}

	for i, row := range rows {
		s := row.Summary
		next := ""
		if s.Next != nil && s.Next.HasStart() {
			next = s.Next.Start.String()
		}
		values := []interface{}{
			row.Name, row.Code, s.Year,
			s.Allowance.Float64(), s.Carryover.Float64(), s.Total.Float64(),
			s.Used.Float64(), s.Remaining.Float64(), s.PendingCount, next,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(allowanceSheet, cell, &values); err != nil {
			f.Close()
			return nil, err
		}
	}
	_ = f.SetColWidth(allowanceSheet, "A", "A", 28)
	_ = f.SetColWidth(allowanceSheet, "J", "J", 14)

	if _, err := f.NewSheet(holidaySheet); err != nil {
		f.Close()
		return nil, err
	}
	header := []interface{}{"Region", "Date", "Title", "Notes"}
	if err := f.SetSheetRow(holidaySheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}
	_ = f.SetCellStyle(holidaySheet, "A1", "D1", bold)
	for i, hol := range hs {
		values := []interface{}{hol.Region, hol.Date.String(), hol.Title, hol.Notes}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(holidaySheet, cell, &values); err != nil {
			f.Close()
			return nil, err
		}
	}
	_ = f.SetColWidth(holidaySheet, "C", "C", 36)

	return f, nil
}
