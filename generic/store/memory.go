// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/leave-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	employees map[string]generic.StoredDocument
	requests  map[string]generic.StoredDocument
	holidays  map[holidayKey]generic.Holiday
}

type holidayKey struct {
	Region string
	Date   string
}

var _ generic.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		employees: make(map[string]generic.StoredDocument),
		requests:  make(map[string]generic.StoredDocument),
		holidays:  make(map[holidayKey]generic.Holiday),
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Memory) SaveEmployee(_ context.Context, doc generic.StoredDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[doc.ID] = stamp(m.employees[doc.ID], doc)
	return nil
}

func (m *Memory) GetEmployee(_ context.Context, id string) (*generic.StoredDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.employees[id]
	if !ok {
		return nil, generic.ErrEmployeeNotFound
	}
	return &doc, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]generic.StoredDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]generic.StoredDocument, 0, len(m.employees))
	for _, doc := range m.employees {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) DeleteEmployee(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.employees, id)
	return nil
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

func (m *Memory) SaveRequest(_ context.Context, doc generic.StoredDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[doc.ID] = stamp(m.requests[doc.ID], doc)
	return nil
}

func (m *Memory) GetRequest(_ context.Context, id string) (*generic.StoredDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.requests[id]
	if !ok {
		return nil, generic.ErrRequestNotFound
	}
	return &doc, nil
}

func (m *Memory) ListRequests(_ context.Context, status string) ([]generic.StoredDocument, error) {
	return m.filterRequests(func(doc generic.StoredDocument) bool {
		return status == "" || doc.Status == status
	}), nil
}

func (m *Memory) ListRequestsFor(_ context.Context, name, code string) ([]generic.StoredDocument, error) {
	name, code = generic.NormalizeText(name), generic.NormalizeText(code)
	return m.filterRequests(func(doc generic.StoredDocument) bool {
		return (name != "" && generic.NormalizeText(doc.Name) == name) ||
			(code != "" && generic.NormalizeText(doc.Code) == code)
	}), nil
}

func (m *Memory) DeleteRequest(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.requests, id)
	return nil
}

func (m *Memory) filterRequests(keep func(generic.StoredDocument) bool) []generic.StoredDocument {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []generic.StoredDocument
	for _, doc := range m.requests {
		if keep(doc) {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// =============================================================================
// BANK HOLIDAYS
// =============================================================================

func (m *Memory) SaveHolidays(_ context.Context, holidays []generic.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range holidays {
		m.holidays[holidayKey{Region: h.Region, Date: h.Date.String()}] = h
	}
	return nil
}

func (m *Memory) ListHolidays(_ context.Context, region string, year int) ([]generic.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []generic.Holiday
	for _, h := range m.holidays {
		if h.Region == region && (year == 0 || h.Date.Year() == year) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *Memory) DeleteHoliday(_ context.Context, region string, date generic.TimePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.holidays, holidayKey{Region: region, Date: date.String()})
	return nil
}

// Reset clears all data.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees = make(map[string]generic.StoredDocument)
	m.requests = make(map[string]generic.StoredDocument)
	m.holidays = make(map[holidayKey]generic.Holiday)
	return nil
}

// stamp keeps the original creation time on overwrite.
func stamp(existing, doc generic.StoredDocument) generic.StoredDocument {
	now := time.Now().UTC()
	switch {
	case !existing.CreatedAt.IsZero():
		doc.CreatedAt = existing.CreatedAt
	case doc.CreatedAt.IsZero():
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	return doc
}
