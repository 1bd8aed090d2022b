/*
store.go - Persistence interfaces for documents and bank holidays

PURPOSE:
  Defines the interface between the service and its database. Employees and
  leave requests are kept as raw documents, exactly as the record store
  delivered them, so the tolerant alias tables in the leave package keep
  working on stored data. A few fields are lifted into columns for lookup.

KEY INTERFACES:
  EmployeeStore: Employee documents
  RequestStore:  Leave-request documents
  HolidayStore:  Bank holidays per region
  Store:         All of the above plus Reset

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - generic/store/memory.go: In-memory for tests and demos

SEE ALSO:
  - leave/record.go: Decodes documents into requests and employees
  - holidays/source.go: Stored holiday source built on HolidayStore
*/
package generic

import (
	"context"
	"time"
)

// Document is a raw record: field name to loosely typed value.
type Document map[string]any

// StoredDocument is a document plus the lookup fields lifted out of it.
type StoredDocument struct {
	ID        string
	Name      string // employee name (request owner for leave requests)
	Code      string // employee short code
	Status    string // normalized status, leave requests only
	Data      Document
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Holiday is a public holiday for one region.
type Holiday struct {
	Region string
	Date   TimePoint
	Title  string
	Notes  string
}

// EmployeeStore persists employee documents.
type EmployeeStore interface {
	SaveEmployee(ctx context.Context, doc StoredDocument) error
	// GetEmployee returns ErrEmployeeNotFound when id is unknown.
	GetEmployee(ctx context.Context, id string) (*StoredDocument, error)
	ListEmployees(ctx context.Context) ([]StoredDocument, error)
	DeleteEmployee(ctx context.Context, id string) error
}

// RequestStore persists leave-request documents.
type RequestStore interface {
	SaveRequest(ctx context.Context, doc StoredDocument) error
	// GetRequest returns ErrRequestNotFound when id is unknown.
	GetRequest(ctx context.Context, id string) (*StoredDocument, error)
	// ListRequests returns all requests, or only those with the given
	// normalized status when status is non-empty.
	ListRequests(ctx context.Context, status string) ([]StoredDocument, error)
	// ListRequestsFor returns requests whose name or code matches after
	// case and whitespace normalization. Empty arguments never match.
	ListRequestsFor(ctx context.Context, name, code string) ([]StoredDocument, error)
	DeleteRequest(ctx context.Context, id string) error
}

// HolidayStore persists bank holidays.
type HolidayStore interface {
	SaveHolidays(ctx context.Context, holidays []Holiday) error
	ListHolidays(ctx context.Context, region string, year int) ([]Holiday, error)
	DeleteHoliday(ctx context.Context, region string, date TimePoint) error
}

// Store is the full persistence surface used by the API.
type Store interface {
	EmployeeStore
	RequestStore
	HolidayStore
	Reset(ctx context.Context) error
}

// HolidaySet collects holiday dates into a BankHolidaySet.
func HolidaySet(holidays []Holiday) BankHolidaySet {
	set := make(BankHolidaySet, len(holidays))
	for _, h := range holidays {
		set.Add(h.Date)
	}
	return set
}
