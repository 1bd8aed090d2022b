/*
errors.go - Centralized error types for the leave engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The calculator itself never returns errors; these belong to the
  store, the bank-holiday sources and the API.

ERROR CATEGORIES:
  1. Lookup errors - Missing employees, requests, regions
  2. Validation errors - Malformed input from clients
  3. Upstream errors - Bank-holiday feed failures

USAGE:
  if generic.IsNotFound(err) {
      writeError(w, http.StatusNotFound, "Employee not found", err)
  }

SEE ALSO:
  - store/sqlite/sqlite.go: Returns ErrEmployeeNotFound / ErrRequestNotFound
  - holidays/source.go: Returns ErrRegionUnknown / ErrUpstream
  - api/handlers.go: Maps these errors to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrRequestNotFound is returned when a referenced leave request doesn't exist.
	ErrRequestNotFound = errors.New("leave request not found")

	// ErrInvalidDate is returned when an input date cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidYear is returned when a year parameter is out of range.
	ErrInvalidYear = errors.New("invalid year")

	// ErrInvalidStatus is returned for an unsupported status transition.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrRegionUnknown is returned when no bank-holiday calendar exists for a region.
	ErrRegionUnknown = errors.New("unknown bank holiday region")

	// ErrRequired is returned when a mandatory input field is missing.
	ErrRequired = errors.New("required")

	// ErrUpstream is returned when an external bank-holiday feed fails.
	ErrUpstream = errors.New("upstream bank holiday source failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// FieldError names the input field that failed validation.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidYear) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrRequired) ||
		errors.Is(err, ErrRegionUnknown)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrRequestNotFound)
}
