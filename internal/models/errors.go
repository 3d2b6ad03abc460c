package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrUnresolvedAddress is returned when the geocoding provider cannot
	// resolve an address. Jobs with unresolved addresses are excluded from
	// the optimization run, not fatal to it.
	ErrUnresolvedAddress = errors.New("address could not be geocoded")

	// ErrRunInProgress is returned when an optimization run is already
	// holding the lock for the same (company, date) key.
	ErrRunInProgress = errors.New("an optimization run is already in progress for this company and date")

	// ErrNoTechnicians is returned when the company has no active
	// technicians to route against.
	ErrNoTechnicians = errors.New("no active technicians available")
)

// ConflictError is returned when a proposed booking or reschedule overlaps
// one or more active jobs already assigned to the same technician.
type ConflictError struct {
	TechnicianID string
	JobIDs       []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("technician %s has conflicting jobs: %s", e.TechnicianID, strings.Join(e.JobIDs, ", "))
}

// ErrorResponse is the generic JSON error body returned by handlers.
type ErrorResponse struct {
	Message string `json:"message"`
}
