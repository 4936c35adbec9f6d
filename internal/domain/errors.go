package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// trip does not exist in the store.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrOverlap is returned when a trip's range intersects another recorded trip.
// Handlers should map this to HTTP 409 Conflict.
var ErrOverlap = errors.New("overlaps an existing trip")

// ErrRuleViolation is returned when rule enforcement is on and a trip would
// push some day of its range past the 90-day allowance.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrRuleViolation = errors.New("exceeds the 90/180 allowance")
