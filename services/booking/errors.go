package booking

import (
	"fmt"
	"strings"
)

// GuardError covers origin, header, anti-forgery and consent failures.
// Always 4xx, never retried automatically.
type GuardError struct {
	Code    string
	Message string
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewGuardError(code, msg string) error {
	return &GuardError{Code: code, Message: msg}
}

// ValidationError is a business-rule violation carrying one or more
// field messages.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}

func NewValidationError(details ...string) error {
	return &ValidationError{Details: details}
}

// CapacityConflictError means the slot filled between the client's
// availability read and the creation attempt. Safe to retry against
// fresh availability.
type CapacityConflictError struct {
	Message string
}

func (e *CapacityConflictError) Error() string {
	return e.Message
}

// ConflictError covers cancellation-state conflicts (already cancelled,
// outside the cancellation window).
type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ProviderError wraps a backend failure or timeout. Counted toward
// health and alerting; eligible for caller-level retry with backoff.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NotFoundError covers unknown booking or tour IDs.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}
