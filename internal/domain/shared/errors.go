package shared

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// DomainError represents a domain-level validation error.
// Operations that return a DomainError have performed no writes.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized  = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden     = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// ConflictError is returned when a state transition's precondition no longer
// holds because another actor got there first (e.g. two admins approving the
// same order). It carries enough detail for the caller to tell the losing
// user what actually happened instead of a generic failure.
type ConflictError struct {
	Entity   string
	EntityID uuid.UUID
	Expected string
	Actual   string
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s is in status %s, expected %s", e.Entity, e.EntityID, e.Actual, e.Expected)
}

// NewConflictError creates a new conflict error
func NewConflictError(entity string, entityID uuid.UUID, expected, actual string) *ConflictError {
	return &ConflictError{
		Entity:   entity,
		EntityID: entityID,
		Expected: expected,
		Actual:   actual,
	}
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// PartialWriteError is returned when a multi-record write failed after some
// records already landed. CreatedSupplierIDs lists the suppliers whose
// purchase orders were written before the failure, so a retry can skip them
// and never duplicate a supplier-facing commitment.
type PartialWriteError struct {
	Entity             string
	EntityID           uuid.UUID
	CreatedSupplierIDs []uuid.UUID
	Cause              error
}

// Error implements the error interface
func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial write on %s %s: %d purchase orders created before failure: %v",
		e.Entity, e.EntityID, len(e.CreatedSupplierIDs), e.Cause)
}

// Unwrap returns the underlying cause
func (e *PartialWriteError) Unwrap() error {
	return e.Cause
}

// Warning codes for data-quality findings that accompany a successful result.
const (
	WarningCodeIncompleteClient  = "INCOMPLETE_CLIENT"
	WarningCodeLowMargin         = "LOW_MARGIN"
	WarningCodeUnknownSupplier   = "UNKNOWN_SUPPLIER"
	WarningCodeMissingSalesOwner = "MISSING_SALES_OWNER"
)

// Warning is a non-fatal data-quality finding. Warnings never abort the
// operation that produced them; they ride along with the successful result
// so the caller can surface them.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewWarning creates a new warning
func NewWarning(code, message string) Warning {
	return Warning{Code: code, Message: message}
}

// Warnings is a collection of warnings.
type Warnings []Warning

// Add appends a warning built from code and a formatted message.
func (w *Warnings) Add(code, format string, args ...any) {
	*w = append(*w, NewWarning(code, fmt.Sprintf(format, args...)))
}

// Has reports whether any warning carries the given code.
func (w Warnings) Has(code string) bool {
	for _, warning := range w {
		if warning.Code == code {
			return true
		}
	}
	return false
}
