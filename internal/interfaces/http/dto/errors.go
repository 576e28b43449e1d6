package dto

import "net/http"

// Transport-level error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeUnauthorized is used when authentication is required but missing or invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the authenticated user lacks the required role
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeConflict is used when another actor won a state transition race
	ErrCodeConflict = "CONFLICT"
	// ErrCodePartialWrite is used when a multi-record write failed part-way
	ErrCodePartialWrite = "PARTIAL_WRITE"
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
)

// domainErrorStatus maps domain error codes to HTTP status codes. Codes not
// listed here are validation failures and map to 400.
var domainErrorStatus = map[string]int{
	"NOT_FOUND":               http.StatusNotFound,
	"ITEM_NOT_FOUND":          http.StatusNotFound,
	"ALREADY_EXISTS":          http.StatusConflict,
	"CONCURRENT_MODIFICATION": http.StatusConflict,
	"UNAUTHORIZED":            http.StatusUnauthorized,
	"FORBIDDEN":               http.StatusForbidden,

	// Lifecycle rule violations are well-formed requests the current state
	// forbids, so they map to 422 rather than 400.
	"INVALID_STATE": http.StatusUnprocessableEntity,
	"NO_ITEMS":      http.StatusUnprocessableEntity,
	"NO_CLIENT":     http.StatusUnprocessableEntity,

	"INTERNAL_ERROR": http.StatusInternalServerError,
}

// DomainErrorStatus returns the HTTP status for a domain error code
func DomainErrorStatus(code string) int {
	if status, ok := domainErrorStatus[code]; ok {
		return status
	}
	return http.StatusBadRequest
}
