package shared

import "fmt"

// DomainError represents a domain-level error
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
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// InsufficientStockError reports a material or page shortfall with exact
// required-vs-available quantities. Batch operations fail in full on it.
type InsufficientStockError struct {
	Resource  string `json:"resource"`
	Required  string `json:"required"`
	Available string `json:"available"`
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient %s: required %s, available %s", e.Resource, e.Required, e.Available)
}

// NewInsufficientStockError creates an InsufficientStockError
func NewInsufficientStockError(resource, required, available string) *InsufficientStockError {
	return &InsufficientStockError{
		Resource:  resource,
		Required:  required,
		Available: available,
	}
}

// ValidationErrors aggregates per-group validation failures so the caller can
// fix every issue in one pass.
type ValidationErrors struct {
	Items []string `json:"items"`
}

// Error implements the error interface
func (e *ValidationErrors) Error() string {
	if len(e.Items) == 1 {
		return e.Items[0]
	}
	return fmt.Sprintf("%d validation errors: %v", len(e.Items), e.Items)
}

// Add appends a validation failure message
func (e *ValidationErrors) Add(format string, args ...any) {
	e.Items = append(e.Items, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any failure was recorded
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Items) > 0
}
