package dto

import "net/http"

// Error codes returned by the API. Domain errors carry these codes directly;
// the interface layer adds the transport-only ones (bad request, internal).
const (
	// Input errors
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeInvalidBarcode = "INVALID_BARCODE"
	ErrCodeValidation     = "VALIDATION_FAILED"

	// Resource errors
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"

	// Business rule errors
	ErrCodeInvalidState      = "INVALID_STATE"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeNoLabelSource     = "NO_LABEL_SOURCE"
	ErrCodeTokenRequired     = "TOKEN_REQUIRED"

	// Access errors
	ErrCodeForbidden = "FORBIDDEN"

	// Upstream marketplace errors
	ErrCodeMarketplaceError        = "MARKETPLACE_ERROR"
	ErrCodeMarketplaceUnauthorized = "MARKETPLACE_UNAUTHORIZED"

	// Server errors
	ErrCodeRenderFailed = "RENDER_FAILED"
	ErrCodeEncodeFailed = "ENCODE_FAILED"
	ErrCodeDecodeFailed = "DECODE_FAILED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:     http.StatusBadRequest,
	ErrCodeInvalidInput:   http.StatusBadRequest,
	ErrCodeInvalidBarcode: http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeValidation:        http.StatusUnprocessableEntity,
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeNoLabelSource:     http.StatusUnprocessableEntity,
	ErrCodeTokenRequired:     http.StatusUnprocessableEntity,

	// Access errors
	ErrCodeForbidden: http.StatusForbidden,

	// Upstream marketplace errors -> 502 Bad Gateway, except auth failures
	// which the operator fixes by rotating the workspace token
	ErrCodeMarketplaceError:        http.StatusBadGateway,
	ErrCodeMarketplaceUnauthorized: http.StatusUnprocessableEntity,

	// Document pipeline errors -> 500 Internal Server Error
	ErrCodeRenderFailed: http.StatusInternalServerError,
	ErrCodeEncodeFailed: http.StatusInternalServerError,
	ErrCodeDecodeFailed: http.StatusInternalServerError,
	ErrCodeInternal:     http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
