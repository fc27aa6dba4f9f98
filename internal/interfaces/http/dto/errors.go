package dto

import "net/http"

// Error code constants, format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeDuplicateRequest    = "ERR_DUPLICATE_REQUEST"
)

// Business rule error codes
const (
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeNoHistory is returned when an entity has no price history
	// to compute a rolling lowest from
	ErrCodeNoHistory = "ERR_NO_HISTORY"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeDuplicateRequest:    http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeNoHistory:    http.StatusNotFound,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to HTTP-facing codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"NO_HISTORY":           ErrCodeNoHistory,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the HTTP-facing format.
// Unknown codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
