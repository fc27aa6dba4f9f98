package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeNoHistory, http.StatusNotFound},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeDuplicateRequest, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetHTTPStatus(tt.code), tt.code)
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeConcurrencyConflict, NormalizeErrorCode("CONCURRENCY_CONFLICT"))
	assert.Equal(t, ErrCodeNoHistory, NormalizeErrorCode("NO_HISTORY"))
	assert.Equal(t, ErrCodeValidation, NormalizeErrorCode("VALIDATION_ERROR"))
	assert.Equal(t, "CUSTOM_CODE", NormalizeErrorCode("CUSTOM_CODE"))
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Product not found", "req-123")

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Product not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "new_price", Message: "Must be greater than or equal to 0"},
	}
	resp := NewValidationErrorResponse("Request validation failed", "req-456", details)

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "new_price", resp.Error.Details[0].Field)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 42, 20, 0)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(42), resp.Meta.Total)
	assert.Equal(t, 20, resp.Meta.Limit)
	assert.Equal(t, 0, resp.Meta.Offset)
}
