// internal/common/errors/errors_test.go
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	warns  []string
	errors []string
}

func (l *recordingLogger) Warn(msg string, _ map[string]interface{}) { l.warns = append(l.warns, msg) }
func (l *recordingLogger) Error(msg string, _ map[string]interface{}) { l.errors = append(l.errors, msg) }

// ==========================
// Mapping
// ==========================

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeValidationFailed, http.StatusBadRequest},
		{ErrCodeInvalidRequest, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeSubmissionNotFound, http.StatusNotFound},
		{ErrCodeReviewNotAllowed, http.StatusUnprocessableEntity},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeStoreUnavailable, http.StatusServiceUnavailable},
		{ErrCodeWebhookSendFailed, http.StatusBadGateway},
		{ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeStoreUnavailable))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeWebhookSendFailed))
	assert.Equal(t, "AUTH", GetErrorCategory(ErrCodeUnauthorized))
	assert.Equal(t, "AUTH", GetErrorCategory(ErrCodeInvalidCredentials))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeValidationFailed))
	assert.Equal(t, "SUBMISSION", GetErrorCategory(ErrCodeReviewNotAllowed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeRateLimited))
}

func TestAsStandardError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewSubmissionNotFoundError("abc"))
	assert.Equal(t, ErrCodeSubmissionNotFound, AsStandardError(wrapped).Code)

	plain := AsStandardError(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
}

func TestNewValidationFailedError(t *testing.T) {
	err := NewValidationFailedError([]string{"name: required", "age: invalid"})

	assert.Equal(t, "name: required; age: invalid", err.Details)
	assert.Equal(t, []string{"name: required", "age: invalid"}, err.Metadata["fields"])
	assert.False(t, err.Retryable)
}

func TestNewWebhookSendFailedError(t *testing.T) {
	err := NewWebhookSendFailedError("support", stderrors.New("timeout"))

	assert.Equal(t, "send failed", err.Message)
	assert.Contains(t, err.Details, "support")
	assert.True(t, err.Retryable)
}

// ==========================
// ErrorHandler
// ==========================

func TestHandleHTTPError(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)

	rec := httptest.NewRecorder()
	h.HandleHTTPError(rec, httptest.NewRequest(http.MethodGet, "/api/admin/submissions", nil), NewUnauthorizedError())

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeUnauthorized, body.Error.Code)
	assert.Len(t, log.warns, 1)
	assert.Empty(t, log.errors)

	rec = httptest.NewRecorder()
	h.HandleHTTPError(rec, httptest.NewRequest(http.MethodGet, "/", nil), stderrors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Len(t, log.errors, 1)
}
