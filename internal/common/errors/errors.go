// Package errors provides standardized error values shared by the submission
// pipeline and the HTTP layer.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrCodeSubmissionNotFound ErrorCode = "SUBMISSION_NOT_FOUND"
	ErrCodeReviewNotAllowed   ErrorCode = "REVIEW_NOT_ALLOWED"
	ErrCodeStoreUnavailable   ErrorCode = "STORE_UNAVAILABLE"
	ErrCodeWebhookSendFailed  ErrorCode = "WEBHOOK_SEND_FAILED"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key to the error's metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationFailedError reports form fields that failed schema validation.
func NewValidationFailedError(fieldErrors []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Submission data validation failed",
		Details:   strings.Join(fieldErrors, "; "),
		Retryable: false,
		Metadata:  map[string]interface{}{"fields": fieldErrors},
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Malformed request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSubmissionNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionNotFound,
		Message:   "Submission not found",
		Details:   fmt.Sprintf("submissionId: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewReviewNotAllowedError is returned when scoring is requested for a
// submission that is not a staff application.
func NewReviewNotAllowedError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeReviewNotAllowed,
		Message:   "Review is only available for staff applications",
		Details:   fmt.Sprintf("submissionId: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewStoreUnavailableError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreUnavailable,
		Message:   "Submission store unavailable",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewWebhookSendFailedError(formType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeWebhookSendFailed,
		Message:   "send failed",
		Details:   fmt.Sprintf("type: %s, error: %s", formType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewUnauthorizedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthorized,
		Message:   "Admin login required",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidCredentialsError() *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCredentials,
		Message:   "Wrong password, try again",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewRateLimitedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   "Too many submissions, slow down",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Helpers
// ==========================

// AsStandardError unwraps err to a *StandardError, wrapping unknown errors as INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps an error code to the response status used by the API.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeUnauthorized, ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case ErrCodeSubmissionNotFound:
		return http.StatusNotFound
	case ErrCodeReviewNotAllowed:
		return http.StatusUnprocessableEntity
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeWebhookSendFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "STORE"):
		return "DATABASE"
	case strings.Contains(codeStr, "WEBHOOK"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "AUTHORIZED") || strings.Contains(codeStr, "CREDENTIALS"):
		return "AUTH"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SUBMISSION") || strings.Contains(codeStr, "REVIEW"):
		return "SUBMISSION"
	default:
		return "OTHER"
	}
}
