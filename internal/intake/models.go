// internal/intake/models.go
package intake

import (
	"encoding/json"
	"strings"

	"studio-site/internal/common/validation"
	"studio-site/internal/models"
)

type Input struct {
	Type models.SubmissionType
	Body json.RawMessage
}

type Output struct {
	Submission *models.Submission `json:"submission"`
	Delivered  bool               `json:"delivered"`

	// NotifyError is set when the webhook was not delivered.
	NotifyError error `json:"-"`
}

// ValidationError carries the per-field failures of a rejected form.
type ValidationError struct {
	Result *validation.ValidationResult
}

func (e *ValidationError) Error() string {
	return ErrValidationFailed.Error() + ": " + strings.Join(e.Result.GetErrorMessages(), "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
