// internal/intake/handler.go
package intake

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"studio-site/internal/common/logger"
	"studio-site/internal/common/metrics"
	"studio-site/internal/common/validation"
	"studio-site/internal/models"
)

const (
	TaskType = "form-intake"
)

var (
	ErrUnknownForm      = errors.New("UNKNOWN_FORM")
	ErrValidationFailed = errors.New("VALIDATION_FAILED")
	ErrStoreUnavailable = errors.New("STORE_UNAVAILABLE")
)

type Repository interface {
	Save(ctx context.Context, payload models.Payload) (*models.Submission, bool)
}

type Notifier interface {
	Notify(ctx context.Context, payload models.Payload) error
}

// Handler accepts public form submissions. The webhook is best effort: a
// failed notification still persists the submission.
type Handler struct {
	config    *Config
	validator *validation.Validator
	notifier  Notifier
	repo      Repository
	logger    logger.Logger
}

func NewHandler(config *Config, validator *validation.Validator, notifier Notifier, repo Repository, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{
		config:    config,
		validator: validator,
		notifier:  notifier,
		repo:      repo,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if !input.Type.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownForm, input.Type)
	}

	payload, err := h.validate(input)
	if err != nil {
		metrics.SubmissionsRejected.WithLabelValues(string(input.Type), "validation").Inc()
		return nil, err
	}

	notifyErr := h.notify(ctx, payload)
	delivered := notifyErr == nil

	sub, ok := h.repo.Save(ctx, payload)
	if !ok {
		metrics.SubmissionsRejected.WithLabelValues(string(input.Type), "store").Inc()
		return nil, fmt.Errorf("%w: could not save %s submission", ErrStoreUnavailable, input.Type)
	}

	metrics.SubmissionsCreated.WithLabelValues(string(input.Type)).Inc()
	h.logger.Info("submission accepted", map[string]interface{}{
		"id":        sub.ID,
		"type":      sub.Type,
		"delivered": delivered,
	})

	return &Output{Submission: sub, Delivered: delivered, NotifyError: notifyErr}, nil
}

func (h *Handler) validate(input *Input) (models.Payload, error) {
	result, err := h.validator.Validate(string(input.Type), input.Body)
	if err != nil {
		result = &validation.ValidationResult{Valid: true}
		result.Add("body", "malformed JSON document", "INVALID_JSON")
		return nil, &ValidationError{Result: result}
	}
	if !result.Valid {
		return nil, &ValidationError{Result: result}
	}

	payload, err := models.DecodePayload(input.Type, input.Body)
	if err != nil {
		result.Add("body", err.Error(), "INVALID_TYPE")
		return nil, &ValidationError{Result: result}
	}

	switch p := payload.(type) {
	case *models.StaffApplicationForm:
		h.checkAge(p.Age, result)
	case *models.ContactForm:
	}

	if !result.Valid {
		return nil, &ValidationError{Result: result}
	}
	return payload, nil
}

// checkAge runs only when the schema accepted the age as digits.
func (h *Handler) checkAge(raw string, result *validation.ValidationResult) {
	if result.HasErrors("age") {
		return
	}
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		result.Add("age", "must be a whole number", "INVALID_TYPE")
		return
	}
	if age < models.MinApplicantAge {
		result.Add("age", fmt.Sprintf("must be at least %d", models.MinApplicantAge), "MINIMUM_VIOLATION")
	} else if age > h.config.MaxAge {
		result.Add("age", fmt.Sprintf("must be at most %d", h.config.MaxAge), "MAXIMUM_VIOLATION")
	}
}

func (h *Handler) notify(ctx context.Context, payload models.Payload) error {
	formType := string(payload.Type())

	ctx, cancel := context.WithTimeout(ctx, h.config.NotifyTimeout)
	defer cancel()

	if err := h.notifier.Notify(ctx, payload); err != nil {
		metrics.WebhookDeliveries.WithLabelValues(formType, "failed").Inc()
		h.logger.Warn("notification not delivered, saving anyway", map[string]interface{}{
			"type":  formType,
			"error": err,
		})
		return err
	}

	metrics.WebhookDeliveries.WithLabelValues(formType, "ok").Inc()
	return nil
}
