// internal/review/handler.go
package review

import (
	"context"
	"errors"
	"fmt"

	"studio-site/internal/common/logger"
	"studio-site/internal/common/metrics"
	"studio-site/internal/models"
)

const (
	TaskType = "review-staff-application"
)

var (
	ErrSubmissionNotFound  = errors.New("SUBMISSION_NOT_FOUND")
	ErrReviewNotAllowed    = errors.New("REVIEW_NOT_ALLOWED")
	ErrReviewPersistFailed = errors.New("REVIEW_PERSIST_FAILED")
)

// Repository is the slice of the submission repository the handler needs.
type Repository interface {
	Get(ctx context.Context, id string) (*models.Submission, bool)
	AttachReview(ctx context.Context, id string, review models.AIReview) bool
}

type Handler struct {
	config *Config
	repo   Repository
	logger logger.Logger
}

func NewHandler(config *Config, repo Repository, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{
		config: config,
		repo:   repo,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute scores a staff application once and persists the result. A
// submission that already has a review gets it back unchanged.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	sub, ok := h.repo.Get(ctx, input.SubmissionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSubmissionNotFound, input.SubmissionID)
	}

	if sub.AIReview != nil {
		h.logger.Debug("returning existing review", map[string]interface{}{"id": sub.ID})
		return &Output{Review: *sub.AIReview, Existing: true}, nil
	}

	var app *models.StaffApplicationForm
	switch data := sub.Data.(type) {
	case *models.StaffApplicationForm:
		app = data
	case *models.ContactForm:
		return nil, fmt.Errorf("%w: review is only available for staff applications", ErrReviewNotAllowed)
	default:
		return nil, fmt.Errorf("%w: unsupported payload %T", ErrReviewNotAllowed, data)
	}

	result := Score(app)

	if !h.repo.AttachReview(ctx, sub.ID, result) {
		return nil, fmt.Errorf("%w: %s", ErrReviewPersistFailed, sub.ID)
	}

	metrics.ReviewScores.Observe(result.Score)
	h.logger.Info("staff application reviewed", map[string]interface{}{
		"id":         sub.ID,
		"score":      result.Score,
		"highlights": len(result.Highlights),
	})

	return &Output{Review: result}, nil
}
