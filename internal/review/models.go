// internal/review/models.go
package review

import "studio-site/internal/models"

type Input struct {
	SubmissionID string `json:"submissionId"`
}

type Output struct {
	Review models.AIReview `json:"review"`
	// Existing is true when the submission already carried a review.
	Existing bool `json:"existing"`
}
