// internal/models/submission.go
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// SubmissionType tags which form produced a submission. It never changes after creation.
type SubmissionType string

const (
	TypeSupport          SubmissionType = "support"
	TypeStaffApplication SubmissionType = "staff-application"
)

// Valid reports whether t is one of the known tags.
func (t SubmissionType) Valid() bool {
	switch t {
	case TypeSupport, TypeStaffApplication:
		return true
	}
	return false
}

// Payload is the form body of a submission. The set of implementations is
// closed: *ContactForm and *StaffApplicationForm.
type Payload interface {
	Type() SubmissionType
	isPayload()
}

// AIReview is the deterministic score attached to a reviewed staff application.
type AIReview struct {
	Score      float64  `json:"score"`
	Highlights []string `json:"highlights"`
}

// Submission is one stored support inquiry or staff application.
type Submission struct {
	ID        string         `json:"id"`
	Type      SubmissionType `json:"type"`
	Data      Payload        `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
	Read      bool           `json:"read"`
	AIReview  *AIReview      `json:"aiReview,omitempty"`
}

// Contact returns the support payload, or false for any other type.
func (s *Submission) Contact() (*ContactForm, bool) {
	c, ok := s.Data.(*ContactForm)
	return c, ok
}

// StaffApplication returns the staff application payload, or false for any other type.
func (s *Submission) StaffApplication() (*StaffApplicationForm, bool) {
	a, ok := s.Data.(*StaffApplicationForm)
	return a, ok
}

// DecodePayload decodes raw JSON into the payload shape selected by t.
func DecodePayload(t SubmissionType, raw []byte) (Payload, error) {
	switch t {
	case TypeSupport:
		var c ContactForm
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", t, err)
		}
		return &c, nil
	case TypeStaffApplication:
		var a StaffApplicationForm
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", t, err)
		}
		return &a, nil
	default:
		return nil, fmt.Errorf("unknown submission type %q", t)
	}
}

// UnmarshalJSON resolves the data field through the sibling type tag.
func (s *Submission) UnmarshalJSON(b []byte) error {
	var aux struct {
		ID        string          `json:"id"`
		Type      SubmissionType  `json:"type"`
		Data      json.RawMessage `json:"data"`
		Timestamp time.Time       `json:"timestamp"`
		Read      bool            `json:"read"`
		AIReview  *AIReview       `json:"aiReview,omitempty"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	data, err := DecodePayload(aux.Type, aux.Data)
	if err != nil {
		return err
	}
	*s = Submission{
		ID:        aux.ID,
		Type:      aux.Type,
		Data:      data,
		Timestamp: aux.Timestamp,
		Read:      aux.Read,
		AIReview:  aux.AIReview,
	}
	return nil
}
