// internal/repository/repository.go
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"studio-site/internal/common/logger"
	"studio-site/internal/common/observability"
	"studio-site/internal/models"
	"studio-site/internal/store"
)

// Repository maps typed submissions onto store rows. Every method fails soft:
// store errors are logged and surface as nil, false, an empty slice or zero.
type Repository struct {
	store  store.Store
	logger logger.Logger
	obs    *observability.Observability
}

func New(s store.Store, log logger.Logger, obs *observability.Observability) *Repository {
	return &Repository{
		store:  s,
		logger: log.WithFields(map[string]interface{}{"component": "repository"}),
		obs:    obs,
	}
}

// Save stores payload as a new unread submission.
func (r *Repository) Save(ctx context.Context, payload models.Payload) (*models.Submission, bool) {
	data, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("failed to encode payload", map[string]interface{}{"type": payload.Type(), "error": err})
		return nil, false
	}

	var row *store.Row
	err = r.observe(ctx, "insert", func() error {
		var insertErr error
		row, insertErr = r.store.Insert(ctx, string(payload.Type()), data)
		return insertErr
	})
	if err != nil {
		r.logger.Error("failed to save submission", map[string]interface{}{"type": payload.Type(), "error": err})
		return nil, false
	}

	r.logger.Info("submission saved", map[string]interface{}{"id": row.ID, "type": payload.Type()})
	return &models.Submission{
		ID:        row.ID,
		Type:      payload.Type(),
		Data:      payload,
		Timestamp: row.Timestamp,
		Read:      false,
	}, true
}

// List returns every submission, newest first.
func (r *Repository) List(ctx context.Context) []models.Submission {
	var rows []store.Row
	err := r.observe(ctx, "select_all", func() error {
		var selectErr error
		rows, selectErr = r.store.SelectAll(ctx)
		return selectErr
	})
	if err != nil {
		r.logger.Error("failed to list submissions", map[string]interface{}{"error": err})
		return []models.Submission{}
	}

	subs := make([]models.Submission, 0, len(rows))
	for i := range rows {
		sub, err := fromRow(&rows[i])
		if err != nil {
			r.logger.Warn("skipping undecodable submission", map[string]interface{}{"id": rows[i].ID, "error": err})
			continue
		}
		subs = append(subs, *sub)
	}
	return subs
}

// Get fetches one submission.
func (r *Repository) Get(ctx context.Context, id string) (*models.Submission, bool) {
	var row *store.Row
	err := r.observe(ctx, "select_by_id", func() error {
		var selectErr error
		row, selectErr = r.store.SelectByID(ctx, id)
		return selectErr
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		r.logger.Error("failed to get submission", map[string]interface{}{"id": id, "error": err})
		return nil, false
	}

	sub, err := fromRow(row)
	if err != nil {
		r.logger.Warn("undecodable submission", map[string]interface{}{"id": id, "error": err})
		return nil, false
	}
	return sub, true
}

// SetRead is idempotent.
func (r *Repository) SetRead(ctx context.Context, id string, value bool) bool {
	err := r.observe(ctx, "update_read", func() error {
		return r.store.Update(ctx, id, store.Patch{Read: &value})
	})
	if err != nil {
		r.logger.Error("failed to update read state", map[string]interface{}{"id": id, "read": value, "error": err})
		return false
	}
	return true
}

// Delete removes one submission. A missing id still succeeds.
func (r *Repository) Delete(ctx context.Context, id string) bool {
	err := r.observe(ctx, "delete", func() error {
		return r.store.Delete(ctx, id)
	})
	if err != nil {
		r.logger.Error("failed to delete submission", map[string]interface{}{"id": id, "error": err})
		return false
	}
	r.logger.Info("submission deleted", map[string]interface{}{"id": id})
	return true
}

// DeleteAll removes every submission.
func (r *Repository) DeleteAll(ctx context.Context) bool {
	err := r.observe(ctx, "delete_all", func() error {
		return r.store.DeleteAll(ctx)
	})
	if err != nil {
		r.logger.Error("failed to clear submissions", map[string]interface{}{"error": err})
		return false
	}
	r.logger.Warn("all submissions deleted", nil)
	return true
}

// AttachReview overwrites the review on a staff application. Any other type,
// or a missing row, is refused.
func (r *Repository) AttachReview(ctx context.Context, id string, review models.AIReview) bool {
	sub, ok := r.Get(ctx, id)
	if !ok {
		return false
	}
	switch sub.Data.(type) {
	case *models.StaffApplicationForm:
	case *models.ContactForm:
		r.logger.Warn("refusing review on non staff submission", map[string]interface{}{"id": id, "type": sub.Type})
		return false
	}

	if review.Highlights == nil {
		review.Highlights = []string{}
	}
	raw, err := json.Marshal(review)
	if err != nil {
		r.logger.Error("failed to encode review", map[string]interface{}{"id": id, "error": err})
		return false
	}

	err = r.observe(ctx, "update_review", func() error {
		return r.store.Update(ctx, id, store.Patch{AIReview: raw})
	})
	if err != nil {
		r.logger.Error("failed to attach review", map[string]interface{}{"id": id, "error": err})
		return false
	}
	return true
}

// UnreadCount counts submissions with read=false.
func (r *Repository) UnreadCount(ctx context.Context) int {
	var n int
	err := r.observe(ctx, "count_unread", func() error {
		var countErr error
		n, countErr = r.store.CountByRead(ctx, false)
		return countErr
	})
	if err != nil {
		r.logger.Error("failed to count unread submissions", map[string]interface{}{"error": err})
		return 0
	}
	return n
}

// Ping reports whether the store is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func (r *Repository) observe(ctx context.Context, op string, fn func() error) error {
	start := time.Now()
	err := fn()

	recorded := err
	if errors.Is(err, store.ErrNotFound) {
		recorded = nil
	}
	r.obs.RecordStoreOperation(ctx, op, time.Since(start), recorded)
	return err
}

func fromRow(row *store.Row) (*models.Submission, error) {
	typ := models.SubmissionType(row.Type)
	data, err := models.DecodePayload(typ, row.Data)
	if err != nil {
		return nil, err
	}

	sub := &models.Submission{
		ID:        row.ID,
		Type:      typ,
		Data:      data,
		Timestamp: row.Timestamp,
		Read:      row.Read,
	}
	if len(row.AIReview) > 0 && string(row.AIReview) != "null" {
		var review models.AIReview
		if err := json.Unmarshal(row.AIReview, &review); err != nil {
			return nil, err
		}
		sub.AIReview = &review
	}
	return sub, nil
}
