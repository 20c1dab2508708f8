// internal/store/store.go
// Package store is the row-oriented persistence for the submissions table.
// It knows nothing about payload shapes: data and ai_review are opaque JSON.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

const TableName = "submissions"

// SentinelID is excluded by DeleteAll's predicate; no real row ever carries it.
const SentinelID = "00000000-0000-0000-0000-000000000000"

var ErrNotFound = errors.New("SUBMISSION_NOT_FOUND")

// Row mirrors one record of the submissions table.
type Row struct {
	ID        string
	Type      string
	Data      json.RawMessage
	Timestamp time.Time
	Read      bool
	AIReview  json.RawMessage // nil when the column is NULL
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Read     *bool
	AIReview json.RawMessage
}

// Empty reports whether the patch would change nothing.
func (p Patch) Empty() bool {
	return p.Read == nil && p.AIReview == nil
}

// Store is the submissions table collaborator.
type Store interface {
	// Insert creates a row with read=false and store-generated id and timestamp.
	Insert(ctx context.Context, typ string, data json.RawMessage) (*Row, error)
	// SelectAll returns every row, newest timestamp first, ties in insertion order.
	SelectAll(ctx context.Context) ([]Row, error)
	// SelectByID returns ErrNotFound when no row matches.
	SelectByID(ctx context.Context, id string) (*Row, error)
	// Update applies patch to the row; a missing id is not an error.
	Update(ctx context.Context, id string, patch Patch) error
	// Delete removes one row; a missing id is not an error.
	Delete(ctx context.Context, id string) error
	// DeleteAll removes every row.
	DeleteAll(ctx context.Context) error
	// CountByRead counts rows whose read flag equals read.
	CountByRead(ctx context.Context, read bool) (int, error)
	Ping(ctx context.Context) error
}
