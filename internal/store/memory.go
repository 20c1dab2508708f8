// internal/store/memory.go
package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps rows in process. Used by tests and the memory driver.
type MemoryStore struct {
	mu   sync.RWMutex
	rows []Row
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) Insert(_ context.Context, typ string, data json.RawMessage) (*Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row := Row{
		ID:        uuid.New().String(),
		Type:      typ,
		Data:      append(json.RawMessage(nil), data...),
		Timestamp: m.now().UTC(),
	}
	m.rows = append(m.rows, row)
	out := row
	return &out, nil
}

func (m *MemoryStore) SelectAll(_ context.Context) ([]Row, error) {
	m.mu.RLock()
	out := make([]Row, len(m.rows))
	copy(out, m.rows)
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (m *MemoryStore) SelectByID(_ context.Context, id string) (*Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.rows {
		if r.ID == id {
			out := r
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) Update(_ context.Context, id string, patch Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.rows {
		if m.rows[i].ID != id {
			continue
		}
		if patch.Read != nil {
			m.rows[i].Read = *patch.Read
		}
		if patch.AIReview != nil {
			m.rows[i].AIReview = append(json.RawMessage(nil), patch.AIReview...)
		}
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

func (m *MemoryStore) DeleteAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.ID == SentinelID {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

func (m *MemoryStore) CountByRead(_ context.Context, read bool) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, r := range m.rows {
		if r.Read == read {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }
