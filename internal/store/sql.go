// internal/store/sql.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SQLStore implements Store over database/sql for Postgres or SQLite.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
	newID   func() string
}

func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{
		db:      db,
		dialect: dialect,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// Migrate creates the submissions table and index when absent.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.Schema); err != nil {
		return fmt.Errorf("migrate %s schema: %w", s.dialect.Name, err)
	}
	return nil
}

func (s *SQLStore) Insert(ctx context.Context, typ string, data json.RawMessage) (*Row, error) {
	row := &Row{
		ID:        s.newID(),
		Type:      typ,
		Data:      data,
		Timestamp: s.now().UTC(),
	}

	query := s.dialect.bind(`
		INSERT INTO submissions (id, type, data, timestamp, read)
		VALUES ($1, $2, $3, $4, $5)
	`)
	_, err := s.db.ExecContext(ctx, query, row.ID, row.Type, string(data), s.dialect.timeArg(row.Timestamp), false)
	if err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}
	return row, nil
}

func (s *SQLStore) SelectAll(ctx context.Context) ([]Row, error) {
	query := fmt.Sprintf(`
		SELECT id, type, data, timestamp, read, ai_review
		FROM submissions
		ORDER BY timestamp DESC, %s ASC
	`, s.dialect.TieBreak)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select submissions: %w", err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return result, nil
}

func (s *SQLStore) SelectByID(ctx context.Context, id string) (*Row, error) {
	query := s.dialect.bind(`
		SELECT id, type, data, timestamp, read, ai_review
		FROM submissions
		WHERE id = $1
	`)
	r, err := scanRow(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *SQLStore) Update(ctx context.Context, id string, patch Patch) error {
	if patch.Empty() {
		return nil
	}

	var (
		sets []string
		args []interface{}
	)
	if patch.Read != nil {
		args = append(args, *patch.Read)
		sets = append(sets, fmt.Sprintf("read = $%d", len(args)))
	}
	if patch.AIReview != nil {
		args = append(args, string(patch.AIReview))
		sets = append(sets, fmt.Sprintf("ai_review = $%d", len(args)))
	}
	args = append(args, id)

	query := s.dialect.bind(fmt.Sprintf(
		"UPDATE submissions SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args)))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update submission: %w", err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	query := s.dialect.bind(`DELETE FROM submissions WHERE id = $1`)
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	return nil
}

func (s *SQLStore) DeleteAll(ctx context.Context) error {
	query := s.dialect.bind(`DELETE FROM submissions WHERE id <> $1`)
	if _, err := s.db.ExecContext(ctx, query, SentinelID); err != nil {
		return fmt.Errorf("delete all submissions: %w", err)
	}
	return nil
}

func (s *SQLStore) CountByRead(ctx context.Context, read bool) (int, error) {
	query := s.dialect.bind(`SELECT COUNT(*) FROM submissions WHERE read = $1`)
	var n int
	if err := s.db.QueryRowContext(ctx, query, read).Scan(&n); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRow(sc scanner) (*Row, error) {
	var (
		r        Row
		data     []byte
		ts       scanTime
		aiReview []byte
	)
	if err := sc.Scan(&r.ID, &r.Type, &data, &ts, &r.Read, &aiReview); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan submission: %w", err)
	}
	r.Data = json.RawMessage(data)
	r.Timestamp = ts.t
	if aiReview != nil {
		r.AIReview = json.RawMessage(aiReview)
	}
	return &r, nil
}
