// internal/store/sql_test.go
package store

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func createTestStore(t *testing.T, dialect Dialect) (*SQLStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewSQLStore(db, dialect)
	s.now = func() time.Time { return fixedNow }
	s.newID = func() string { return "11111111-2222-3333-4444-555555555555" }
	return s, mock
}

func submissionColumns() []string {
	return []string{"id", "type", "data", "timestamp", "read", "ai_review"}
}

// ==========================
// Insert
// ==========================

func TestSQLStore_Insert(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		queryRe string
		tsArg   driver.Value
	}{
		{
			name:    "postgres keeps numbered placeholders",
			dialect: Postgres,
			queryRe: `VALUES \(\$1, \$2, \$3, \$4, \$5\)`,
			tsArg:   fixedNow,
		},
		{
			name:    "sqlite rewrites placeholders and stores text time",
			dialect: SQLite,
			queryRe: `VALUES \(\?, \?, \?, \?, \?\)`,
			tsArg:   "2025-03-01T12:00:00.000000000Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := createTestStore(t, tt.dialect)
			data := json.RawMessage(`{"fullName":"Ann"}`)

			mock.ExpectExec(tt.queryRe).
				WithArgs("11111111-2222-3333-4444-555555555555", "support", string(data), tt.tsArg, false).
				WillReturnResult(sqlmock.NewResult(1, 1))

			row, err := s.Insert(context.Background(), "support", data)
			require.NoError(t, err)
			assert.Equal(t, "11111111-2222-3333-4444-555555555555", row.ID)
			assert.Equal(t, fixedNow, row.Timestamp)
			assert.False(t, row.Read)
			assert.Nil(t, row.AIReview)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLStore_Insert_Error(t *testing.T) {
	s, mock := createTestStore(t, Postgres)
	mock.ExpectExec("INSERT INTO submissions").WillReturnError(errors.New("connection refused"))

	row, err := s.Insert(context.Background(), "support", json.RawMessage(`{}`))
	assert.Error(t, err)
	assert.Nil(t, row)
}

// ==========================
// Select
// ==========================

func TestSQLStore_SelectAll(t *testing.T) {
	s, mock := createTestStore(t, Postgres)

	later := fixedNow.Add(time.Minute)
	rows := sqlmock.NewRows(submissionColumns()).
		AddRow("b", "staff_application", []byte(`{"fullName":"Bo"}`), later, true, []byte(`{"score":7,"highlights":[]}`)).
		AddRow("a", "support", []byte(`{"fullName":"Ann"}`), fixedNow, false, nil)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY timestamp DESC, seq ASC")).WillReturnRows(rows)

	result, err := s.SelectAll(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, "b", result[0].ID)
	assert.True(t, result[0].Read)
	assert.JSONEq(t, `{"score":7,"highlights":[]}`, string(result[0].AIReview))
	assert.Equal(t, later, result[0].Timestamp)

	assert.Equal(t, "a", result[1].ID)
	assert.Nil(t, result[1].AIReview)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_SelectAll_SQLiteTextTimestamps(t *testing.T) {
	s, mock := createTestStore(t, SQLite)

	rows := sqlmock.NewRows(submissionColumns()).
		AddRow("a", "support", `{"fullName":"Ann"}`, "2025-03-01T12:00:00.000000000Z", int64(0), nil)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY timestamp DESC, rowid ASC")).WillReturnRows(rows)

	result, err := s.SelectAll(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, fixedNow, result[0].Timestamp)
	assert.False(t, result[0].Read)
}

func TestSQLStore_SelectByID_NotFound(t *testing.T) {
	s, mock := createTestStore(t, Postgres)
	mock.ExpectQuery("WHERE id = \\$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(submissionColumns()))

	row, err := s.SelectByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, row)
}

// ==========================
// Update / Delete
// ==========================

func TestSQLStore_Update(t *testing.T) {
	read := true

	tests := []struct {
		name  string
		patch Patch
		setup func(mock sqlmock.Sqlmock)
	}{
		{
			name:  "read only",
			patch: Patch{Read: &read},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("UPDATE submissions SET read = $1 WHERE id = $2")).
					WithArgs(true, "id-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:  "review only",
			patch: Patch{AIReview: json.RawMessage(`{"score":5}`)},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("UPDATE submissions SET ai_review = $1 WHERE id = $2")).
					WithArgs(`{"score":5}`, "id-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:  "empty patch issues no query",
			patch: Patch{},
			setup: func(mock sqlmock.Sqlmock) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := createTestStore(t, Postgres)
			tt.setup(mock)

			require.NoError(t, s.Update(context.Background(), "id-1", tt.patch))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLStore_DeleteAll_UsesSentinelPredicate(t *testing.T) {
	s, mock := createTestStore(t, Postgres)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM submissions WHERE id <> $1")).
		WithArgs(SentinelID).
		WillReturnResult(sqlmock.NewResult(0, 4))

	require.NoError(t, s.DeleteAll(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_Delete_MissingRowIsNotAnError(t *testing.T) {
	s, mock := createTestStore(t, SQLite)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM submissions WHERE id = ?")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.Delete(context.Background(), "missing"))
}

func TestSQLStore_CountByRead(t *testing.T) {
	s, mock := createTestStore(t, Postgres)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM submissions WHERE read = $1")).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := s.CountByRead(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSQLStore_Migrate(t *testing.T) {
	s, mock := createTestStore(t, SQLite)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS submissions").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
