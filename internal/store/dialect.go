// internal/store/dialect.go
package store

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"time"
)

// Dialect captures the differences between Postgres and SQLite that the
// submissions queries care about.
type Dialect struct {
	Name string
	// Schema creates the table if it does not exist.
	Schema string
	// TieBreak orders rows sharing a timestamp in insertion order.
	TieBreak string
	// positional rewrites $N placeholders when the driver wants ?.
	positional bool
	// textTime stores timestamps as fixed-width UTC text.
	textTime bool
}

var Postgres = Dialect{
	Name: "postgres",
	Schema: `
	CREATE TABLE IF NOT EXISTS submissions (
		seq        BIGSERIAL,
		id         UUID PRIMARY KEY,
		type       TEXT NOT NULL,
		data       JSONB NOT NULL,
		timestamp  TIMESTAMPTZ NOT NULL DEFAULT now(),
		read       BOOLEAN NOT NULL DEFAULT false,
		ai_review  JSONB
	);
	CREATE INDEX IF NOT EXISTS submissions_timestamp_idx ON submissions (timestamp DESC);`,
	TieBreak: "seq",
}

var SQLite = Dialect{
	Name: "sqlite",
	Schema: `
	CREATE TABLE IF NOT EXISTS submissions (
		id         TEXT PRIMARY KEY,
		type       TEXT NOT NULL,
		data       TEXT NOT NULL,
		timestamp  TEXT NOT NULL,
		read       INTEGER NOT NULL DEFAULT 0,
		ai_review  TEXT
	);
	CREATE INDEX IF NOT EXISTS submissions_timestamp_idx ON submissions (timestamp DESC);`,
	TieBreak:   "rowid",
	positional: true,
	textTime:   true,
}

var placeholderRe = regexp.MustCompile(`\$\d+`)

// bind adapts a query written with $N placeholders. Queries in this package
// use each placeholder once and in ascending order.
func (d Dialect) bind(query string) string {
	if !d.positional {
		return query
	}
	return placeholderRe.ReplaceAllString(query, "?")
}

// sortableTime is fixed width so lexical order equals chronological order.
const sortableTime = "2006-01-02T15:04:05.000000000Z"

func (d Dialect) timeArg(t time.Time) driver.Value {
	if d.textTime {
		return t.UTC().Format(sortableTime)
	}
	return t.UTC()
}

// scanTime accepts whatever the driver hands back for the timestamp column.
type scanTime struct {
	t time.Time
}

func (s *scanTime) Scan(v interface{}) error {
	switch x := v.(type) {
	case time.Time:
		s.t = x.UTC()
	case string:
		return s.parse(x)
	case []byte:
		return s.parse(string(x))
	case nil:
		s.t = time.Time{}
	default:
		return fmt.Errorf("unsupported timestamp type %T", v)
	}
	return nil
}

func (s *scanTime) parse(v string) error {
	for _, layout := range []string{sortableTime, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00"} {
		if t, err := time.Parse(layout, v); err == nil {
			s.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", v)
}
