// Package history keeps a local SQLite journal of timer intervals and of
// the pomodoros logged through the handoff.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"pomotodo/internal/handoff"
)

// Interval outcomes.
const (
	OutcomeCompleted = "completed"
	OutcomeQuit      = "quit"
	// OutcomeSkipped marks an interval replaced by another start.
	OutcomeSkipped = "skipped"
)

const schema = `
CREATE TABLE IF NOT EXISTS intervals (
	id TEXT PRIMARY KEY,
	mode TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	ended_at INTEGER NOT NULL,
	outcome TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS intervals_started_at ON intervals (started_at);
CREATE TABLE IF NOT EXISTS pomos (
	id TEXT PRIMARY KEY,
	remote_id TEXT NOT NULL,
	todo_id TEXT NOT NULL,
	description TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	length_seconds INTEGER NOT NULL,
	completed INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS pomos_started_at ON pomos (started_at);
`

// Interval is one journaled timer interval.
type Interval struct {
	ID      string
	Mode    string
	Start   time.Time
	End     time.Time
	Outcome string
}

// Summary aggregates one calendar day.
type Summary struct {
	Day            time.Time
	WorkIntervals  int
	WorkTime       time.Duration
	BreakTime      time.Duration
	Pomos          int
	CompletedTodos int
}

// Store is the journal database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal at path. ":memory:" is accepted.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: alive.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (store *Store) Close() error {
	return store.db.Close()
}

// RecordInterval stores an interval. An empty ID is generated.
func (store *Store) RecordInterval(ctx context.Context, interval Interval) error {
	if interval.ID == "" {
		interval.ID = uuid.NewString()
	}
	_, err := store.db.ExecContext(ctx,
		`INSERT INTO intervals (id, mode, started_at, ended_at, outcome) VALUES (?, ?, ?, ?, ?)`,
		interval.ID, interval.Mode, interval.Start.UnixMilli(), interval.End.UnixMilli(), interval.Outcome)
	if err != nil {
		return fmt.Errorf("insert interval: %w", err)
	}
	return nil
}

// RecordPomo implements handoff.Journal.
func (store *Store) RecordPomo(ctx context.Context, entry handoff.Entry) error {
	completed := 0
	if entry.Completed {
		completed = 1
	}
	_, err := store.db.ExecContext(ctx,
		`INSERT INTO pomos (id, remote_id, todo_id, description, started_at, length_seconds, completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), entry.PomoID, entry.TodoID, entry.Description,
		entry.Start.UnixMilli(), int64(entry.Length/time.Second), completed)
	if err != nil {
		return fmt.Errorf("insert pomo: %w", err)
	}
	return nil
}

// Recent returns the latest intervals, newest first.
func (store *Store) Recent(ctx context.Context, limit int) ([]Interval, error) {
	rows, err := store.db.QueryContext(ctx,
		`SELECT id, mode, started_at, ended_at, outcome FROM intervals ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query intervals: %w", err)
	}
	defer rows.Close()

	var intervals []Interval
	for rows.Next() {
		var (
			interval   Interval
			start, end int64
		)
		if err := rows.Scan(&interval.ID, &interval.Mode, &start, &end, &interval.Outcome); err != nil {
			return nil, fmt.Errorf("scan interval: %w", err)
		}
		interval.Start = time.UnixMilli(start)
		interval.End = time.UnixMilli(end)
		intervals = append(intervals, interval)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate intervals: %w", err)
	}
	return intervals, nil
}

// Summary aggregates the calendar day containing day, in day's location.
func (store *Store) Summary(ctx context.Context, day time.Time) (Summary, error) {
	year, month, date := day.Date()
	from := time.Date(year, month, date, 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)
	summary := Summary{Day: from}

	rows, err := store.db.QueryContext(ctx,
		`SELECT mode, outcome, COUNT(*), COALESCE(SUM(ended_at - started_at), 0)
		 FROM intervals WHERE started_at >= ? AND started_at < ? GROUP BY mode, outcome`,
		from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return summary, fmt.Errorf("query interval summary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			mode, outcome string
			count         int
			millis        int64
		)
		if err := rows.Scan(&mode, &outcome, &count, &millis); err != nil {
			return summary, fmt.Errorf("scan interval summary: %w", err)
		}
		spent := time.Duration(millis) * time.Millisecond
		if mode == "work" {
			summary.WorkTime += spent
			if outcome == OutcomeCompleted {
				summary.WorkIntervals += count
			}
		} else {
			summary.BreakTime += spent
		}
	}
	if err := rows.Err(); err != nil {
		return summary, fmt.Errorf("iterate interval summary: %w", err)
	}

	err = store.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(completed), 0) FROM pomos WHERE started_at >= ? AND started_at < ?`,
		from.UnixMilli(), to.UnixMilli()).Scan(&summary.Pomos, &summary.CompletedTodos)
	if err != nil {
		return summary, fmt.Errorf("query pomo summary: %w", err)
	}
	return summary, nil
}
