// internal/journal/journal.go
//
// Results journal backed by SQLite.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout).
//   - Applying embedded migrations from sql/*.sql (idempotent, recorded in _migrations).
//   - Appending solved-level and hint events.
//   - Aggregating per-answer statistics.
//
// The journal is write-only from the game's point of view: sessions are
// never rebuilt from it.

package journal

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

//go:embed sql/*.sql
var migrations embed.FS

// ErrDisabled is returned by Disabled for reads.
var ErrDisabled = errors.New("journal: disabled")

// Kind labels an event row.
type Kind string

const (
	KindSolved Kind = "solved"
	KindHint   Kind = "hint"
)

// Event is one journal row.
type Event struct {
	SessionID  string
	Kind       Kind
	LevelIndex int
	Answer     string
	Diamonds   int // balance after the event
	HintsUsed  int // count after the event
	Cost       int // diamonds spent, hints only
}

// AnswerStats aggregates events for one answer.
type AnswerStats struct {
	Answer       string `json:"answer"`
	Solves       int    `json:"solves"`
	Hints        int    `json:"hints"`
	DiamondsPaid int    `json:"diamondsPaid"`
}

// Journal appends events to SQLite.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if missing) the database at path and migrates it.
func Open(ctx context.Context, path string) (*Journal, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

// openDB ensures the parent directory exists and opens with WAL journaling.
func openDB(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// migrate applies each embedded sql/*.sql file once, in lexical order.
func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(migrations, "sql/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		text, err := migrations.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, string(text)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

// Record appends e.
func (j *Journal) Record(ctx context.Context, e Event) error {
	_, err := j.db.ExecContext(ctx, `
        INSERT INTO events (session_id, kind, level_index, answer, diamonds, hints_used, cost)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, string(e.Kind), e.LevelIndex, e.Answer, e.Diamonds, e.HintsUsed, e.Cost,
	)
	return err
}

// Stats returns per-answer totals ordered by answer.
func (j *Journal) Stats(ctx context.Context) ([]AnswerStats, error) {
	rows, err := j.db.QueryContext(ctx, `
        SELECT answer,
               SUM(CASE WHEN kind = 'solved' THEN 1 ELSE 0 END),
               SUM(CASE WHEN kind = 'hint' THEN 1 ELSE 0 END),
               SUM(cost)
        FROM events
        GROUP BY answer
        ORDER BY answer ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AnswerStats{}
	for rows.Next() {
		var s AnswerStats
		if err := rows.Scan(&s.Answer, &s.Solves, &s.Hints, &s.DiamondsPaid); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (j *Journal) Close() error { return j.db.Close() }

// Disabled stands in when no database is configured: writes are dropped
// and reads fail with ErrDisabled.
type Disabled struct{}

func (Disabled) Record(context.Context, Event) error { return nil }

func (Disabled) Stats(context.Context) ([]AnswerStats, error) { return nil, ErrDisabled }

func (Disabled) Close() error { return nil }
