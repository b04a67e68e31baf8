// Package store owns the on-disk state: schema creation, durability, and the
// transaction primitive every component runs its statements through.
package store

import (
	"context"
	"database/sql"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/agent-state/internal/model"
)

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Components write their statements against it so the same code runs inside
// a composed transaction or standalone.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the single embedded SQLite database holding all memory tiers and
// the goal/task tables.
type Store struct {
	db      *sql.DB
	entropy *ulid.MonotonicEntropy
}

// Open opens or creates the database at the given path and ensures the schema
// exists. Schema creation is idempotent; existing data is never dropped.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, model.WrapError(model.KindStorageUnavailable, err, "create db dir")
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, model.WrapError(model.KindStorageUnavailable, err, "open db")
	}

	// One connection serializes all transactions in-process, which makes
	// every read-then-write operation race-free without row locking.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}

	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS working_memory (
		id          TEXT PRIMARY KEY,
		context_key TEXT NOT NULL,
		content     TEXT NOT NULL,
		priority    INTEGER NOT NULL DEFAULT 5,
		created_at  TEXT NOT NULL,
		expires_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_working_key ON working_memory(context_key);
	CREATE INDEX IF NOT EXISTS idx_working_expires ON working_memory(expires_at);

	CREATE TABLE IF NOT EXISTS episodic_memory (
		id           TEXT PRIMARY KEY,
		event_type   TEXT NOT NULL,
		content      TEXT NOT NULL,
		significance REAL NOT NULL DEFAULT 0.5,
		created_at   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_episodic_type ON episodic_memory(event_type);
	CREATE INDEX IF NOT EXISTS idx_episodic_created ON episodic_memory(created_at DESC);

	CREATE TABLE IF NOT EXISTS semantic_memory (
		concept    TEXT PRIMARY KEY,
		definition TEXT NOT NULL,
		confidence REAL NOT NULL DEFAULT 0.5,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS procedural_memory (
		id              TEXT PRIMARY KEY,
		skill_name      TEXT NOT NULL UNIQUE,
		steps           TEXT NOT NULL,
		success_rate    REAL NOT NULL DEFAULT 0,
		execution_count INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS goals (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'active',
		created_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id         TEXT PRIMARY KEY,
		goal_id    TEXT NOT NULL REFERENCES goals(id),
		title      TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'pending',
		priority   INTEGER NOT NULL DEFAULT 5,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_goal ON tasks(goal_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return model.WrapError(model.KindStorageUnavailable, err, "ensure schema")
	}
	return nil
}

// NewID returns a ULID. Monotonic entropy keeps IDs generated in the same
// millisecond increasing, so lexicographic order is insertion order. The
// task selection tie-break relies on this.
func (s *Store) NewID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// View runs fn inside a single transaction so composed reads observe one
// consistent point in time.
func (s *Store) View(ctx context.Context, fn func(q Querier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.WrapError(model.KindStorageUnavailable, err, "begin tx")
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return model.WrapError(model.KindStorageUnavailable, err, "commit tx")
	}
	return nil
}

const busyRetries = 2

// Update runs fn inside a write transaction: full commit, or full rollback on
// any error or cancellation. Lock contention is retried a bounded number of
// times before surfacing as conflict.
func (s *Store) Update(ctx context.Context, fn func(q Querier) error) error {
	var err error
	for attempt := 0; attempt <= busyRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 25 * time.Millisecond)
		}
		err = s.update(ctx, fn)
		if !isBusy(err) {
			return err
		}
	}
	return model.WrapError(model.KindConflict, err, "write contention")
}

func (s *Store) update(ctx context.Context, fn func(q Querier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		if isBusy(err) {
			return err
		}
		return model.WrapError(model.KindStorageUnavailable, err, "begin tx")
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		if isBusy(err) {
			return err
		}
		return model.WrapError(model.KindStorageUnavailable, err, "commit tx")
	}
	return nil
}

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
