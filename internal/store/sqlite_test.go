package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcliao/agent-state/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	err = s.Update(ctx, func(q Querier) error {
		_, e := q.ExecContext(ctx, `INSERT INTO goals (id, name, description, status, created_at) VALUES (?, ?, ?, ?, ?)`,
			s.NewID(), "G", "", "active", "2026-01-01T00:00:00Z")
		return e
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	s.Close()

	// Reopening must keep existing rows.
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	var n int
	err = s2.View(ctx, func(q Querier) error {
		return q.QueryRowContext(ctx, `SELECT COUNT(*) FROM goals`).Scan(&n)
	})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 goal after reopen, got %d", n)
	}
}

func TestOpenBadPath(t *testing.T) {
	// A regular file in the directory position makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	_, err := Open(filepath.Join(blocker, "test.db"))
	if err == nil {
		t.Fatal("expected error opening store under a file")
	}
	if model.KindOf(err) != model.KindStorageUnavailable {
		t.Errorf("expected storage_unavailable, got %v", err)
	}
}

func TestUpdateRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Update(ctx, func(q Querier) error {
		_, e := q.ExecContext(ctx, `INSERT INTO goals (id, name, description, status, created_at) VALUES (?, ?, ?, ?, ?)`,
			s.NewID(), "G", "", "active", "2026-01-01T00:00:00Z")
		if e != nil {
			return e
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var n int
	err = s.View(ctx, func(q Querier) error {
		return q.QueryRowContext(ctx, `SELECT COUNT(*) FROM goals`).Scan(&n)
	})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected rollback to leave 0 goals, got %d", n)
	}
}

func TestNewIDOrdered(t *testing.T) {
	s := newTestStore(t)

	prev := s.NewID()
	for i := 0; i < 100; i++ {
		id := s.NewID()
		if id <= prev {
			t.Fatalf("ids not increasing: %s then %s", prev, id)
		}
		prev = id
	}
}
