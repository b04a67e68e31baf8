// Package memory implements the four-tier memory manager: working, episodic,
// semantic, and procedural storage, each with its own identity and retention
// rule. Working memory expires, episodic and procedural accumulate, semantic
// deduplicates by concept.
package memory

import (
	"context"
	"strings"
	"time"

	"github.com/rcliao/agent-state/internal/model"
	"github.com/rcliao/agent-state/internal/store"
)

// Manager exposes the memory tier operations over an injected store handle.
type Manager struct {
	store *store.Store
}

// NewManager creates a Manager backed by the given store.
func NewManager(s *store.Store) *Manager {
	return &Manager{store: s}
}

// RememberParams holds input for storing a working-memory item.
type RememberParams struct {
	ContextKey string
	Content    string
	Priority   int // 1..10
	TTL        time.Duration
}

// RememberWorking stores a working-memory item expiring after the given TTL.
func (m *Manager) RememberWorking(ctx context.Context, p RememberParams) (*model.WorkingMemoryItem, error) {
	if p.ContextKey == "" {
		return nil, model.NewError(model.KindInvalidArgument, "context_key is required")
	}
	if p.Content == "" {
		return nil, model.NewError(model.KindInvalidArgument, "content is required")
	}
	if p.TTL <= 0 {
		return nil, model.NewError(model.KindInvalidArgument, "ttl must be positive")
	}
	if p.Priority < 1 || p.Priority > 10 {
		return nil, model.NewError(model.KindInvalidArgument, "priority must be between 1 and 10")
	}

	now := time.Now().UTC()
	item := &model.WorkingMemoryItem{
		ID:         m.store.NewID(),
		ContextKey: p.ContextKey,
		Content:    p.Content,
		Priority:   p.Priority,
		CreatedAt:  now,
		ExpiresAt:  now.Add(p.TTL),
	}

	err := m.store.Update(ctx, func(q store.Querier) error {
		return PutWorking(ctx, q, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// PutWorking inserts a working-memory row as-is. The session coordinator and
// tests use it to compose writes inside a caller-owned transaction.
func PutWorking(ctx context.Context, q store.Querier, item *model.WorkingMemoryItem) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO working_memory (id, context_key, content, priority, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.ContextKey, item.Content, item.Priority,
		fmtTime(item.CreatedAt), fmtTime(item.ExpiresAt))
	if err != nil {
		return model.WrapError(model.KindStorageUnavailable, err, "insert working memory")
	}
	return nil
}

// RecallWorking returns all non-expired items, optionally filtered by
// context key, ordered by priority descending then recency descending.
func (m *Manager) RecallWorking(ctx context.Context, contextKey string) ([]model.WorkingMemoryItem, error) {
	var items []model.WorkingMemoryItem
	err := m.store.View(ctx, func(q store.Querier) error {
		var e error
		items, e = RecallWorking(ctx, q, contextKey, 0)
		return e
	})
	return items, err
}

// RecallWorking is the transaction-scoped read behind Manager.RecallWorking.
// limit <= 0 means no limit.
func RecallWorking(ctx context.Context, q store.Querier, contextKey string, limit int) ([]model.WorkingMemoryItem, error) {
	where := []string{"expires_at > ?"}
	args := []any{fmtTime(time.Now())}

	if contextKey != "" {
		where = append(where, "context_key = ?")
		args = append(args, contextKey)
	}

	query := `SELECT id, context_key, content, priority, created_at, expires_at
	          FROM working_memory WHERE ` + strings.Join(where, " AND ") + `
	          ORDER BY priority DESC, created_at DESC, id DESC`
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, model.WrapError(model.KindStorageUnavailable, err, "recall working memory")
	}
	defer rows.Close()

	var items []model.WorkingMemoryItem
	for rows.Next() {
		item, err := scanWorking(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ReapExpired physically deletes expired working-memory rows and returns the
// number removed. Reclamation never happens implicitly inside a read.
func (m *Manager) ReapExpired(ctx context.Context) (int64, error) {
	var reaped int64
	err := m.store.Update(ctx, func(q store.Querier) error {
		res, err := q.ExecContext(ctx,
			`DELETE FROM working_memory WHERE expires_at <= ?`, fmtTime(time.Now()))
		if err != nil {
			return model.WrapError(model.KindStorageUnavailable, err, "reap working memory")
		}
		reaped, _ = res.RowsAffected()
		return nil
	})
	return reaped, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWorking(row scanner) (model.WorkingMemoryItem, error) {
	var item model.WorkingMemoryItem
	var createdAt, expiresAt string

	err := row.Scan(&item.ID, &item.ContextKey, &item.Content, &item.Priority, &createdAt, &expiresAt)
	if err != nil {
		return item, model.WrapError(model.KindStorageUnavailable, err, "scan working memory")
	}

	item.CreatedAt = parseTime(createdAt)
	item.ExpiresAt = parseTime(expiresAt)
	return item, nil
}

// Timestamps are stored as RFC3339 UTC text. Constant width keeps SQLite's
// lexicographic TEXT comparison equivalent to time order; sub-second recency
// ties fall back to the ULID id.
func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
