package memory

import (
	"context"
	"strings"
	"time"

	"github.com/rcliao/agent-state/internal/model"
	"github.com/rcliao/agent-state/internal/store"
)

// EpisodeParams holds input for appending an episode.
type EpisodeParams struct {
	EventType    string
	Content      string
	Significance float64 // 0.0..1.0
}

// RecordEpisode appends an entry to the episodic log. Episodes are never
// updated or expired.
func (m *Manager) RecordEpisode(ctx context.Context, p EpisodeParams) (*model.EpisodicMemoryItem, error) {
	if p.EventType == "" {
		return nil, model.NewError(model.KindInvalidArgument, "event_type is required")
	}
	if p.Content == "" {
		return nil, model.NewError(model.KindInvalidArgument, "content is required")
	}
	if p.Significance < 0 || p.Significance > 1 {
		return nil, model.NewError(model.KindInvalidArgument, "significance must be between 0.0 and 1.0")
	}

	item := &model.EpisodicMemoryItem{
		ID:           m.store.NewID(),
		EventType:    p.EventType,
		Content:      p.Content,
		Significance: p.Significance,
		CreatedAt:    time.Now().UTC(),
	}

	err := m.store.Update(ctx, func(q store.Querier) error {
		return PutEpisode(ctx, q, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// PutEpisode inserts an episodic row as-is, for composition inside a
// caller-owned transaction.
func PutEpisode(ctx context.Context, q store.Querier, item *model.EpisodicMemoryItem) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO episodic_memory (id, event_type, content, significance, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.EventType, item.Content, item.Significance, fmtTime(item.CreatedAt))
	if err != nil {
		return model.WrapError(model.KindStorageUnavailable, err, "insert episode")
	}
	return nil
}

// EpisodeQuery filters the episodic log.
type EpisodeQuery struct {
	EventType           string
	MinSignificance     float64
	Limit               int  // <= 0 means no limit
	OrderBySignificance bool // default is most recent first
}

// Episodes returns log entries matching the query.
func Episodes(ctx context.Context, q store.Querier, p EpisodeQuery) ([]model.EpisodicMemoryItem, error) {
	where := []string{"significance >= ?"}
	args := []any{p.MinSignificance}

	if p.EventType != "" {
		where = append(where, "event_type = ?")
		args = append(args, p.EventType)
	}

	order := "created_at DESC, id DESC"
	if p.OrderBySignificance {
		order = "significance DESC, id DESC"
	}

	query := `SELECT id, event_type, content, significance, created_at
	          FROM episodic_memory WHERE ` + strings.Join(where, " AND ") + `
	          ORDER BY ` + order
	if p.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, p.Limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, model.WrapError(model.KindStorageUnavailable, err, "query episodes")
	}
	defer rows.Close()

	var items []model.EpisodicMemoryItem
	for rows.Next() {
		item, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// RecentEpisodes returns log entries for the given query through a fresh
// read transaction.
func (m *Manager) RecentEpisodes(ctx context.Context, p EpisodeQuery) ([]model.EpisodicMemoryItem, error) {
	var items []model.EpisodicMemoryItem
	err := m.store.View(ctx, func(q store.Querier) error {
		var e error
		items, e = Episodes(ctx, q, p)
		return e
	})
	return items, err
}

func scanEpisode(row scanner) (model.EpisodicMemoryItem, error) {
	var item model.EpisodicMemoryItem
	var createdAt string

	err := row.Scan(&item.ID, &item.EventType, &item.Content, &item.Significance, &createdAt)
	if err != nil {
		return item, model.WrapError(model.KindStorageUnavailable, err, "scan episode")
	}

	item.CreatedAt = parseTime(createdAt)
	return item, nil
}
