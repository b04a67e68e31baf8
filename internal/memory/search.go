package memory

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rcliao/agent-state/internal/model"
	"github.com/rcliao/agent-state/internal/store"
)

// Result is a search hit tagged with its originating tier. Key carries the
// tier's identity field: context_key, event_type, concept, or skill_name.
type Result struct {
	Tier      string    `json:"tier"`
	ID        string    `json:"id,omitempty"`
	Key       string    `json:"key"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Search performs a case-insensitive substring match over the selected
// tiers. An empty query matches everything in scope. Within a tier results
// are stable in insertion order; expired working items never match.
func (m *Manager) Search(ctx context.Context, query, tier string) ([]Result, error) {
	if tier == "" {
		tier = model.TierAll
	}
	if !model.ValidTiers[tier] {
		return nil, model.NewError(model.KindInvalidArgument, "unknown tier %q", tier)
	}

	pattern := "%" + strings.ToLower(query) + "%"

	var results []Result
	err := m.store.View(ctx, func(q store.Querier) error {
		for _, t := range []struct {
			name string
			fn   func(context.Context, store.Querier, string) ([]Result, error)
		}{
			{model.TierWorking, searchWorking},
			{model.TierEpisodic, searchEpisodic},
			{model.TierSemantic, searchSemantic},
			{model.TierProcedural, searchProcedural},
		} {
			if tier != model.TierAll && tier != t.name {
				continue
			}
			hits, err := t.fn(ctx, q, pattern)
			if err != nil {
				return err
			}
			results = append(results, hits...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func searchWorking(ctx context.Context, q store.Querier, pattern string) ([]Result, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, context_key, content, created_at FROM working_memory
		 WHERE expires_at > ? AND (LOWER(context_key) LIKE ? OR LOWER(content) LIKE ?)
		 ORDER BY id`,
		fmtTime(time.Now()), pattern, pattern)
	if err != nil {
		return nil, model.WrapError(model.KindStorageUnavailable, err, "search working memory")
	}
	return collectResults(rows, model.TierWorking)
}

func searchEpisodic(ctx context.Context, q store.Querier, pattern string) ([]Result, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, event_type, content, created_at FROM episodic_memory
		 WHERE LOWER(event_type) LIKE ? OR LOWER(content) LIKE ?
		 ORDER BY id`,
		pattern, pattern)
	if err != nil {
		return nil, model.WrapError(model.KindStorageUnavailable, err, "search episodic memory")
	}
	return collectResults(rows, model.TierEpisodic)
}

func searchSemantic(ctx context.Context, q store.Querier, pattern string) ([]Result, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT '', concept, definition, created_at FROM semantic_memory
		 WHERE LOWER(concept) LIKE ? OR LOWER(definition) LIKE ?
		 ORDER BY rowid`,
		pattern, pattern)
	if err != nil {
		return nil, model.WrapError(model.KindStorageUnavailable, err, "search semantic memory")
	}
	return collectResults(rows, model.TierSemantic)
}

func searchProcedural(ctx context.Context, q store.Querier, pattern string) ([]Result, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, skill_name, steps, created_at FROM procedural_memory
		 WHERE LOWER(skill_name) LIKE ? OR LOWER(steps) LIKE ?
		 ORDER BY id`,
		pattern, pattern)
	if err != nil {
		return nil, model.WrapError(model.KindStorageUnavailable, err, "search procedural memory")
	}
	return collectResults(rows, model.TierProcedural)
}

func collectResults(rows *sql.Rows, tier string) ([]Result, error) {
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Key, &r.Content, &createdAt); err != nil {
			return nil, model.WrapError(model.KindStorageUnavailable, err, "scan search result")
		}
		r.Tier = tier
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}
	return results, rows.Err()
}
