package memory

import (
	"context"
	"strings"
	"time"

	"github.com/rcliao/agent-state/internal/model"
	"github.com/rcliao/agent-state/internal/store"
)

// ConceptParams holds input for a concept upsert.
type ConceptParams struct {
	Concept    string
	Definition string
	Confidence float64 // 0.0..1.0
}

// UpsertConcept inserts or fully replaces a concept. Last writer wins; no
// version history is kept.
func (m *Manager) UpsertConcept(ctx context.Context, p ConceptParams) (*model.SemanticMemoryItem, error) {
	if p.Concept == "" {
		return nil, model.NewError(model.KindInvalidArgument, "concept is required")
	}
	if p.Definition == "" {
		return nil, model.NewError(model.KindInvalidArgument, "definition is required")
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return nil, model.NewError(model.KindInvalidArgument, "confidence must be between 0.0 and 1.0")
	}

	item := &model.SemanticMemoryItem{
		Concept:    p.Concept,
		Definition: p.Definition,
		Confidence: p.Confidence,
		CreatedAt:  time.Now().UTC(),
	}

	err := m.store.Update(ctx, func(q store.Querier) error {
		return PutConcept(ctx, q, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// PutConcept writes a concept row, replacing any existing row for the same
// concept entirely.
func PutConcept(ctx context.Context, q store.Querier, item *model.SemanticMemoryItem) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO semantic_memory (concept, definition, confidence, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(concept) DO UPDATE SET
		   definition = excluded.definition,
		   confidence = excluded.confidence,
		   created_at = excluded.created_at`,
		item.Concept, item.Definition, item.Confidence, fmtTime(item.CreatedAt))
	if err != nil {
		return model.WrapError(model.KindStorageUnavailable, err, "upsert concept")
	}
	return nil
}

// Concepts returns the named concepts, or every concept when no names are
// given, ordered by concept.
func Concepts(ctx context.Context, q store.Querier, names ...string) ([]model.SemanticMemoryItem, error) {
	query := `SELECT concept, definition, confidence, created_at FROM semantic_memory`
	var args []any

	if len(names) > 0 {
		placeholders := strings.Repeat("?,", len(names))
		query += ` WHERE concept IN (` + placeholders[:len(placeholders)-1] + `)`
		for _, n := range names {
			args = append(args, n)
		}
	}
	query += ` ORDER BY concept`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, model.WrapError(model.KindStorageUnavailable, err, "query concepts")
	}
	defer rows.Close()

	var items []model.SemanticMemoryItem
	for rows.Next() {
		item, err := scanConcept(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanConcept(row scanner) (model.SemanticMemoryItem, error) {
	var item model.SemanticMemoryItem
	var createdAt string

	err := row.Scan(&item.Concept, &item.Definition, &item.Confidence, &createdAt)
	if err != nil {
		return item, model.WrapError(model.KindStorageUnavailable, err, "scan concept")
	}

	item.CreatedAt = parseTime(createdAt)
	return item, nil
}
