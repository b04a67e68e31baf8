package memory

import (
	"context"

	"github.com/rcliao/agent-state/internal/model"
	"github.com/rcliao/agent-state/internal/store"
)

// Dump is a full copy of all memory tiers for backup. Expired working rows
// are included; a backup is not a read.
type Dump struct {
	Working    []model.WorkingMemoryItem    `json:"working"`
	Episodic   []model.EpisodicMemoryItem   `json:"episodic"`
	Semantic   []model.SemanticMemoryItem   `json:"semantic"`
	Procedural []model.ProceduralMemoryItem `json:"procedural"`
}

// DumpAll reads every memory row in insertion order.
func DumpAll(ctx context.Context, q store.Querier) (*Dump, error) {
	d := &Dump{}

	rows, err := q.QueryContext(ctx,
		`SELECT id, context_key, content, priority, created_at, expires_at
		 FROM working_memory ORDER BY id`)
	if err != nil {
		return nil, model.WrapError(model.KindStorageUnavailable, err, "dump working memory")
	}
	for rows.Next() {
		item, err := scanWorking(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		d.Working = append(d.Working, item)
	}
	rows.Close()

	rows, err = q.QueryContext(ctx,
		`SELECT id, event_type, content, significance, created_at
		 FROM episodic_memory ORDER BY id`)
	if err != nil {
		return nil, model.WrapError(model.KindStorageUnavailable, err, "dump episodic memory")
	}
	for rows.Next() {
		item, err := scanEpisode(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		d.Episodic = append(d.Episodic, item)
	}
	rows.Close()

	if d.Semantic, err = Concepts(ctx, q); err != nil {
		return nil, err
	}
	if d.Procedural, err = Skills(ctx, q); err != nil {
		return nil, err
	}
	return d, nil
}
