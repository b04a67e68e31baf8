package memory

import (
	"context"
	"time"

	"github.com/rcliao/agent-state/internal/model"
	"github.com/rcliao/agent-state/internal/store"
)

// Status holds per-tier item counts. The working count reflects only
// non-expired items.
type Status struct {
	Working    int `json:"working"`
	Episodic   int `json:"episodic"`
	Semantic   int `json:"semantic"`
	Procedural int `json:"procedural"`
	Total      int `json:"total"`
}

// Status counts the items in each tier.
func (m *Manager) Status(ctx context.Context) (*Status, error) {
	st := &Status{}
	err := m.store.View(ctx, func(q store.Querier) error {
		counts := []struct {
			dest  *int
			query string
			args  []any
		}{
			{&st.Working, `SELECT COUNT(*) FROM working_memory WHERE expires_at > ?`, []any{fmtTime(time.Now())}},
			{&st.Episodic, `SELECT COUNT(*) FROM episodic_memory`, nil},
			{&st.Semantic, `SELECT COUNT(*) FROM semantic_memory`, nil},
			{&st.Procedural, `SELECT COUNT(*) FROM procedural_memory`, nil},
		}
		for _, c := range counts {
			if err := q.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
				return model.WrapError(model.KindStorageUnavailable, err, "count tier")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	st.Total = st.Working + st.Episodic + st.Semantic + st.Procedural
	return st, nil
}
