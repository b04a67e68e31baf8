package goals

import (
	"context"

	"github.com/rcliao/agent-state/internal/model"
	"github.com/rcliao/agent-state/internal/store"
)

// Dump is a full copy of the goal/task graph for backup.
type Dump struct {
	Goals []model.Goal `json:"goals"`
	Tasks []model.Task `json:"tasks"`
}

// DumpAll reads every goal and task in insertion order.
func DumpAll(ctx context.Context, q store.Querier) (*Dump, error) {
	d := &Dump{}

	rows, err := q.QueryContext(ctx,
		`SELECT id, name, description, status, created_at FROM goals ORDER BY id`)
	if err != nil {
		return nil, model.WrapError(model.KindStorageUnavailable, err, "dump goals")
	}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		d.Goals = append(d.Goals, goal)
	}
	rows.Close()

	if d.Tasks, err = AllTasks(ctx, q); err != nil {
		return nil, err
	}
	return d, nil
}
