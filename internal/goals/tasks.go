package goals

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rcliao/agent-state/internal/model"
	"github.com/rcliao/agent-state/internal/store"
)

// TaskParams holds input for creating a task.
type TaskParams struct {
	GoalID   string
	Title    string
	Priority int // 1..10, higher first
}

// CreateTask creates a pending task under an existing goal. The goal
// reference is checked and the insert applied in one transaction, so a
// missing goal leaves no row behind.
func (g *Graph) CreateTask(ctx context.Context, p TaskParams) (*model.Task, error) {
	if p.GoalID == "" {
		return nil, model.NewError(model.KindInvalidArgument, "goal_id is required")
	}
	if p.Title == "" {
		return nil, model.NewError(model.KindInvalidArgument, "title is required")
	}
	if p.Priority < 1 || p.Priority > 10 {
		return nil, model.NewError(model.KindInvalidArgument, "priority must be between 1 and 10")
	}

	task := &model.Task{
		ID:        g.store.NewID(),
		GoalID:    p.GoalID,
		Title:     p.Title,
		Status:    model.TaskPending,
		Priority:  p.Priority,
		CreatedAt: time.Now().UTC(),
	}

	err := g.store.Update(ctx, func(q store.Querier) error {
		var one int
		err := q.QueryRowContext(ctx, `SELECT 1 FROM goals WHERE id = ?`, p.GoalID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return model.NewError(model.KindNotFound, "goal not found: %s", p.GoalID)
		}
		if err != nil {
			return model.WrapError(model.KindStorageUnavailable, err, "check goal")
		}

		_, err = q.ExecContext(ctx,
			`INSERT INTO tasks (id, goal_id, title, status, priority, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			task.ID, task.GoalID, task.Title, task.Status, task.Priority, fmtTime(task.CreatedAt))
		if err != nil {
			return model.WrapError(model.KindStorageUnavailable, err, "insert task")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTaskStatus overwrites a task's status unconditionally. Transitions
// are caller-directed; any status is reachable from any status.
func (g *Graph) UpdateTaskStatus(ctx context.Context, taskID, status string) error {
	if !model.ValidTaskStatuses[status] {
		return model.NewError(model.KindInvalidArgument, "unknown task status %q", status)
	}

	return g.store.Update(ctx, func(q store.Querier) error {
		res, err := q.ExecContext(ctx,
			`UPDATE tasks SET status = ? WHERE id = ?`, status, taskID)
		if err != nil {
			return model.WrapError(model.KindStorageUnavailable, err, "update task status")
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return model.NewError(model.KindNotFound, "task not found: %s", taskID)
		}
		return nil
	})
}

// NextTask returns the highest-priority pending task under an active goal,
// or nil when none exists. The selection runs in a transaction so a
// concurrent status update cannot produce a stale pick.
func (g *Graph) NextTask(ctx context.Context) (*TaskWithGoal, error) {
	var task *TaskWithGoal
	err := g.store.Update(ctx, func(q store.Querier) error {
		var e error
		task, e = NextPending(ctx, q)
		return e
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// TaskWithGoal is a task annotated with its goal's name.
type TaskWithGoal struct {
	model.Task
	GoalName string `json:"goal"`
}

// NextPending selects the next pending task under an active goal: highest
// priority first, insertion order as tie-break. Returns nil when nothing is
// pending.
func NextPending(ctx context.Context, q store.Querier) (*TaskWithGoal, error) {
	row := q.QueryRowContext(ctx,
		`SELECT t.id, t.goal_id, t.title, t.status, t.priority, t.created_at, g.name
		 FROM tasks t JOIN goals g ON t.goal_id = g.id
		 WHERE t.status = ? AND g.status = ?
		 ORDER BY t.priority DESC, t.id
		 LIMIT 1`,
		model.TaskPending, model.GoalActive)

	task, err := scanTaskWithGoal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

// TasksByStatus returns tasks with the given status joined with their goal
// names, ordered by priority then insertion. Only tasks under active goals
// are considered. limit <= 0 means no limit.
func TasksByStatus(ctx context.Context, q store.Querier, status string, limit int) ([]TaskWithGoal, error) {
	query := `SELECT t.id, t.goal_id, t.title, t.status, t.priority, t.created_at, g.name
	          FROM tasks t JOIN goals g ON t.goal_id = g.id
	          WHERE t.status = ? AND g.status = ?
	          ORDER BY t.priority DESC, t.id`
	args := []any{status, model.GoalActive}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, model.WrapError(model.KindStorageUnavailable, err, "query tasks")
	}
	defer rows.Close()

	var tasks []TaskWithGoal
	for rows.Next() {
		task, err := scanTaskWithGoal(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// AllTasks returns every task in insertion order, regardless of status.
func AllTasks(ctx context.Context, q store.Querier) ([]model.Task, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, goal_id, title, status, priority, created_at FROM tasks ORDER BY id`)
	if err != nil {
		return nil, model.WrapError(model.KindStorageUnavailable, err, "query tasks")
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var task model.Task
		var createdAt string
		if err := rows.Scan(&task.ID, &task.GoalID, &task.Title, &task.Status, &task.Priority, &createdAt); err != nil {
			return nil, model.WrapError(model.KindStorageUnavailable, err, "scan task")
		}
		task.CreatedAt = parseTime(createdAt)
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func scanTaskWithGoal(row scanner) (TaskWithGoal, error) {
	var task TaskWithGoal
	var createdAt string

	err := row.Scan(&task.ID, &task.GoalID, &task.Title, &task.Status, &task.Priority, &createdAt, &task.GoalName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return task, err
		}
		return task, model.WrapError(model.KindStorageUnavailable, err, "scan task")
	}

	task.CreatedAt = parseTime(createdAt)
	return task, nil
}
