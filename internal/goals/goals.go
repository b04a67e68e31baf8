// Package goals implements the goal/task graph: goals decomposed into tasks,
// status lifecycles, and priority-based task selection.
package goals

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rcliao/agent-state/internal/model"
	"github.com/rcliao/agent-state/internal/store"
)

// Graph exposes the goal/task operations over an injected store handle.
type Graph struct {
	store *store.Store
}

// NewGraph creates a Graph backed by the given store.
func NewGraph(s *store.Store) *Graph {
	return &Graph{store: s}
}

// CreateGoal creates a new active goal.
func (g *Graph) CreateGoal(ctx context.Context, name, description string) (*model.Goal, error) {
	if name == "" {
		return nil, model.NewError(model.KindInvalidArgument, "name is required")
	}

	goal := &model.Goal{
		ID:          g.store.NewID(),
		Name:        name,
		Description: description,
		Status:      model.GoalActive,
		CreatedAt:   time.Now().UTC(),
	}

	err := g.store.Update(ctx, func(q store.Querier) error {
		_, err := q.ExecContext(ctx,
			`INSERT INTO goals (id, name, description, status, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			goal.ID, goal.Name, goal.Description, goal.Status, fmtTime(goal.CreatedAt))
		if err != nil {
			return model.WrapError(model.KindStorageUnavailable, err, "insert goal")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// ListGoals returns goals with the given status in insertion order.
func (g *Graph) ListGoals(ctx context.Context, status string) ([]model.Goal, error) {
	if status == "" {
		status = model.GoalActive
	}
	if !model.ValidGoalStatuses[status] {
		return nil, model.NewError(model.KindInvalidArgument, "unknown goal status %q", status)
	}

	var goals []model.Goal
	err := g.store.View(ctx, func(q store.Querier) error {
		var e error
		goals, e = GoalsByStatus(ctx, q, status, 0)
		return e
	})
	return goals, err
}

// GoalsByStatus is the transaction-scoped read behind ListGoals. limit <= 0
// means no limit.
func GoalsByStatus(ctx context.Context, q store.Querier, status string, limit int) ([]model.Goal, error) {
	query := `SELECT id, name, description, status, created_at FROM goals
	          WHERE status = ? ORDER BY id`
	args := []any{status}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, model.WrapError(model.KindStorageUnavailable, err, "query goals")
	}
	defer rows.Close()

	var goals []model.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// CompleteGoal marks the goal and every task under it completed in a single
// transaction. No task is left pending under a completed goal.
func (g *Graph) CompleteGoal(ctx context.Context, goalID string) error {
	return g.store.Update(ctx, func(q store.Querier) error {
		res, err := q.ExecContext(ctx,
			`UPDATE goals SET status = ? WHERE id = ?`, model.GoalCompleted, goalID)
		if err != nil {
			return model.WrapError(model.KindStorageUnavailable, err, "complete goal")
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return model.NewError(model.KindNotFound, "goal not found: %s", goalID)
		}

		_, err = q.ExecContext(ctx,
			`UPDATE tasks SET status = ? WHERE goal_id = ?`, model.TaskCompleted, goalID)
		if err != nil {
			return model.WrapError(model.KindStorageUnavailable, err, "complete goal tasks")
		}
		return nil
	})
}

func scanGoal(row scanner) (model.Goal, error) {
	var goal model.Goal
	var createdAt string

	err := row.Scan(&goal.ID, &goal.Name, &goal.Description, &goal.Status, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return goal, err
		}
		return goal, model.WrapError(model.KindStorageUnavailable, err, "scan goal")
	}

	goal.CreatedAt = parseTime(createdAt)
	return goal, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
