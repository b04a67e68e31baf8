package goals

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rcliao/agent-state/internal/model"
	"github.com/rcliao/agent-state/internal/store"
)

func newTestGraph(t *testing.T) (*Graph, *store.Store) {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewGraph(s), s
}

func TestCreateAndListGoals(t *testing.T) {
	g, _ := newTestGraph(t)
	ctx := context.Background()

	goal, err := g.CreateGoal(ctx, "ship v1", "first release")
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	if goal.Status != model.GoalActive {
		t.Errorf("expected new goal active, got %s", goal.Status)
	}

	active, err := g.ListGoals(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 || active[0].Name != "ship v1" {
		t.Fatalf("unexpected active goals: %+v", active)
	}

	completed, err := g.ListGoals(ctx, model.GoalCompleted)
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(completed) != 0 {
		t.Errorf("expected no completed goals, got %d", len(completed))
	}
}

func TestCreateGoalRequiresName(t *testing.T) {
	g, _ := newTestGraph(t)

	if _, err := g.CreateGoal(context.Background(), "", "desc"); !model.IsInvalidArgument(err) {
		t.Errorf("expected invalid_argument, got %v", err)
	}
}

func TestListGoalsRejectsUnknownStatus(t *testing.T) {
	g, _ := newTestGraph(t)

	if _, err := g.ListGoals(context.Background(), "stalled"); !model.IsInvalidArgument(err) {
		t.Errorf("expected invalid_argument, got %v", err)
	}
}

func TestCreateTaskMissingGoal(t *testing.T) {
	g, s := newTestGraph(t)
	ctx := context.Background()

	_, err := g.CreateTask(ctx, TaskParams{GoalID: "01NOPE", Title: "X", Priority: 5})
	if !model.IsNotFound(err) {
		t.Fatalf("expected not_found, got %v", err)
	}

	// The failed create must not leave a row behind.
	var n int
	err = s.View(ctx, func(q store.Querier) error {
		return q.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n)
	})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 tasks, got %d", n)
	}
}

func TestCreateTaskRejectsOutOfRangePriority(t *testing.T) {
	g, _ := newTestGraph(t)
	ctx := context.Background()

	goal, err := g.CreateGoal(ctx, "G", "")
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}

	for _, p := range []int{0, -1, 11} {
		if _, err := g.CreateTask(ctx, TaskParams{GoalID: goal.ID, Title: "X", Priority: p}); !model.IsInvalidArgument(err) {
			t.Errorf("priority %d: expected invalid_argument, got %v", p, err)
		}
	}
}

func TestNextTaskPicksHighestPriority(t *testing.T) {
	g, _ := newTestGraph(t)
	ctx := context.Background()

	goal, err := g.CreateGoal(ctx, "G", "")
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	if _, err := g.CreateTask(ctx, TaskParams{GoalID: goal.ID, Title: "T1", Priority: 5}); err != nil {
		t.Fatalf("create T1: %v", err)
	}
	if _, err := g.CreateTask(ctx, TaskParams{GoalID: goal.ID, Title: "T2", Priority: 9}); err != nil {
		t.Fatalf("create T2: %v", err)
	}

	next, err := g.NextTask(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if next == nil || next.Title != "T2" {
		t.Fatalf("expected T2, got %+v", next)
	}
	if next.GoalName != "G" {
		t.Errorf("expected goal name G, got %s", next.GoalName)
	}
}

func TestNextTaskTieBreaksByInsertionOrder(t *testing.T) {
	g, _ := newTestGraph(t)
	ctx := context.Background()

	goal, err := g.CreateGoal(ctx, "G", "")
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	first, err := g.CreateTask(ctx, TaskParams{GoalID: goal.ID, Title: "first", Priority: 7})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := g.CreateTask(ctx, TaskParams{GoalID: goal.ID, Title: "second", Priority: 7}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	next, err := g.NextTask(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if next == nil || next.ID != first.ID {
		t.Fatalf("expected the earlier task on a priority tie, got %+v", next)
	}
}

func TestNextTaskIgnoresInactiveGoals(t *testing.T) {
	g, _ := newTestGraph(t)
	ctx := context.Background()

	goal, err := g.CreateGoal(ctx, "G", "")
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	if _, err := g.CreateTask(ctx, TaskParams{GoalID: goal.ID, Title: "T", Priority: 9}); err != nil {
		t.Fatalf("create task: %v", err)
	}
	if err := g.CompleteGoal(ctx, goal.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	next, err := g.NextTask(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if next != nil {
		t.Errorf("expected no pending tasks, got %+v", next)
	}
}

func TestNextTaskEmpty(t *testing.T) {
	g, _ := newTestGraph(t)

	next, err := g.NextTask(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if next != nil {
		t.Errorf("expected nil on empty graph, got %+v", next)
	}
}

func TestUpdateTaskStatus(t *testing.T) {
	g, _ := newTestGraph(t)
	ctx := context.Background()

	goal, _ := g.CreateGoal(ctx, "G", "")
	task, err := g.CreateTask(ctx, TaskParams{GoalID: goal.ID, Title: "T", Priority: 5})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := g.UpdateTaskStatus(ctx, task.ID, model.TaskInProgress); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := g.UpdateTaskStatus(ctx, task.ID, "done"); !model.IsInvalidArgument(err) {
		t.Errorf("expected invalid_argument for unknown status, got %v", err)
	}
	if err := g.UpdateTaskStatus(ctx, "01NOPE", model.TaskBlocked); !model.IsNotFound(err) {
		t.Errorf("expected not_found for missing task, got %v", err)
	}
}

func TestCompleteGoalCascades(t *testing.T) {
	g, s := newTestGraph(t)
	ctx := context.Background()

	goal, _ := g.CreateGoal(ctx, "G", "")
	if _, err := g.CreateTask(ctx, TaskParams{GoalID: goal.ID, Title: "T1", Priority: 5}); err != nil {
		t.Fatalf("create T1: %v", err)
	}
	t2, _ := g.CreateTask(ctx, TaskParams{GoalID: goal.ID, Title: "T2", Priority: 5})
	if err := g.UpdateTaskStatus(ctx, t2.ID, model.TaskInProgress); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := g.CompleteGoal(ctx, goal.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	var tasks []model.Task
	err := s.View(ctx, func(q store.Querier) error {
		var e error
		tasks, e = AllTasks(ctx, q)
		return e
	})
	if err != nil {
		t.Fatalf("all tasks: %v", err)
	}
	for _, task := range tasks {
		if task.Status != model.TaskCompleted {
			t.Errorf("task %s not completed: %s", task.Title, task.Status)
		}
	}

	completed, err := g.ListGoals(ctx, model.GoalCompleted)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(completed) != 1 {
		t.Errorf("expected 1 completed goal, got %d", len(completed))
	}
}

func TestCompleteGoalMissing(t *testing.T) {
	g, _ := newTestGraph(t)

	if err := g.CompleteGoal(context.Background(), "01NOPE"); !model.IsNotFound(err) {
		t.Errorf("expected not_found, got %v", err)
	}
}

func TestClaimSequence(t *testing.T) {
	g, _ := newTestGraph(t)
	ctx := context.Background()

	goal, _ := g.CreateGoal(ctx, "G", "")
	task, err := g.CreateTask(ctx, TaskParams{GoalID: goal.ID, Title: "only", Priority: 9})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	// A worker claims the task by marking it in_progress; the next
	// selection must no longer offer it.
	next, err := g.NextTask(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if next == nil || next.ID != task.ID {
		t.Fatalf("expected the only task, got %+v", next)
	}
	if err := g.UpdateTaskStatus(ctx, next.ID, model.TaskInProgress); err != nil {
		t.Fatalf("claim: %v", err)
	}

	again, err := g.NextTask(ctx)
	if err != nil {
		t.Fatalf("next again: %v", err)
	}
	if again != nil {
		t.Errorf("claimed task offered again: %+v", again)
	}
}
