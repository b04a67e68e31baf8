package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rcliao/agent-state/internal/goals"
)

// CreateGoalTool adds a top-level objective.
type CreateGoalTool struct {
	graph *goals.Graph
}

func NewCreateGoalTool(graph *goals.Graph) *CreateGoalTool {
	return &CreateGoalTool{graph: graph}
}

func (t *CreateGoalTool) Definition() mcp.Tool {
	return mcp.NewTool("create_goal",
		mcp.WithDescription("Create a new goal. Goals start active and are decomposed into tasks."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Short name for the goal")),
		mcp.WithString("description", mcp.Description("Longer description (default empty)")),
	)
}

func (t *CreateGoalTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return errResult(err)
	}

	goal, err := t.graph.CreateGoal(ctx, name, req.GetString("description", ""))
	if err != nil {
		return errResult(err)
	}
	return jsonResult(goal)
}

// ListGoalsTool lists goals by status.
type ListGoalsTool struct {
	graph *goals.Graph
}

func NewListGoalsTool(graph *goals.Graph) *ListGoalsTool {
	return &ListGoalsTool{graph: graph}
}

func (t *ListGoalsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_goals",
		mcp.WithDescription("List goals filtered by status."),
		mcp.WithString("status", mcp.Description("active or completed (default active)")),
	)
}

func (t *ListGoalsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := t.graph.ListGoals(ctx, req.GetString("status", ""))
	if err != nil {
		return errResult(err)
	}
	return jsonResult(list)
}

// CreateTaskTool adds a task under an existing goal.
type CreateTaskTool struct {
	graph *goals.Graph
}

func NewCreateTaskTool(graph *goals.Graph) *CreateTaskTool {
	return &CreateTaskTool{graph: graph}
}

func (t *CreateTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("create_task",
		mcp.WithDescription("Create a task under a goal. Fails if the goal does not exist."),
		mcp.WithString("goal_id", mcp.Required(), mcp.Description("ID of the parent goal")),
		mcp.WithString("title", mcp.Required(), mcp.Description("What the task is")),
		mcp.WithNumber("priority", mcp.Description("Priority 1-10, higher first (default 5)")),
	)
}

func (t *CreateTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	goalID, err := req.RequireString("goal_id")
	if err != nil {
		return errResult(err)
	}
	title, err := req.RequireString("title")
	if err != nil {
		return errResult(err)
	}

	task, err := t.graph.CreateTask(ctx, goals.TaskParams{
		GoalID:   goalID,
		Title:    title,
		Priority: req.GetInt("priority", 5),
	})
	if err != nil {
		return errResult(err)
	}
	return jsonResult(task)
}

// UpdateTaskStatusTool moves a task through its lifecycle.
type UpdateTaskStatusTool struct {
	graph *goals.Graph
}

func NewUpdateTaskStatusTool(graph *goals.Graph) *UpdateTaskStatusTool {
	return &UpdateTaskStatusTool{graph: graph}
}

func (t *UpdateTaskStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("update_task_status",
		mcp.WithDescription("Set a task's status. Any transition is allowed; the caller directs the workflow."),
		mcp.WithString("task_id", mcp.Required(), mcp.Description("ID of the task")),
		mcp.WithString("status", mcp.Required(), mcp.Description("pending, in_progress, completed, or blocked")),
	)
}

func (t *UpdateTaskStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := req.RequireString("task_id")
	if err != nil {
		return errResult(err)
	}
	status, err := req.RequireString("status")
	if err != nil {
		return errResult(err)
	}

	if err := t.graph.UpdateTaskStatus(ctx, taskID, status); err != nil {
		return errResult(err)
	}
	return jsonResult(map[string]string{"task_id": taskID, "status": status})
}

// GetNextTaskTool picks the highest-priority pending task.
type GetNextTaskTool struct {
	graph *goals.Graph
}

func NewGetNextTaskTool(graph *goals.Graph) *GetNextTaskTool {
	return &GetNextTaskTool{graph: graph}
}

func (t *GetNextTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("get_next_task",
		mcp.WithDescription("Return the highest-priority pending task under any active goal, or a message when nothing is pending."),
	)
}

func (t *GetNextTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task, err := t.graph.NextTask(ctx)
	if err != nil {
		return errResult(err)
	}
	if task == nil {
		return jsonResult(map[string]string{"message": "No pending tasks"})
	}
	return jsonResult(task)
}

// CompleteGoalTool completes a goal and all of its tasks.
type CompleteGoalTool struct {
	graph *goals.Graph
}

func NewCompleteGoalTool(graph *goals.Graph) *CompleteGoalTool {
	return &CompleteGoalTool{graph: graph}
}

func (t *CompleteGoalTool) Definition() mcp.Tool {
	return mcp.NewTool("complete_goal",
		mcp.WithDescription("Mark a goal completed and complete every task under it, atomically."),
		mcp.WithString("goal_id", mcp.Required(), mcp.Description("ID of the goal to complete")),
	)
}

func (t *CompleteGoalTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	goalID, err := req.RequireString("goal_id")
	if err != nil {
		return errResult(err)
	}

	if err := t.graph.CompleteGoal(ctx, goalID); err != nil {
		return errResult(err)
	}
	return jsonResult(map[string]string{"goal_id": goalID, "status": "completed"})
}
