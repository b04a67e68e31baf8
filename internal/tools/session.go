package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rcliao/agent-state/internal/session"
)

// SessionStartTool reconstructs state at the start of a session.
type SessionStartTool struct {
	coord *session.Coordinator
}

func NewSessionStartTool(coord *session.Coordinator) *SessionStartTool {
	return &SessionStartTool{coord: coord}
}

func (t *SessionStartTool) Definition() mcp.Tool {
	return mcp.NewTool("session_start",
		mcp.WithDescription("Call at the start of a session. Returns identity, active goals, open tasks, recent significant events, live working memory, and open knowledge gaps as one consistent snapshot."),
	)
}

func (t *SessionStartTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := t.coord.Start(ctx)
	if err != nil {
		return errResult(err)
	}
	return jsonResult(snap)
}

// SessionEndTool captures closing context at the end of a session.
type SessionEndTool struct {
	coord *session.Coordinator
}

func NewSessionEndTool(coord *session.Coordinator) *SessionEndTool {
	return &SessionEndTool{coord: coord}
}

func (t *SessionEndTool) Definition() mcp.Tool {
	return mcp.NewTool("session_end",
		mcp.WithDescription("Call at the end of a session. Records a session_end episode and saves the summary as the next session's starting context."),
		mcp.WithString("summary", mcp.Required(), mcp.Description("What was accomplished and where things stand")),
		mcp.WithNumber("significance", mcp.Description("Importance 0.0-1.0 (default 0.5)")),
	)
}

func (t *SessionEndTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := req.RequireString("summary")
	if err != nil {
		return errResult(err)
	}

	receipt, err := t.coord.End(ctx, summary, req.GetFloat("significance", 0))
	if err != nil {
		return errResult(err)
	}
	return jsonResult(receipt)
}

// GetCurrentContextTool answers "where was I" mid-session.
type GetCurrentContextTool struct {
	coord *session.Coordinator
}

func NewGetCurrentContextTool(coord *session.Coordinator) *GetCurrentContextTool {
	return &GetCurrentContextTool{coord: coord}
}

func (t *GetCurrentContextTool) Definition() mcp.Tool {
	return mcp.NewTool("get_current_context",
		mcp.WithDescription("Return active goals, open tasks, recent significant events, and live working memory as one consistent view."),
	)
}

func (t *GetCurrentContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cur, err := t.coord.CurrentContext(ctx)
	if err != nil {
		return errResult(err)
	}
	return jsonResult(cur)
}
