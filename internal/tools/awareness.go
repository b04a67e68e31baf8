package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rcliao/agent-state/internal/awareness"
)

// GetIdentityTool reads the agent's self-model.
type GetIdentityTool struct {
	aw *awareness.Service
}

func NewGetIdentityTool(aw *awareness.Service) *GetIdentityTool {
	return &GetIdentityTool{aw: aw}
}

func (t *GetIdentityTool) Definition() mcp.Tool {
	return mcp.NewTool("get_agent_identity",
		mcp.WithDescription("Return the agent's name, purpose, capabilities, limitations, and personality."),
	)
}

func (t *GetIdentityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identity, err := t.aw.Identity(ctx)
	if err != nil {
		return errResult(err)
	}
	return jsonResult(identity)
}

// SetIdentityTool updates the agent's self-model.
type SetIdentityTool struct {
	aw *awareness.Service
}

func NewSetIdentityTool(aw *awareness.Service) *SetIdentityTool {
	return &SetIdentityTool{aw: aw}
}

func (t *SetIdentityTool) Definition() mcp.Tool {
	return mcp.NewTool("set_agent_identity",
		mcp.WithDescription("Update fields of the agent's self-model. Omitted fields are left unchanged."),
		mcp.WithString("name", mcp.Description("The agent's name")),
		mcp.WithString("purpose", mcp.Description("What the agent is for")),
		mcp.WithString("capabilities", mcp.Description("What the agent can do")),
		mcp.WithString("limitations", mcp.Description("What the agent cannot do")),
		mcp.WithString("personality", mcp.Description("How the agent behaves")),
	)
}

func (t *SetIdentityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	updated, err := t.aw.SetIdentity(ctx, awareness.IdentityParams{
		Name:         req.GetString("name", ""),
		Purpose:      req.GetString("purpose", ""),
		Capabilities: req.GetString("capabilities", ""),
		Limitations:  req.GetString("limitations", ""),
		Personality:  req.GetString("personality", ""),
	})
	if err != nil {
		return errResult(err)
	}
	return jsonResult(map[string]any{"updated": updated})
}

// RecordKnowledgeGapTool logs something the agent does not know.
type RecordKnowledgeGapTool struct {
	aw *awareness.Service
}

func NewRecordKnowledgeGapTool(aw *awareness.Service) *RecordKnowledgeGapTool {
	return &RecordKnowledgeGapTool{aw: aw}
}

func (t *RecordKnowledgeGapTool) Definition() mcp.Tool {
	return mcp.NewTool("record_knowledge_gap",
		mcp.WithDescription("Record something the agent does not know but should. High-severity gaps are flagged for research."),
		mcp.WithString("domain", mcp.Required(), mcp.Description("Subject area of the gap")),
		mcp.WithString("description", mcp.Required(), mcp.Description("What is unknown")),
		mcp.WithNumber("severity", mcp.Description("How much the gap hurts, 0.0-1.0 (default 0.5)")),
	)
}

func (t *RecordKnowledgeGapTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, err := req.RequireString("domain")
	if err != nil {
		return errResult(err)
	}
	description, err := req.RequireString("description")
	if err != nil {
		return errResult(err)
	}

	receipt, err := t.aw.RecordGap(ctx, domain, description, req.GetFloat("severity", 0.5))
	if err != nil {
		return errResult(err)
	}
	return jsonResult(receipt)
}

// GetKnowledgeGapsTool lists recorded gaps.
type GetKnowledgeGapsTool struct {
	aw *awareness.Service
}

func NewGetKnowledgeGapsTool(aw *awareness.Service) *GetKnowledgeGapsTool {
	return &GetKnowledgeGapsTool{aw: aw}
}

func (t *GetKnowledgeGapsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_knowledge_gaps",
		mcp.WithDescription("List recorded knowledge gaps at or above a severity, most severe first."),
		mcp.WithNumber("min_severity", mcp.Description("Minimum severity to include (default 0.0)")),
	)
}

func (t *GetKnowledgeGapsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gaps, err := t.aw.Gaps(ctx, req.GetFloat("min_severity", 0))
	if err != nil {
		return errResult(err)
	}
	return jsonResult(gaps)
}

// RecordActionOutcomeTool logs how an action went.
type RecordActionOutcomeTool struct {
	aw *awareness.Service
}

func NewRecordActionOutcomeTool(aw *awareness.Service) *RecordActionOutcomeTool {
	return &RecordActionOutcomeTool{aw: aw}
}

func (t *RecordActionOutcomeTool) Definition() mcp.Tool {
	return mcp.NewTool("record_action_outcome",
		mcp.WithDescription("Record the outcome of an action so future sessions can learn from it."),
		mcp.WithString("action", mcp.Required(), mcp.Description("What was attempted")),
		mcp.WithString("expected_result", mcp.Description("What was supposed to happen")),
		mcp.WithString("actual_result", mcp.Description("What actually happened")),
		mcp.WithNumber("success_score", mcp.Description("How well it went, 0.0-1.0 (default 0.5)")),
		mcp.WithString("context", mcp.Description("Surrounding circumstances")),
	)
}

func (t *RecordActionOutcomeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action, err := req.RequireString("action")
	if err != nil {
		return errResult(err)
	}

	receipt, err := t.aw.RecordOutcome(ctx, awareness.OutcomeParams{
		Action:       action,
		Expected:     req.GetString("expected_result", ""),
		Actual:       req.GetString("actual_result", ""),
		SuccessScore: req.GetFloat("success_score", 0.5),
		Context:      req.GetString("context", ""),
	})
	if err != nil {
		return errResult(err)
	}
	return jsonResult(receipt)
}

// GetSimilarPastActionsTool finds outcomes of similar past actions.
type GetSimilarPastActionsTool struct {
	aw *awareness.Service
}

func NewGetSimilarPastActionsTool(aw *awareness.Service) *GetSimilarPastActionsTool {
	return &GetSimilarPastActionsTool{aw: aw}
}

func (t *GetSimilarPastActionsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_similar_past_actions",
		mcp.WithDescription("Find past action outcomes similar to a planned action, most relevant first."),
		mcp.WithString("action_description", mcp.Required(), mcp.Description("The action being considered")),
		mcp.WithNumber("limit", mcp.Description("Maximum results (default 5)")),
	)
}

func (t *GetSimilarPastActionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := req.RequireString("action_description")
	if err != nil {
		return errResult(err)
	}

	actions, err := t.aw.SimilarActions(ctx, description, req.GetInt("limit", 5))
	if err != nil {
		return errResult(err)
	}
	return jsonResult(actions)
}

// RecordMetacognitionTool logs a self-assessment of the agent's thinking.
type RecordMetacognitionTool struct {
	aw *awareness.Service
}

func NewRecordMetacognitionTool(aw *awareness.Service) *RecordMetacognitionTool {
	return &RecordMetacognitionTool{aw: aw}
}

func (t *RecordMetacognitionTool) Definition() mcp.Tool {
	return mcp.NewTool("record_metacognitive_state",
		mcp.WithDescription("Record the agent's confidence, cognitive load, and reasoning quality. Returns warnings when any crosses a concerning threshold."),
		mcp.WithNumber("confidence", mcp.Description("Confidence in the current approach, 0.0-1.0 (default 0.5)")),
		mcp.WithNumber("cognitive_load", mcp.Description("Complexity of the current task, 0.0-1.0 (default 0.5)")),
		mcp.WithNumber("reasoning_quality", mcp.Description("Self-assessed reasoning quality, 0.0-1.0 (default 0.5)")),
		mcp.WithString("notes", mcp.Description("Free-form observations")),
	)
}

func (t *RecordMetacognitionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	receipt, err := t.aw.RecordMetacognition(ctx, awareness.MetacognitionParams{
		Confidence:       req.GetFloat("confidence", 0.5),
		CognitiveLoad:    req.GetFloat("cognitive_load", 0.5),
		ReasoningQuality: req.GetFloat("reasoning_quality", 0.5),
		Notes:            req.GetString("notes", ""),
	})
	if err != nil {
		return errResult(err)
	}
	return jsonResult(receipt)
}
