package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rcliao/agent-state/internal/memory"
)

// RememberWorkingTool stores short-lived context in working memory.
type RememberWorkingTool struct {
	mem *memory.Manager
}

func NewRememberWorkingTool(mem *memory.Manager) *RememberWorkingTool {
	return &RememberWorkingTool{mem: mem}
}

func (t *RememberWorkingTool) Definition() mcp.Tool {
	return mcp.NewTool("remember_working",
		mcp.WithDescription("Store information in working memory with a time-to-live. Use for current task context that should expire."),
		mcp.WithString("context_key", mcp.Required(), mcp.Description("Grouping label for the item, e.g. 'current_task'")),
		mcp.WithString("content", mcp.Required(), mcp.Description("The information to remember")),
		mcp.WithNumber("priority", mcp.Description("Importance 1-10 (default 5)")),
		mcp.WithNumber("ttl_minutes", mcp.Description("Minutes until the item expires (default 60)")),
	)
}

func (t *RememberWorkingTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contextKey, err := req.RequireString("context_key")
	if err != nil {
		return errResult(err)
	}
	content, err := req.RequireString("content")
	if err != nil {
		return errResult(err)
	}

	item, err := t.mem.RememberWorking(ctx, memory.RememberParams{
		ContextKey: contextKey,
		Content:    content,
		Priority:   req.GetInt("priority", 5),
		TTL:        time.Duration(req.GetInt("ttl_minutes", 60)) * time.Minute,
	})
	if err != nil {
		return errResult(err)
	}
	return jsonResult(item)
}

// RecallWorkingTool retrieves unexpired working memory.
type RecallWorkingTool struct {
	mem *memory.Manager
}

func NewRecallWorkingTool(mem *memory.Manager) *RecallWorkingTool {
	return &RecallWorkingTool{mem: mem}
}

func (t *RecallWorkingTool) Definition() mcp.Tool {
	return mcp.NewTool("recall_working",
		mcp.WithDescription("Retrieve active (unexpired) working memory, highest priority first. Optionally filter by context key."),
		mcp.WithString("context_key", mcp.Description("Only return items with this context key")),
	)
}

func (t *RecallWorkingTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := t.mem.RecallWorking(ctx, req.GetString("context_key", ""))
	if err != nil {
		return errResult(err)
	}
	return jsonResult(items)
}

// RecordEpisodeTool appends to the episodic log.
type RecordEpisodeTool struct {
	mem *memory.Manager
}

func NewRecordEpisodeTool(mem *memory.Manager) *RecordEpisodeTool {
	return &RecordEpisodeTool{mem: mem}
}

func (t *RecordEpisodeTool) Definition() mcp.Tool {
	return mcp.NewTool("record_episode",
		mcp.WithDescription("Record an experience in the episodic log. Episodes are permanent and append-only."),
		mcp.WithString("event_type", mcp.Required(), mcp.Description("Category of event, e.g. 'conversation', 'decision'")),
		mcp.WithString("content", mcp.Required(), mcp.Description("What happened")),
		mcp.WithNumber("significance", mcp.Description("Importance 0.0-1.0 (default 0.5)")),
	)
}

func (t *RecordEpisodeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eventType, err := req.RequireString("event_type")
	if err != nil {
		return errResult(err)
	}
	content, err := req.RequireString("content")
	if err != nil {
		return errResult(err)
	}

	item, err := t.mem.RecordEpisode(ctx, memory.EpisodeParams{
		EventType:    eventType,
		Content:      content,
		Significance: req.GetFloat("significance", 0.5),
	})
	if err != nil {
		return errResult(err)
	}
	return jsonResult(item)
}

// UpsertConceptTool writes semantic knowledge.
type UpsertConceptTool struct {
	mem *memory.Manager
}

func NewUpsertConceptTool(mem *memory.Manager) *UpsertConceptTool {
	return &UpsertConceptTool{mem: mem}
}

func (t *UpsertConceptTool) Definition() mcp.Tool {
	return mcp.NewTool("upsert_concept",
		mcp.WithDescription("Store or replace a concept definition in semantic memory. Writing an existing concept replaces it entirely."),
		mcp.WithString("concept", mcp.Required(), mcp.Description("The concept name (unique key)")),
		mcp.WithString("definition", mcp.Required(), mcp.Description("What the concept means")),
		mcp.WithNumber("confidence", mcp.Description("Confidence 0.0-1.0 (default 0.5)")),
	)
}

func (t *UpsertConceptTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	concept, err := req.RequireString("concept")
	if err != nil {
		return errResult(err)
	}
	definition, err := req.RequireString("definition")
	if err != nil {
		return errResult(err)
	}

	item, err := t.mem.UpsertConcept(ctx, memory.ConceptParams{
		Concept:    concept,
		Definition: definition,
		Confidence: req.GetFloat("confidence", 0.5),
	})
	if err != nil {
		return errResult(err)
	}
	return jsonResult(item)
}

// LearnSkillTool writes procedural knowledge.
type LearnSkillTool struct {
	mem *memory.Manager
}

func NewLearnSkillTool(mem *memory.Manager) *LearnSkillTool {
	return &LearnSkillTool{mem: mem}
}

func (t *LearnSkillTool) Definition() mcp.Tool {
	return mcp.NewTool("learn_skill",
		mcp.WithDescription("Store or update a learned procedure in procedural memory, keyed by skill name."),
		mcp.WithString("skill_name", mcp.Required(), mcp.Description("Name of the skill (unique key)")),
		mcp.WithString("steps", mcp.Required(), mcp.Description("The procedure's steps")),
	)
}

func (t *LearnSkillTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	skillName, err := req.RequireString("skill_name")
	if err != nil {
		return errResult(err)
	}
	steps, err := req.RequireString("steps")
	if err != nil {
		return errResult(err)
	}

	item, err := t.mem.LearnSkill(ctx, memory.SkillParams{SkillName: skillName, Steps: steps})
	if err != nil {
		return errResult(err)
	}
	return jsonResult(item)
}

// SearchTool scans memory tiers for a substring.
type SearchTool struct {
	mem *memory.Manager
}

func NewSearchTool(mem *memory.Manager) *SearchTool {
	return &SearchTool{mem: mem}
}

func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Search memory for a text fragment, case-insensitively. Returns matches tagged with their tier."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to search for")),
		mcp.WithString("tier", mcp.Description("Tier to search: working, episodic, semantic, procedural, or all (default all)")),
	)
}

func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return errResult(err)
	}

	results, err := t.mem.Search(ctx, query, req.GetString("tier", "all"))
	if err != nil {
		return errResult(err)
	}
	return jsonResult(results)
}

// StatusTool reports per-tier row counts.
type StatusTool struct {
	mem *memory.Manager
}

func NewStatusTool(mem *memory.Manager) *StatusTool {
	return &StatusTool{mem: mem}
}

func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("status",
		mcp.WithDescription("Report how many items each memory tier holds. Working memory counts only unexpired items."),
	)
}

func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := t.mem.Status(ctx)
	if err != nil {
		return errResult(err)
	}
	return jsonResult(status)
}
