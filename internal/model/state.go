// Package model defines the persisted entity types and the error taxonomy.
package model

import "time"

// WorkingMemoryItem is a short-lived context entry. Items past expires_at are
// invisible to reads; physical deletion only happens through an explicit reap.
type WorkingMemoryItem struct {
	ID         string    `json:"id"`
	ContextKey string    `json:"context_key"`
	Content    string    `json:"content"`
	Priority   int       `json:"priority"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// EpisodicMemoryItem is one entry in the append-only experience log.
type EpisodicMemoryItem struct {
	ID           string    `json:"id"`
	EventType    string    `json:"event_type"`
	Content      string    `json:"content"`
	Significance float64   `json:"significance"`
	CreatedAt    time.Time `json:"created_at"`
}

// SemanticMemoryItem is a concept definition keyed by concept. Writing an
// existing concept replaces the definition and confidence entirely; no
// history is kept.
type SemanticMemoryItem struct {
	Concept    string    `json:"concept"`
	Definition string    `json:"definition"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProceduralMemoryItem is a learned procedure keyed by skill name.
// SuccessRate and ExecutionCount keep their defaults until an execution
// tracking operation is defined.
type ProceduralMemoryItem struct {
	ID             string    `json:"id"`
	SkillName      string    `json:"skill_name"`
	Steps          string    `json:"steps"`
	SuccessRate    float64   `json:"success_rate"`
	ExecutionCount int       `json:"execution_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// Goal is a top-level objective decomposed into tasks.
type Goal struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Task is an actionable unit under exactly one goal. GoalID is immutable
// once set.
type Task struct {
	ID        string    `json:"id"`
	GoalID    string    `json:"goal_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Priority  int       `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

// Goal statuses. Completion is terminal and one-way.
const (
	GoalActive    = "active"
	GoalCompleted = "completed"
)

// Task statuses. Transitions are caller-directed; any status may be set
// from any status.
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
	TaskBlocked    = "blocked"
)

// ValidGoalStatuses are the allowed goal status values.
var ValidGoalStatuses = map[string]bool{
	GoalActive:    true,
	GoalCompleted: true,
}

// ValidTaskStatuses are the allowed task status values.
var ValidTaskStatuses = map[string]bool{
	TaskPending:    true,
	TaskInProgress: true,
	TaskCompleted:  true,
	TaskBlocked:    true,
}

// Memory tiers.
const (
	TierWorking    = "working"
	TierEpisodic   = "episodic"
	TierSemantic   = "semantic"
	TierProcedural = "procedural"
	TierAll        = "all"
)

// ValidTiers are the tier selectors accepted by search.
var ValidTiers = map[string]bool{
	TierWorking:    true,
	TierEpisodic:   true,
	TierSemantic:   true,
	TierProcedural: true,
	TierAll:        true,
}
