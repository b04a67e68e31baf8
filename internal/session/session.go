// Package session stitches the memory tiers and the goal graph into the
// composite operations used at session boundaries. Snapshot reads run inside
// one read transaction so the caller never sees a torn view.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rcliao/agent-state/internal/awareness"
	"github.com/rcliao/agent-state/internal/goals"
	"github.com/rcliao/agent-state/internal/memory"
	"github.com/rcliao/agent-state/internal/model"
	"github.com/rcliao/agent-state/internal/store"
)

// Episodic event types written at session boundaries.
const (
	EventSessionStart = "session_start"
	EventSessionEnd   = "session_end"
)

// ContextKeyCurrent is the working-memory grouping label that carries the
// closing context from one session into the next.
const ContextKeyCurrent = "current_context"

// Limits bound how much state a snapshot pulls in. Zero values fall back to
// DefaultLimits.
type Limits struct {
	Goals             int
	PendingTasks      int
	InProgressTasks   int
	RecentEvents      int
	MinEventWeight    float64
	WorkingItems      int
	Gaps              int
	MinGapSeverity    float64
	HandoffTTL        time.Duration
	EndSignificance   float64
	StartSignificance float64
}

// DefaultLimits are the snapshot bounds used when the caller does not
// override them.
func DefaultLimits() Limits {
	return Limits{
		Goals:             5,
		PendingTasks:      10,
		InProgressTasks:   5,
		RecentEvents:      5,
		MinEventWeight:    0.6,
		WorkingItems:      10,
		Gaps:              5,
		MinGapSeverity:    0.5,
		HandoffTTL:        7 * 24 * time.Hour,
		EndSignificance:   0.5,
		StartSignificance: 0.3,
	}
}

// Coordinator composes memory, goals, and awareness into the session
// lifecycle.
type Coordinator struct {
	store    *store.Store
	mem      *memory.Manager
	identity *awareness.Service
	limits   Limits
}

// NewCoordinator creates a Coordinator with the given limits. Zero-value
// limit fields are replaced by DefaultLimits.
func NewCoordinator(s *store.Store, mem *memory.Manager, aw *awareness.Service, limits Limits) *Coordinator {
	d := DefaultLimits()
	if limits.Goals <= 0 {
		limits.Goals = d.Goals
	}
	if limits.PendingTasks <= 0 {
		limits.PendingTasks = d.PendingTasks
	}
	if limits.InProgressTasks <= 0 {
		limits.InProgressTasks = d.InProgressTasks
	}
	if limits.RecentEvents <= 0 {
		limits.RecentEvents = d.RecentEvents
	}
	if limits.MinEventWeight <= 0 {
		limits.MinEventWeight = d.MinEventWeight
	}
	if limits.WorkingItems <= 0 {
		limits.WorkingItems = d.WorkingItems
	}
	if limits.Gaps <= 0 {
		limits.Gaps = d.Gaps
	}
	if limits.MinGapSeverity <= 0 {
		limits.MinGapSeverity = d.MinGapSeverity
	}
	if limits.HandoffTTL <= 0 {
		limits.HandoffTTL = d.HandoffTTL
	}
	if limits.EndSignificance <= 0 {
		limits.EndSignificance = d.EndSignificance
	}
	if limits.StartSignificance <= 0 {
		limits.StartSignificance = d.StartSignificance
	}
	return &Coordinator{store: s, mem: mem, identity: aw, limits: limits}
}

// Context is a single-point-in-time view of where the agent left off.
type Context struct {
	ActiveGoals     []model.Goal               `json:"active_goals"`
	PendingTasks    []goals.TaskWithGoal       `json:"pending_tasks"`
	InProgressTasks []goals.TaskWithGoal       `json:"in_progress_tasks"`
	RecentEvents    []model.EpisodicMemoryItem `json:"recent_significant_events"`
	ActiveContext   []model.WorkingMemoryItem  `json:"active_context"`
	RetrievedAt     time.Time                  `json:"retrieved_at"`
}

// CurrentContext gathers the active goals, open tasks, recent significant
// episodes, and live working memory in one read transaction.
func (c *Coordinator) CurrentContext(ctx context.Context) (*Context, error) {
	var out *Context
	err := c.store.View(ctx, func(q store.Querier) error {
		var err error
		out, err = gatherContext(ctx, q, c.limits)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// gatherContext is the transaction-scoped read behind CurrentContext and
// Start.
func gatherContext(ctx context.Context, q store.Querier, limits Limits) (*Context, error) {
	out := &Context{RetrievedAt: time.Now().UTC()}
	var err error
	if out.ActiveGoals, err = goals.GoalsByStatus(ctx, q, model.GoalActive, limits.Goals); err != nil {
		return nil, err
	}
	if out.PendingTasks, err = goals.TasksByStatus(ctx, q, model.TaskPending, limits.PendingTasks); err != nil {
		return nil, err
	}
	if out.InProgressTasks, err = goals.TasksByStatus(ctx, q, model.TaskInProgress, limits.InProgressTasks); err != nil {
		return nil, err
	}
	if out.RecentEvents, err = memory.Episodes(ctx, q, memory.EpisodeQuery{
		MinSignificance: limits.MinEventWeight,
		Limit:           limits.RecentEvents,
	}); err != nil {
		return nil, err
	}
	if out.ActiveContext, err = memory.RecallWorking(ctx, q, "", limits.WorkingItems); err != nil {
		return nil, err
	}
	return out, nil
}

// Snapshot is everything a resuming agent needs at session start.
type Snapshot struct {
	Greeting      string              `json:"greeting"`
	Identity      *awareness.Identity `json:"identity"`
	Context       *Context            `json:"current_context"`
	KnowledgeGaps []awareness.Gap     `json:"knowledge_gaps"`
	StartedAt     time.Time           `json:"session_started_at"`
}

// Start reconstructs the agent's state for a new session and logs a
// session_start episode. The snapshot itself comes from a single read
// transaction; only the boundary marker is written.
func (c *Coordinator) Start(ctx context.Context) (*Snapshot, error) {
	identity, err := c.identity.Identity(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Identity: identity, StartedAt: time.Now().UTC()}
	err = c.store.View(ctx, func(q store.Querier) error {
		var err error
		if snap.Context, err = gatherContext(ctx, q, c.limits); err != nil {
			return err
		}
		snap.KnowledgeGaps, err = awareness.GapsAbove(ctx, q, c.limits.MinGapSeverity, c.limits.Gaps)
		return err
	})
	if err != nil {
		return nil, err
	}

	snap.Greeting = fmt.Sprintf("Hello! I'm %s. %s", identity.Name, identity.Purpose)

	_, err = c.mem.RecordEpisode(ctx, memory.EpisodeParams{
		EventType:    EventSessionStart,
		Content:      fmt.Sprintf("Session started at %s", snap.StartedAt.Format(time.RFC3339)),
		Significance: c.limits.StartSignificance,
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

type endContent struct {
	Summary   string `json:"summary"`
	Timestamp string `json:"timestamp"`
}

// EndReceipt confirms a recorded session boundary.
type EndReceipt struct {
	Status       string `json:"status"`
	SummarySaved bool   `json:"summary_saved"`
	Message      string `json:"message"`
}

// End records a session_end episode and refreshes the current_context
// working item for the next session, atomically. Significance 0 takes the
// configured default.
func (c *Coordinator) End(ctx context.Context, summary string, significance float64) (*EndReceipt, error) {
	if summary == "" {
		return nil, model.NewError(model.KindInvalidArgument, "summary is required")
	}
	if significance == 0 {
		significance = c.limits.EndSignificance
	}
	if significance < 0 || significance > 1 {
		return nil, model.NewError(model.KindInvalidArgument, "significance must be between 0.0 and 1.0")
	}

	now := time.Now().UTC()
	content, err := json.Marshal(endContent{Summary: summary, Timestamp: now.Format(time.RFC3339)})
	if err != nil {
		return nil, model.WrapError(model.KindInvalidArgument, err, "encode session summary")
	}

	err = c.store.Update(ctx, func(q store.Querier) error {
		episode := &model.EpisodicMemoryItem{
			ID:           c.store.NewID(),
			EventType:    EventSessionEnd,
			Content:      string(content),
			Significance: significance,
			CreatedAt:    now,
		}
		if err := memory.PutEpisode(ctx, q, episode); err != nil {
			return err
		}
		handoff := &model.WorkingMemoryItem{
			ID:         c.store.NewID(),
			ContextKey: ContextKeyCurrent,
			Content:    summary,
			Priority:   10,
			CreatedAt:  now,
			ExpiresAt:  now.Add(c.limits.HandoffTTL),
		}
		return memory.PutWorking(ctx, q, handoff)
	})
	if err != nil {
		return nil, err
	}

	return &EndReceipt{
		Status:       "session_ended",
		SummarySaved: true,
		Message:      "Session context preserved for next session",
	}, nil
}
