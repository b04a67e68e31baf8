// Package server wires the engine together and exposes it over MCP stdio.
// This is the composition root: it builds the store, the managers, and the
// tool registrations. No behavior lives here.
package server

import (
	"context"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rcliao/agent-state/internal/awareness"
	"github.com/rcliao/agent-state/internal/config"
	"github.com/rcliao/agent-state/internal/goals"
	"github.com/rcliao/agent-state/internal/memory"
	"github.com/rcliao/agent-state/internal/session"
	"github.com/rcliao/agent-state/internal/store"
	"github.com/rcliao/agent-state/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Server holds the wired engine and its MCP surface.
type Server struct {
	mcp    *server.MCPServer
	store  *store.Store
	mem    *memory.Manager
	log    *bolt.Logger
	reaper config.ReaperConfig
}

// New builds the engine over the database at dbPath and registers every
// tool. The caller owns the returned Server and must Close it.
func New(dbPath string, cfg config.Config, log *bolt.Logger) (*Server, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	mem := memory.NewManager(st)
	graph := goals.NewGraph(st)
	aw := awareness.NewService(st, mem)
	coord := session.NewCoordinator(st, mem, aw, limitsFrom(cfg.Session))

	s := server.NewMCPServer(
		"agent-state",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	register(s, mem, graph, aw, coord)

	return &Server{
		mcp:    s,
		store:  st,
		mem:    mem,
		log:    log,
		reaper: cfg.Reaper,
	}, nil
}

// Serve runs the stdio transport until the client disconnects. When the
// reaper is enabled, expired working-memory rows are swept in the
// background; otherwise they stay on disk until an explicit reap.
func (s *Server) Serve(ctx context.Context) error {
	if s.reaper.Enabled {
		go s.runReaper(ctx)
	}
	s.log.Info().Str("version", Version).Msg("serving on stdio")
	return server.ServeStdio(s.mcp)
}

// Close releases the database.
func (s *Server) Close() error {
	return s.store.Close()
}

func (s *Server) runReaper(ctx context.Context) {
	interval := time.Duration(s.reaper.IntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.mem.ReapExpired(ctx)
			if err != nil {
				s.log.Warn().Err(err).Msg("reap expired working memory")
				continue
			}
			if n > 0 {
				s.log.Info().Int("reaped", int(n)).Msg("swept expired working memory")
			}
		}
	}
}

func register(s *server.MCPServer, mem *memory.Manager, graph *goals.Graph, aw *awareness.Service, coord *session.Coordinator) {
	remember := tools.NewRememberWorkingTool(mem)
	s.AddTool(remember.Definition(), remember.Handle)

	recall := tools.NewRecallWorkingTool(mem)
	s.AddTool(recall.Definition(), recall.Handle)

	episode := tools.NewRecordEpisodeTool(mem)
	s.AddTool(episode.Definition(), episode.Handle)

	concept := tools.NewUpsertConceptTool(mem)
	s.AddTool(concept.Definition(), concept.Handle)

	skill := tools.NewLearnSkillTool(mem)
	s.AddTool(skill.Definition(), skill.Handle)

	search := tools.NewSearchTool(mem)
	s.AddTool(search.Definition(), search.Handle)

	status := tools.NewStatusTool(mem)
	s.AddTool(status.Definition(), status.Handle)

	createGoal := tools.NewCreateGoalTool(graph)
	s.AddTool(createGoal.Definition(), createGoal.Handle)

	listGoals := tools.NewListGoalsTool(graph)
	s.AddTool(listGoals.Definition(), listGoals.Handle)

	createTask := tools.NewCreateTaskTool(graph)
	s.AddTool(createTask.Definition(), createTask.Handle)

	updateTask := tools.NewUpdateTaskStatusTool(graph)
	s.AddTool(updateTask.Definition(), updateTask.Handle)

	nextTask := tools.NewGetNextTaskTool(graph)
	s.AddTool(nextTask.Definition(), nextTask.Handle)

	completeGoal := tools.NewCompleteGoalTool(graph)
	s.AddTool(completeGoal.Definition(), completeGoal.Handle)

	sessionStart := tools.NewSessionStartTool(coord)
	s.AddTool(sessionStart.Definition(), sessionStart.Handle)

	sessionEnd := tools.NewSessionEndTool(coord)
	s.AddTool(sessionEnd.Definition(), sessionEnd.Handle)

	currentContext := tools.NewGetCurrentContextTool(coord)
	s.AddTool(currentContext.Definition(), currentContext.Handle)

	getIdentity := tools.NewGetIdentityTool(aw)
	s.AddTool(getIdentity.Definition(), getIdentity.Handle)

	setIdentity := tools.NewSetIdentityTool(aw)
	s.AddTool(setIdentity.Definition(), setIdentity.Handle)

	recordGap := tools.NewRecordKnowledgeGapTool(aw)
	s.AddTool(recordGap.Definition(), recordGap.Handle)

	getGaps := tools.NewGetKnowledgeGapsTool(aw)
	s.AddTool(getGaps.Definition(), getGaps.Handle)

	recordOutcome := tools.NewRecordActionOutcomeTool(aw)
	s.AddTool(recordOutcome.Definition(), recordOutcome.Handle)

	similarActions := tools.NewGetSimilarPastActionsTool(aw)
	s.AddTool(similarActions.Definition(), similarActions.Handle)

	metacognition := tools.NewRecordMetacognitionTool(aw)
	s.AddTool(metacognition.Definition(), metacognition.Handle)
}

func limitsFrom(c config.SessionConfig) session.Limits {
	return session.Limits{
		Goals:           c.Goals,
		PendingTasks:    c.PendingTasks,
		InProgressTasks: c.InProgressTasks,
		RecentEvents:    c.RecentEvents,
		MinEventWeight:  c.MinEventWeight,
		WorkingItems:    c.WorkingItems,
		HandoffTTL:      time.Duration(c.HandoffDays) * 24 * time.Hour,
	}
}

const instructions = `Persistent state for a long-lived agent: four memory
tiers (working, episodic, semantic, procedural), a goal/task graph, and
session continuity. Call session_start when a session begins and
session_end with a summary when it ends. Use remember_working for
short-lived context, record_episode for experiences, upsert_concept for
facts, and learn_skill for procedures.`
