package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/agent-state/internal/awareness"
	"github.com/rcliao/agent-state/internal/config"
	"github.com/rcliao/agent-state/internal/memory"
	"github.com/rcliao/agent-state/internal/session"
	"github.com/rcliao/agent-state/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session boundaries",
	}

	start := &cobra.Command{
		Use:   "start",
		Short: "Reconstruct state for a new session",
		Run:   runSessionStart,
	}

	end := &cobra.Command{
		Use:   "end [summary]",
		Short: "Record the end of a session",
		Run:   runSessionEnd,
	}
	end.Flags().Float64P("significance", "s", 0, "Significance 0.0-1.0 (default 0.5)")

	cmd.AddCommand(start, end)
	RootCmd.AddCommand(cmd)
}

func newCoordinator(s *store.Store, cfg config.Config) *session.Coordinator {
	mem := memory.NewManager(s)
	aw := awareness.NewService(s, mem)
	return session.NewCoordinator(s, mem, aw, session.Limits{
		Goals:           cfg.Session.Goals,
		PendingTasks:    cfg.Session.PendingTasks,
		InProgressTasks: cfg.Session.InProgressTasks,
		RecentEvents:    cfg.Session.RecentEvents,
		MinEventWeight:  cfg.Session.MinEventWeight,
		WorkingItems:    cfg.Session.WorkingItems,
		HandoffTTL:      time.Duration(cfg.Session.HandoffDays) * 24 * time.Hour,
	})
}

func runSessionStart(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	snap, err := newCoordinator(s, cfg).Start(cmd.Context())
	if err != nil {
		exitErr("session start", err)
	}
	printJSON(snap)
}

func runSessionEnd(cmd *cobra.Command, args []string) {
	significance, _ := cmd.Flags().GetFloat64("significance")

	summary := readContent(args)
	if summary == "" {
		exitErr("session end", fmt.Errorf("summary is required (positional arg or stdin)"))
	}

	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	receipt, err := newCoordinator(s, cfg).End(cmd.Context(), summary, significance)
	if err != nil {
		exitErr("session end", err)
	}
	printJSON(receipt)
}
