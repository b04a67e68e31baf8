// Package cli implements the agent-state CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-state/internal/config"
	"github.com/rcliao/agent-state/internal/store"
)

var (
	dbPath     string
	configPath string
	verbose    bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "agent-state",
	Short: "Persistent state for AI agents",
	Long:  "Tiered memory, a goal/task graph, and session continuity for a long-lived agent. SQLite-backed, single binary, MCP server included.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $AGENT_STATE_DB or ~/.agent-state/state.db)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.agent-state/config.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
}

func loadConfig() config.Config {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		exitErr("load config", err)
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg
}

// newLogger writes to stderr; stdout belongs to command output (and to the
// MCP transport under serve).
func newLogger(cfg config.Config) *bolt.Logger {
	l := bolt.New(bolt.NewConsoleHandler(os.Stderr))
	if !cfg.Verbose {
		l.SetLevel(bolt.WARN)
	}
	return l
}

func openStore(cfg config.Config) *store.Store {
	s, err := store.Open(cfg.ResolveDBPath(dbPath))
	if err != nil {
		exitErr("open store", err)
	}
	return s
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

func printJSON(v any) {
	b, _ := json.Marshal(v)
	fmt.Println(string(b))
}
