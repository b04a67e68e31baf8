package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-state/internal/server"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long:  "Expose every operation as MCP tools over stdio. Logs go to stderr; stdout is the transport.",
		Run:   runServe,
	}

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	log := newLogger(cfg)

	srv, err := server.New(cfg.ResolveDBPath(dbPath), cfg, log)
	if err != nil {
		exitErr("start server", err)
	}
	defer srv.Close()

	if err := srv.Serve(cmd.Context()); err != nil {
		exitErr("serve", err)
	}
}
