package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-state/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show per-tier item counts",
		Run:   runStatus,
	}

	RootCmd.AddCommand(cmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	s := openStore(loadConfig())
	defer s.Close()

	status, err := memory.NewManager(s).Status(cmd.Context())
	if err != nil {
		exitErr("status", err)
	}
	printJSON(status)
}
