package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-state/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reap",
		Short: "Delete expired working memory",
		Long:  "Physically delete working-memory rows past their expiry. Expired rows are already invisible to reads; this reclaims the space.",
		Run:   runReap,
	}

	RootCmd.AddCommand(cmd)
}

func runReap(cmd *cobra.Command, args []string) {
	s := openStore(loadConfig())
	defer s.Close()

	n, err := memory.NewManager(s).ReapExpired(cmd.Context())
	if err != nil {
		exitErr("reap", err)
	}
	printJSON(map[string]int64{"reaped": n})
}
