package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-state/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search memory",
		Long:  "Search memory tiers for a text fragment, case-insensitively.",
		Args:  cobra.ExactArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().StringP("tier", "t", "all", "Tier: working, episodic, semantic, procedural, all")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	tier, _ := cmd.Flags().GetString("tier")

	s := openStore(loadConfig())
	defer s.Close()

	results, err := memory.NewManager(s).Search(cmd.Context(), args[0], tier)
	if err != nil {
		exitErr("search", err)
	}
	printJSON(results)
}
