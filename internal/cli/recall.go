package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-state/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "recall",
		Short: "Retrieve working memory",
		Long:  "Retrieve unexpired working memory, highest priority first.",
		Run:   runRecall,
	}

	cmd.Flags().StringP("key", "k", "", "Only items with this context key")

	RootCmd.AddCommand(cmd)
}

func runRecall(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")

	s := openStore(loadConfig())
	defer s.Close()

	items, err := memory.NewManager(s).RecallWorking(cmd.Context(), key)
	if err != nil {
		exitErr("recall", err)
	}
	printJSON(items)
}
