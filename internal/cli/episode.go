package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/agent-state/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "episode",
		Short: "Work with the episodic log",
	}

	record := &cobra.Command{
		Use:   "record [content]",
		Short: "Record an episode",
		Run:   runEpisodeRecord,
	}
	record.Flags().StringP("type", "t", "", "Event type (required)")
	record.Flags().Float64P("significance", "s", 0.5, "Significance 0.0-1.0")
	record.MarkFlagRequired("type")

	list := &cobra.Command{
		Use:   "list",
		Short: "List recent episodes",
		Run:   runEpisodeList,
	}
	list.Flags().StringP("type", "t", "", "Only this event type")
	list.Flags().Float64P("min-significance", "s", 0, "Minimum significance")
	list.Flags().IntP("limit", "n", 20, "Maximum results")

	cmd.AddCommand(record, list)
	RootCmd.AddCommand(cmd)
}

func runEpisodeRecord(cmd *cobra.Command, args []string) {
	eventType, _ := cmd.Flags().GetString("type")
	significance, _ := cmd.Flags().GetFloat64("significance")

	content := readContent(args)
	if content == "" {
		exitErr("episode record", fmt.Errorf("content is required (positional arg or stdin)"))
	}

	s := openStore(loadConfig())
	defer s.Close()

	item, err := memory.NewManager(s).RecordEpisode(cmd.Context(), memory.EpisodeParams{
		EventType:    eventType,
		Content:      content,
		Significance: significance,
	})
	if err != nil {
		exitErr("episode record", err)
	}
	printJSON(item)
}

func runEpisodeList(cmd *cobra.Command, args []string) {
	eventType, _ := cmd.Flags().GetString("type")
	minSig, _ := cmd.Flags().GetFloat64("min-significance")
	limit, _ := cmd.Flags().GetInt("limit")

	s := openStore(loadConfig())
	defer s.Close()

	items, err := memory.NewManager(s).RecentEpisodes(cmd.Context(), memory.EpisodeQuery{
		EventType:       eventType,
		MinSignificance: minSig,
		Limit:           limit,
	})
	if err != nil {
		exitErr("episode list", err)
	}
	printJSON(items)
}
