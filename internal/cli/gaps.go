package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-state/internal/awareness"
	"github.com/rcliao/agent-state/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "gaps",
		Short: "Knowledge gaps",
	}

	record := &cobra.Command{
		Use:   "record [domain] [description]",
		Short: "Record a knowledge gap",
		Args:  cobra.ExactArgs(2),
		Run:   runGapsRecord,
	}
	record.Flags().Float64P("severity", "s", 0.5, "Severity 0.0-1.0")

	list := &cobra.Command{
		Use:   "list",
		Short: "List knowledge gaps, most severe first",
		Run:   runGapsList,
	}
	list.Flags().Float64P("min-severity", "s", 0, "Minimum severity")

	cmd.AddCommand(record, list)
	RootCmd.AddCommand(cmd)
}

func runGapsRecord(cmd *cobra.Command, args []string) {
	severity, _ := cmd.Flags().GetFloat64("severity")

	s := openStore(loadConfig())
	defer s.Close()

	receipt, err := awareness.NewService(s, memory.NewManager(s)).RecordGap(cmd.Context(), args[0], args[1], severity)
	if err != nil {
		exitErr("gaps record", err)
	}
	printJSON(receipt)
}

func runGapsList(cmd *cobra.Command, args []string) {
	minSeverity, _ := cmd.Flags().GetFloat64("min-severity")

	s := openStore(loadConfig())
	defer s.Close()

	gaps, err := awareness.NewService(s, memory.NewManager(s)).Gaps(cmd.Context(), minSeverity)
	if err != nil {
		exitErr("gaps list", err)
	}
	printJSON(gaps)
}
