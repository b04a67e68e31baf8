package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-state/internal/memory"
	"github.com/rcliao/agent-state/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "concept",
		Short: "Work with semantic memory",
	}

	set := &cobra.Command{
		Use:   "set [concept] [definition]",
		Short: "Store or replace a concept",
		Args:  cobra.ExactArgs(2),
		Run:   runConceptSet,
	}
	set.Flags().Float64P("confidence", "c", 0.5, "Confidence 0.0-1.0")

	list := &cobra.Command{
		Use:   "list [concepts...]",
		Short: "Show concepts (all when none named)",
		Run:   runConceptList,
	}

	cmd.AddCommand(set, list)
	RootCmd.AddCommand(cmd)
}

func runConceptSet(cmd *cobra.Command, args []string) {
	confidence, _ := cmd.Flags().GetFloat64("confidence")

	s := openStore(loadConfig())
	defer s.Close()

	item, err := memory.NewManager(s).UpsertConcept(cmd.Context(), memory.ConceptParams{
		Concept:    args[0],
		Definition: args[1],
		Confidence: confidence,
	})
	if err != nil {
		exitErr("concept set", err)
	}
	printJSON(item)
}

func runConceptList(cmd *cobra.Command, args []string) {
	s := openStore(loadConfig())
	defer s.Close()

	var items any
	err := s.View(cmd.Context(), func(q store.Querier) error {
		var e error
		items, e = memory.Concepts(cmd.Context(), q, args...)
		return e
	})
	if err != nil {
		exitErr("concept list", err)
	}
	printJSON(items)
}
