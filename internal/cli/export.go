package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-state/internal/goals"
	"github.com/rcliao/agent-state/internal/memory"
	"github.com/rcliao/agent-state/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump all state as JSON",
		Long:  "Dump every memory tier and the goal graph as JSON. Includes expired working memory; a backup is not a read.",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

type exportDump struct {
	Memory *memory.Dump `json:"memory"`
	Goals  *goals.Dump  `json:"goals"`
}

func runExport(cmd *cobra.Command, args []string) {
	s := openStore(loadConfig())
	defer s.Close()

	var dump exportDump
	err := s.View(cmd.Context(), func(q store.Querier) error {
		var e error
		if dump.Memory, e = memory.DumpAll(cmd.Context(), q); e != nil {
			return e
		}
		dump.Goals, e = goals.DumpAll(cmd.Context(), q)
		return e
	})
	if err != nil {
		exitErr("export", err)
	}
	printJSON(dump)
}
