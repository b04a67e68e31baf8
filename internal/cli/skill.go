package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-state/internal/memory"
	"github.com/rcliao/agent-state/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "skill",
		Short: "Work with procedural memory",
	}

	learn := &cobra.Command{
		Use:   "learn [name] [steps]",
		Short: "Store or update a skill",
		Args:  cobra.ExactArgs(2),
		Run:   runSkillLearn,
	}

	show := &cobra.Command{
		Use:   "show [name]",
		Short: "Show a skill",
		Args:  cobra.ExactArgs(1),
		Run:   runSkillShow,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all skills",
		Run:   runSkillList,
	}

	cmd.AddCommand(learn, show, list)
	RootCmd.AddCommand(cmd)
}

func runSkillLearn(cmd *cobra.Command, args []string) {
	s := openStore(loadConfig())
	defer s.Close()

	item, err := memory.NewManager(s).LearnSkill(cmd.Context(), memory.SkillParams{
		SkillName: args[0],
		Steps:     args[1],
	})
	if err != nil {
		exitErr("skill learn", err)
	}
	printJSON(item)
}

func runSkillShow(cmd *cobra.Command, args []string) {
	s := openStore(loadConfig())
	defer s.Close()

	var item any
	err := s.View(cmd.Context(), func(q store.Querier) error {
		var e error
		item, e = memory.GetSkill(cmd.Context(), q, args[0])
		return e
	})
	if err != nil {
		exitErr("skill show", err)
	}
	printJSON(item)
}

func runSkillList(cmd *cobra.Command, args []string) {
	s := openStore(loadConfig())
	defer s.Close()

	var items any
	err := s.View(cmd.Context(), func(q store.Querier) error {
		var e error
		items, e = memory.Skills(cmd.Context(), q)
		return e
	})
	if err != nil {
		exitErr("skill list", err)
	}
	printJSON(items)
}
