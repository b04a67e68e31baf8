package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-state/internal/goals"
)

func init() {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Work with goals",
	}

	create := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a goal",
		Args:  cobra.ExactArgs(1),
		Run:   runGoalCreate,
	}
	create.Flags().String("desc", "", "Description")

	list := &cobra.Command{
		Use:   "list",
		Short: "List goals",
		Run:   runGoalList,
	}
	list.Flags().StringP("status", "s", "", "active or completed (default active)")

	complete := &cobra.Command{
		Use:   "complete [goal-id]",
		Short: "Complete a goal and all its tasks",
		Args:  cobra.ExactArgs(1),
		Run:   runGoalComplete,
	}

	cmd.AddCommand(create, list, complete)
	RootCmd.AddCommand(cmd)
}

func runGoalCreate(cmd *cobra.Command, args []string) {
	desc, _ := cmd.Flags().GetString("desc")

	s := openStore(loadConfig())
	defer s.Close()

	goal, err := goals.NewGraph(s).CreateGoal(cmd.Context(), args[0], desc)
	if err != nil {
		exitErr("goal create", err)
	}
	printJSON(goal)
}

func runGoalList(cmd *cobra.Command, args []string) {
	status, _ := cmd.Flags().GetString("status")

	s := openStore(loadConfig())
	defer s.Close()

	list, err := goals.NewGraph(s).ListGoals(cmd.Context(), status)
	if err != nil {
		exitErr("goal list", err)
	}
	printJSON(list)
}

func runGoalComplete(cmd *cobra.Command, args []string) {
	s := openStore(loadConfig())
	defer s.Close()

	if err := goals.NewGraph(s).CompleteGoal(cmd.Context(), args[0]); err != nil {
		exitErr("goal complete", err)
	}
	printJSON(map[string]string{"goal_id": args[0], "status": "completed"})
}
