package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-state/internal/goals"
)

func init() {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Work with tasks",
	}

	create := &cobra.Command{
		Use:   "create [goal-id] [title]",
		Short: "Create a task under a goal",
		Args:  cobra.ExactArgs(2),
		Run:   runTaskCreate,
	}
	create.Flags().IntP("priority", "p", 5, "Priority 1-10, higher first")

	status := &cobra.Command{
		Use:   "status [task-id] [status]",
		Short: "Set a task's status",
		Long:  "Set a task's status: pending, in_progress, completed, or blocked.",
		Args:  cobra.ExactArgs(2),
		Run:   runTaskStatus,
	}

	next := &cobra.Command{
		Use:   "next",
		Short: "Show the highest-priority pending task",
		Run:   runTaskNext,
	}

	cmd.AddCommand(create, status, next)
	RootCmd.AddCommand(cmd)
}

func runTaskCreate(cmd *cobra.Command, args []string) {
	priority, _ := cmd.Flags().GetInt("priority")

	s := openStore(loadConfig())
	defer s.Close()

	task, err := goals.NewGraph(s).CreateTask(cmd.Context(), goals.TaskParams{
		GoalID:   args[0],
		Title:    args[1],
		Priority: priority,
	})
	if err != nil {
		exitErr("task create", err)
	}
	printJSON(task)
}

func runTaskStatus(cmd *cobra.Command, args []string) {
	s := openStore(loadConfig())
	defer s.Close()

	if err := goals.NewGraph(s).UpdateTaskStatus(cmd.Context(), args[0], args[1]); err != nil {
		exitErr("task status", err)
	}
	printJSON(map[string]string{"task_id": args[0], "status": args[1]})
}

func runTaskNext(cmd *cobra.Command, args []string) {
	s := openStore(loadConfig())
	defer s.Close()

	task, err := goals.NewGraph(s).NextTask(cmd.Context())
	if err != nil {
		exitErr("task next", err)
	}
	if task == nil {
		printJSON(map[string]string{"message": "No pending tasks"})
		return
	}
	printJSON(task)
}
