package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-state/internal/awareness"
	"github.com/rcliao/agent-state/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "The agent's self-model",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the agent's identity",
		Run:   runIdentityShow,
	}

	set := &cobra.Command{
		Use:   "set",
		Short: "Update identity fields",
		Long:  "Update fields of the agent's self-model. Unset flags leave their field unchanged.",
		Run:   runIdentitySet,
	}
	set.Flags().String("name", "", "The agent's name")
	set.Flags().String("purpose", "", "What the agent is for")
	set.Flags().String("capabilities", "", "What the agent can do")
	set.Flags().String("limitations", "", "What the agent cannot do")
	set.Flags().String("personality", "", "How the agent behaves")

	cmd.AddCommand(show, set)
	RootCmd.AddCommand(cmd)
}

func runIdentityShow(cmd *cobra.Command, args []string) {
	s := openStore(loadConfig())
	defer s.Close()

	identity, err := awareness.NewService(s, memory.NewManager(s)).Identity(cmd.Context())
	if err != nil {
		exitErr("identity show", err)
	}
	printJSON(identity)
}

func runIdentitySet(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	purpose, _ := cmd.Flags().GetString("purpose")
	capabilities, _ := cmd.Flags().GetString("capabilities")
	limitations, _ := cmd.Flags().GetString("limitations")
	personality, _ := cmd.Flags().GetString("personality")

	s := openStore(loadConfig())
	defer s.Close()

	updated, err := awareness.NewService(s, memory.NewManager(s)).SetIdentity(cmd.Context(), awareness.IdentityParams{
		Name:         name,
		Purpose:      purpose,
		Capabilities: capabilities,
		Limitations:  limitations,
		Personality:  personality,
	})
	if err != nil {
		exitErr("identity set", err)
	}
	printJSON(map[string]any{"updated": updated})
}
