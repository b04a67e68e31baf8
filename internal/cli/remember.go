package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/agent-state/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "remember [content]",
		Short: "Store working memory",
		Long:  "Store short-lived context in working memory. Content can be a positional arg or piped via stdin.",
		Run:   runRemember,
	}

	cmd.Flags().StringP("key", "k", "", "Context key (required)")
	cmd.Flags().IntP("priority", "p", 5, "Priority 1-10")
	cmd.Flags().Int("ttl", 60, "Minutes until expiry")

	cmd.MarkFlagRequired("key")

	RootCmd.AddCommand(cmd)
}

func runRemember(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")
	priority, _ := cmd.Flags().GetInt("priority")
	ttl, _ := cmd.Flags().GetInt("ttl")

	content := readContent(args)
	if content == "" {
		exitErr("remember", fmt.Errorf("content is required (positional arg or stdin)"))
	}

	s := openStore(loadConfig())
	defer s.Close()

	item, err := memory.NewManager(s).RememberWorking(cmd.Context(), memory.RememberParams{
		ContextKey: key,
		Content:    content,
		Priority:   priority,
		TTL:        time.Duration(ttl) * time.Minute,
	})
	if err != nil {
		exitErr("remember", err)
	}
	printJSON(item)
}

// readContent takes the positional args, falling back to stdin when piped.
func readContent(args []string) string {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " "))
	}
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		return strings.TrimSpace(string(b))
	}
	return ""
}
