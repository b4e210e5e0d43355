package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/firebase-memory/internal/query"
	"github.com/rcliao/firebase-memory/internal/tools"
)

func init() {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the most recent memories",
		Args:  cobra.NoArgs,
		RunE:  runRecent,
	}

	cmd.Flags().IntP("limit", "l", query.DefaultLimit, "Max results")

	RootCmd.AddCommand(cmd)
}

func runRecent(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	return sess.call(cmd, tools.ListRecentMemories, map[string]any{"limit": limit})
}
