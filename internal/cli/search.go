package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/firebase-memory/internal/query"
	"github.com/rcliao/firebase-memory/internal/tools"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search memories by content, tag or type",
		Long:  "Search memory content (case-insensitive substring), optionally filtered by tag and type. Newest first.",
		RunE:  runSearch,
	}

	cmd.Flags().StringP("tag", "t", "", "Filter by tag")
	cmd.Flags().String("type", "", "Filter by type")
	cmd.Flags().IntP("limit", "l", query.DefaultLimit, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	tag, _ := cmd.Flags().GetString("tag")
	kind, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")

	callArgs := map[string]any{"limit": limit}
	if q := strings.Join(args, " "); q != "" {
		callArgs["query"] = q
	}
	if tag != "" {
		callArgs["tag"] = tag
	}
	if kind != "" {
		callArgs["type"] = kind
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	return sess.call(cmd, tools.SearchMemories, callArgs)
}
