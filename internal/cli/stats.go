package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/firebase-memory/internal/query"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show collection statistics",
		RunE:  runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	all, err := sess.store.Snapshot(cmd.Context())
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	b, _ := json.MarshalIndent(query.Summarize(all), "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}
