package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/firebase-memory/internal/query"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export memories as JSON",
		Long:  "Export every memory as a JSON array, newest first. Filter with --tag and --type.",
		RunE:  runExport,
	}

	cmd.Flags().StringP("tag", "t", "", "Filter by tag")
	cmd.Flags().String("type", "", "Filter by type")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	tag, _ := cmd.Flags().GetString("tag")
	kind, _ := cmd.Flags().GetString("type")

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	all, err := sess.store.Snapshot(cmd.Context())
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	memories := query.Evaluate(all, query.Filter{Tag: tag, Type: kind}, len(all))

	b, _ := json.MarshalIndent(memories, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}
