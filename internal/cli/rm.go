package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/firebase-memory/internal/tools"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a memory by ID",
		Args:  cobra.ExactArgs(1),
		RunE:  runRm,
	}

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	return sess.call(cmd, tools.DeleteMemory, map[string]any{"id": args[0]})
}
