package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/firebase-memory/internal/tools"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Retrieve a memory by ID",
		Args:  cobra.ExactArgs(1),
		RunE:  runGet,
	}

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	return sess.call(cmd, tools.GetMemory, map[string]any{"id": args[0]})
}
