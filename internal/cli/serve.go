package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rcliao/firebase-memory/internal/mcpserver"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long:  "Serve the memory tools over the Model Context Protocol on stdin/stdout. Logs go to stderr.",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	sess.log.Info("store connected", "backend", sess.cfg.Backend, "collection", sess.cfg.Collection)

	srv := mcpserver.New(sess.disp, Version)
	sess.log.Info("mcp server running on stdio", "name", mcpserver.Name, "version", Version)

	errLog := slog.NewLogLogger(sess.log.Handler(), slog.LevelError)
	if err := mcpserver.Serve(ctx, srv, os.Stdin, os.Stdout, errLog); err != nil && ctx.Err() == nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
