package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/firebase-memory/internal/config"
)

func init() {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and connectivity",
		Long: "Report missing environment variables, inspect the Claude Desktop config for a " +
			config.DesktopServerName + " entry, and optionally round-trip a write to the store.",
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}

	cmd.Flags().Bool("ping", false, "Write, read and delete a health-check record in the store")

	RootCmd.AddCommand(cmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ping, _ := cmd.Flags().GetBool("ping")
	out := cmd.OutOrStdout()
	healthy := true

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Fprintln(out, "Environment")
	if cfg.EnvFile != "" {
		fmt.Fprintf(out, "  env file: %s\n", cfg.EnvFile)
	} else {
		fmt.Fprintf(out, "  env file: none (looked for %s)\n", envFile)
	}
	fmt.Fprintf(out, "  backend:  %s\n", cfg.Backend)
	missing := map[string]bool{}
	for _, name := range cfg.MissingFirebaseVars() {
		missing[name] = true
	}
	for _, name := range config.RequiredFirebaseVars {
		fmt.Fprintf(out, "  %s %s\n", mark(!missing[name]), name)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(out, "  %s %v\n", mark(false), err)
		healthy = false
	}

	fmt.Fprintln(out, "\nClaude Desktop")
	home, _ := os.UserHomeDir()
	reportDesktop(out, home)

	if ping && healthy {
		fmt.Fprintln(out, "\nStore")
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		start := time.Now()
		if err := sess.store.Ping(cmd.Context()); err != nil {
			fmt.Fprintf(out, "  %s ping failed: %v\n", mark(false), err)
			healthy = false
		} else {
			fmt.Fprintf(out, "  %s ping ok (%s)\n", mark(true), time.Since(start).Round(time.Millisecond))
		}
	}

	if !healthy {
		return errUnhealthy
	}
	return nil
}

var errUnhealthy = errors.New("configuration is incomplete")

func reportDesktop(out io.Writer, home string) {
	r, err := config.CheckDesktop(home)
	if err != nil {
		fmt.Fprintf(out, "  %s %v\n", mark(false), err)
		return
	}
	fmt.Fprintf(out, "  config: %s\n", r.Path)
	switch {
	case !r.HasServers:
		fmt.Fprintf(out, "  %s no mcpServers section\n", mark(false))
	case r.Server == nil:
		fmt.Fprintf(out, "  %s %s server not configured\n", mark(false), config.DesktopServerName)
	default:
		fmt.Fprintf(out, "  %s %s server configured: %s %v\n",
			mark(true), config.DesktopServerName, r.Server.Command, r.Server.Args)
		for _, name := range config.RequiredFirebaseVars {
			fmt.Fprintf(out, "    %s %s\n", mark(r.EnvStatus[name]), name)
		}
	}
}

func mark(ok bool) string {
	if ok {
		return "ok     "
	}
	return "missing"
}
