// Package cli implements the firebase-memory CLI commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/firebase-memory/internal/config"
	"github.com/rcliao/firebase-memory/internal/store"
	"github.com/rcliao/firebase-memory/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	envFile     string
	backendFlag string
	dbPath      string
	logLevel    string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:     "firebase-memory",
	Short:   "Memory tools for AI assistants, backed by Firebase",
	Long:    "An MCP server that stores, searches and recalls memories in a Firebase Realtime Database.",
	Version: Version,

	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file (skipped if missing)")
	RootCmd.PersistentFlags().StringVarP(&backendFlag, "backend", "b", "", "Storage backend: firebase or sqlite (default: $MEMORY_BACKEND or firebase)")
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite path for the sqlite backend (default: $MEMORY_DB or ~/.firebase-memory/memory.db)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $LOG_LEVEL or info)")
}

// loadConfig resolves configuration with command-line flags taking priority.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if backendFlag != "" {
		cfg.Backend = strings.ToLower(backendFlag)
	}
	if dbPath != "" {
		cfg.SQLitePath = dbPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

// newLogger writes to stderr; stdout belongs to the MCP transport.
func newLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case config.BackendSQLite:
		s, err := store.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		s, err := store.NewFirebaseStore(ctx, store.FirebaseOptions{
			DatabaseURL:     cfg.Firebase.DatabaseURL,
			ProjectID:       cfg.Firebase.ProjectID,
			StorageBucket:   cfg.Firebase.StorageBucket,
			APIKey:          cfg.Firebase.APIKey,
			CredentialsFile: cfg.Firebase.CredentialsFile,
			Collection:      cfg.Collection,
			EmulatorHost:    cfg.Firebase.EmulatorHost,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// session bundles what every data command needs.
type session struct {
	cfg   *config.Config
	log   *slog.Logger
	store store.Store
	disp  *tools.Dispatcher
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg.LogLevel)
	s, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &session{
		cfg:   cfg,
		log:   log,
		store: s,
		disp:  tools.NewDispatcher(s, tools.WithLogger(log)),
	}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.log.Warn("close store", "err", err)
	}
}

// call runs a tool through the dispatcher and prints its text result.
func (s *session) call(cmd *cobra.Command, name string, args map[string]any) error {
	text, err := s.disp.Call(cmd.Context(), name, args)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
