// Package config loads runtime settings from a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Backends.
const (
	BackendFirebase = "firebase"
	BackendSQLite   = "sqlite"
)

// RequiredFirebaseVars must all be set before the Firebase backend can be used.
var RequiredFirebaseVars = []string{
	"FIREBASE_API_KEY",
	"FIREBASE_AUTH_DOMAIN",
	"FIREBASE_PROJECT_ID",
	"FIREBASE_STORAGE_BUCKET",
	"FIREBASE_MESSAGING_SENDER_ID",
	"FIREBASE_APP_ID",
	"FIREBASE_DATABASE_URL",
}

// Firebase holds the web app configuration of a Firebase project.
type Firebase struct {
	APIKey            string
	AuthDomain        string
	ProjectID         string
	StorageBucket     string
	MessagingSenderID string
	AppID             string
	DatabaseURL       string
	CredentialsFile   string
	// EmulatorHost points the backend at a local database emulator
	// (host:port?ns=<name>).
	EmulatorHost string
}

// Config is the resolved runtime configuration.
type Config struct {
	Backend    string
	Collection string
	SQLitePath string
	LogLevel   string
	Firebase   Firebase

	// EnvFile is the .env file that was read, or "" if none was.
	EnvFile string
}

// Load reads envFile (if it exists) and overlays the process environment.
// An empty envFile skips the file.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("MEMORY_BACKEND", BackendFirebase)
	v.SetDefault("MEMORY_COLLECTION", "memories")
	v.SetDefault("MEMORY_DB", defaultDBPath())
	v.SetDefault("LOG_LEVEL", "info")

	used := ""
	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		switch {
		case err == nil:
			used = envFile
		case errors.Is(err, fs.ErrNotExist), errors.As(err, &notFound):
		default:
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Backend:    strings.ToLower(v.GetString("MEMORY_BACKEND")),
		Collection: v.GetString("MEMORY_COLLECTION"),
		SQLitePath: v.GetString("MEMORY_DB"),
		LogLevel:   v.GetString("LOG_LEVEL"),
		Firebase: Firebase{
			APIKey:            v.GetString("FIREBASE_API_KEY"),
			AuthDomain:        v.GetString("FIREBASE_AUTH_DOMAIN"),
			ProjectID:         v.GetString("FIREBASE_PROJECT_ID"),
			StorageBucket:     v.GetString("FIREBASE_STORAGE_BUCKET"),
			MessagingSenderID: v.GetString("FIREBASE_MESSAGING_SENDER_ID"),
			AppID:             v.GetString("FIREBASE_APP_ID"),
			DatabaseURL:       v.GetString("FIREBASE_DATABASE_URL"),
			CredentialsFile:   v.GetString("FIREBASE_CREDENTIALS_FILE"),
			EmulatorHost:      v.GetString("FIREBASE_DATABASE_EMULATOR_HOST"),
		},
		EnvFile: used,
	}
	return cfg, nil
}

// MissingFirebaseVars returns the required Firebase variables that are unset.
func (c *Config) MissingFirebaseVars() []string {
	values := map[string]string{
		"FIREBASE_API_KEY":             c.Firebase.APIKey,
		"FIREBASE_AUTH_DOMAIN":         c.Firebase.AuthDomain,
		"FIREBASE_PROJECT_ID":          c.Firebase.ProjectID,
		"FIREBASE_STORAGE_BUCKET":      c.Firebase.StorageBucket,
		"FIREBASE_MESSAGING_SENDER_ID": c.Firebase.MessagingSenderID,
		"FIREBASE_APP_ID":              c.Firebase.AppID,
		"FIREBASE_DATABASE_URL":        c.Firebase.DatabaseURL,
	}
	var missing []string
	for _, name := range RequiredFirebaseVars {
		if strings.TrimSpace(values[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// Validate checks that the selected backend has everything it needs.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFirebase:
		if c.Firebase.EmulatorHost != "" {
			return nil
		}
		if missing := c.MissingFirebaseVars(); len(missing) > 0 {
			return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("MEMORY_DB must be set for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown backend %q (use %s or %s)", c.Backend, BackendFirebase, BackendSQLite)
	}
	return nil
}

func defaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".firebase-memory", "memory.db")
}
