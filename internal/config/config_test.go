package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range append(RequiredFirebaseVars,
		"FIREBASE_CREDENTIALS_FILE", "FIREBASE_DATABASE_EMULATOR_HOST", "MEMORY_BACKEND", "MEMORY_COLLECTION", "MEMORY_DB", "LOG_LEVEL") {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func writeEnvFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, BackendFirebase, cfg.Backend)
	assert.Equal(t, "memories", cfg.Collection)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.SQLitePath)
	assert.Empty(t, cfg.EnvFile)
	assert.Equal(t, RequiredFirebaseVars, cfg.MissingFirebaseVars())
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, `FIREBASE_API_KEY=key
FIREBASE_AUTH_DOMAIN=demo.firebaseapp.com
FIREBASE_PROJECT_ID=demo
FIREBASE_STORAGE_BUCKET=demo.appspot.com
FIREBASE_MESSAGING_SENDER_ID=123
FIREBASE_APP_ID=1:123:web:abc
FIREBASE_DATABASE_URL=https://demo-default-rtdb.firebaseio.com
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.EnvFile)
	assert.Equal(t, "demo", cfg.Firebase.ProjectID)
	assert.Equal(t, "https://demo-default-rtdb.firebaseio.com", cfg.Firebase.DatabaseURL)
	assert.Empty(t, cfg.MissingFirebaseVars())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "FIREBASE_PROJECT_ID=from-file\nMEMORY_BACKEND=sqlite\n")
	t.Setenv("FIREBASE_PROJECT_ID", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Firebase.ProjectID)
	assert.Equal(t, BackendSQLite, cfg.Backend)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Backend: BackendFirebase, Firebase: Firebase{APIKey: "k", DatabaseURL: "https://x"}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIREBASE_PROJECT_ID")
	assert.NotContains(t, err.Error(), "FIREBASE_API_KEY")
	assert.Len(t, cfg.MissingFirebaseVars(), 5)

	cfg = &Config{Backend: BackendSQLite, SQLitePath: "/tmp/x.db"}
	assert.NoError(t, cfg.Validate())

	cfg = &Config{Backend: "redis"}
	assert.Error(t, cfg.Validate())
}

func TestValidate_EmulatorNeedsNoProjectVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("FIREBASE_DATABASE_EMULATOR_HOST", "localhost:9000?ns=demo")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000?ns=demo", cfg.Firebase.EmulatorHost)
	assert.Len(t, cfg.MissingFirebaseVars(), len(RequiredFirebaseVars))
	assert.NoError(t, cfg.Validate())
}
