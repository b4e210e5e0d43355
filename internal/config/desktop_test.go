package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDesktop(t *testing.T, home, body string) string {
	t.Helper()
	path := DesktopConfigPaths(home)[1]
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestCheckDesktop_NotFound(t *testing.T) {
	_, err := CheckDesktop(t.TempDir())
	assert.Error(t, err)
}

func TestCheckDesktop_NoServer(t *testing.T) {
	home := t.TempDir()
	path := writeDesktop(t, home, `{"mcpServers":{"other":{"command":"x"}}}`)

	r, err := CheckDesktop(home)
	require.NoError(t, err)
	assert.Equal(t, path, r.Path)
	assert.True(t, r.HasServers)
	assert.Nil(t, r.Server)
	assert.False(t, r.Configured())
}

func TestCheckDesktop_PartialEnv(t *testing.T) {
	home := t.TempDir()
	writeDesktop(t, home, `{"mcpServers":{"firebase-memory":{
		"command":"firebase-memory","args":["serve"],
		"env":{"FIREBASE_API_KEY":"k","FIREBASE_DATABASE_URL":"https://x"}}}}`)

	r, err := CheckDesktop(home)
	require.NoError(t, err)
	require.NotNil(t, r.Server)
	assert.Equal(t, "firebase-memory", r.Server.Command)
	assert.Equal(t, []string{"serve"}, r.Server.Args)
	assert.True(t, r.EnvStatus["FIREBASE_API_KEY"])
	assert.False(t, r.EnvStatus["FIREBASE_APP_ID"])
	assert.False(t, r.Configured())
}

func TestCheckDesktop_Complete(t *testing.T) {
	home := t.TempDir()
	env := `"FIREBASE_API_KEY":"a","FIREBASE_AUTH_DOMAIN":"b","FIREBASE_PROJECT_ID":"c",
		"FIREBASE_STORAGE_BUCKET":"d","FIREBASE_MESSAGING_SENDER_ID":"e","FIREBASE_APP_ID":"f",
		"FIREBASE_DATABASE_URL":"g"`
	writeDesktop(t, home, `{"mcpServers":{"firebase-memory":{"command":"x","env":{`+env+`}}}}`)

	r, err := CheckDesktop(home)
	require.NoError(t, err)
	assert.True(t, r.Configured())
}

func TestCheckDesktop_Malformed(t *testing.T) {
	home := t.TempDir()
	writeDesktop(t, home, `{not json`)

	_, err := CheckDesktop(home)
	assert.Error(t, err)
}
