package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DesktopServerName is the key the server is registered under in the Claude
// Desktop configuration.
const DesktopServerName = "firebase-memory"

// DesktopConfigPaths lists where Claude Desktop keeps its config, per platform.
func DesktopConfigPaths(home string) []string {
	return []string{
		filepath.Join(home, "AppData", "Roaming", "Claude", "claude_desktop_config.json"),
		filepath.Join(home, ".config", "claude", "claude_desktop_config.json"),
		filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json"),
	}
}

// DesktopServer is one entry under mcpServers.
type DesktopServer struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env"`
}

// DesktopReport describes what was found in the Claude Desktop config.
type DesktopReport struct {
	Path       string          `json:"path"`
	HasServers bool            `json:"has_mcp_servers"`
	Server     *DesktopServer  `json:"server,omitempty"`
	EnvStatus  map[string]bool `json:"env_status,omitempty"`
}

// Configured reports whether the server entry exists with every required
// variable set.
func (r *DesktopReport) Configured() bool {
	if r.Server == nil {
		return false
	}
	for _, ok := range r.EnvStatus {
		if !ok {
			return false
		}
	}
	return len(r.EnvStatus) == len(RequiredFirebaseVars)
}

// CheckDesktop finds the first readable Claude Desktop config under home and
// inspects the firebase-memory entry.
func CheckDesktop(home string) (*DesktopReport, error) {
	paths := DesktopConfigPaths(home)
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		return parseDesktop(p, data)
	}
	return nil, fmt.Errorf("claude desktop config not found (looked in %v)", paths)
}

func parseDesktop(path string, data []byte) (*DesktopReport, error) {
	var doc struct {
		MCPServers map[string]DesktopServer `json:"mcpServers"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	r := &DesktopReport{Path: path, HasServers: doc.MCPServers != nil}
	srv, ok := doc.MCPServers[DesktopServerName]
	if !ok {
		return r, nil
	}
	r.Server = &srv
	r.EnvStatus = make(map[string]bool, len(RequiredFirebaseVars))
	for _, name := range RequiredFirebaseVars {
		r.EnvStatus[name] = srv.Env[name] != ""
	}
	return r, nil
}
