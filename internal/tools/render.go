package tools

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/firebase-memory/internal/model"
)

const (
	noMemoriesText = "No memories found."
	separator      = "\n\n---\n\n"
)

// formatTimestamp renders epoch millis as UTC ISO-8601 with milliseconds.
func formatTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func formatMetadata(md model.Metadata) string {
	b, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

func renderMemory(m model.Memory) string {
	return fmt.Sprintf("ID: %s\nContent: %s\nTimestamp: %s\nMetadata: %s",
		m.ID, m.Content, formatTimestamp(m.Timestamp), formatMetadata(m.Metadata))
}

func renderList(header string, memories []model.Memory) string {
	if len(memories) == 0 {
		return noMemoriesText
	}
	parts := make([]string, len(memories))
	for i, m := range memories {
		parts[i] = renderMemory(m)
	}
	return header + "\n\n" + strings.Join(parts, separator)
}

func renderSearch(memories []model.Memory) string {
	return renderList(fmt.Sprintf("Found %d memories:", len(memories)), memories)
}

func renderRecent(memories []model.Memory) string {
	return renderList(fmt.Sprintf("Recent memories (%d):", len(memories)), memories)
}

func renderSingle(m model.Memory) string {
	return "Memory " + renderMemory(m)
}

func notFoundText(id string) string {
	return fmt.Sprintf("Memory with ID %s not found.", id)
}
