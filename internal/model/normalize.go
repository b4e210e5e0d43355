package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidInput is returned when a write payload fails validation.
var ErrInvalidInput = errors.New("invalid input")

// Normalize builds a Memory from an untyped write payload. Malformed metadata
// fields fall back to their defaults; only content can make it fail.
func Normalize(rawContent, rawMetadata any, id string, now time.Time) (Memory, error) {
	content, ok := rawContent.(string)
	if !ok {
		return Memory{}, fmt.Errorf("%w: content is required and must be a string", ErrInvalidInput)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return Memory{}, fmt.Errorf("%w: content must not be empty", ErrInvalidInput)
	}

	meta, _ := rawMetadata.(map[string]any)

	m := Memory{
		ID:      id,
		Content: content,
		Metadata: Metadata{
			Tags:       normalizeTags(meta["tags"]),
			Importance: normalizeImportance(meta["importance"]),
			Type:       normalizeType(meta["type"]),
		},
		Timestamp: now.UnixMilli(),
	}
	for k, v := range meta {
		if reservedKeys[k] {
			continue
		}
		if m.Metadata.Extra == nil {
			m.Metadata.Extra = make(map[string]any)
		}
		m.Metadata.Extra[k] = v
	}
	return m, nil
}

func normalizeTags(v any) []string {
	switch tags := v.(type) {
	case []string:
		return append([]string{}, tags...)
	case []any:
		out := make([]string, 0, len(tags))
		for _, t := range tags {
			s, ok := t.(string)
			if !ok {
				return []string{}
			}
			out = append(out, s)
		}
		return out
	}
	return []string{}
}

func normalizeImportance(v any) int {
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) || f < MinImportance || f > MaxImportance {
		return DefaultImportance
	}
	return int(f)
}

func normalizeType(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return DefaultType
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
