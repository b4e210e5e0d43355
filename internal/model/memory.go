// Package model defines the core memory data types.
package model

import "encoding/json"

const (
	// DefaultImportance is used when importance is absent or out of range.
	DefaultImportance = 5
	// MinImportance and MaxImportance bound metadata.importance.
	MinImportance = 1
	MaxImportance = 10
	// DefaultType is used when metadata.type is absent or not a string.
	DefaultType = "general"
)

// Memory represents a stored memory entry.
type Memory struct {
	ID        string   `json:"id"`
	Content   string   `json:"content"`
	Metadata  Metadata `json:"metadata"`
	Timestamp int64    `json:"timestamp"` // epoch milliseconds
}

// Metadata holds the normalized metadata fields plus any extra keys the
// caller supplied.
type Metadata struct {
	Tags       []string
	Importance int
	Type       string
	Extra      map[string]any
}

var reservedKeys = map[string]bool{
	"tags":       true,
	"importance": true,
	"type":       true,
}

// MarshalJSON flattens Extra next to the normalized fields.
func (m Metadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+3)
	for k, v := range m.Extra {
		if reservedKeys[k] {
			continue
		}
		out[k] = v
	}
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	out["tags"] = tags
	out["importance"] = m.Importance
	out["type"] = m.Type
	return json.Marshal(out)
}

// UnmarshalJSON decodes a memory whose metadata may be missing. An absent
// type reads as DefaultType; an explicit empty string is kept.
func (m *Memory) UnmarshalJSON(data []byte) error {
	type plain Memory
	p := plain{Metadata: Metadata{Type: DefaultType}}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = Memory(p)
	return nil
}

// UnmarshalJSON reads the normalized fields and keeps everything else in Extra.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Metadata{Type: DefaultType}
	for k, v := range raw {
		switch k {
		case "tags":
			if err := json.Unmarshal(v, &m.Tags); err != nil {
				m.Tags = nil
			}
		case "importance":
			var f float64
			if err := json.Unmarshal(v, &f); err == nil {
				m.Importance = int(f)
			}
		case "type":
			var t string
			if err := json.Unmarshal(v, &t); err == nil {
				m.Type = t
			}
		default:
			var x any
			if err := json.Unmarshal(v, &x); err != nil {
				return err
			}
			if m.Extra == nil {
				m.Extra = make(map[string]any)
			}
			m.Extra[k] = x
		}
	}
	return nil
}

// HasTag reports whether tag is one of the memory's tags.
func (m Memory) HasTag(tag string) bool {
	for _, t := range m.Metadata.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Repair fills gaps in a record read back from a store. key is the record's
// key in the collection.
func (m *Memory) Repair(key string) {
	if m.ID == "" {
		m.ID = key
	}
	if m.Metadata.Tags == nil {
		m.Metadata.Tags = []string{}
	}
	if m.Metadata.Importance < MinImportance || m.Metadata.Importance > MaxImportance {
		m.Metadata.Importance = DefaultImportance
	}
}
