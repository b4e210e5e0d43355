// Package query filters, orders and truncates snapshots of memories.
package query

import (
	"sort"
	"strings"

	"github.com/rcliao/firebase-memory/internal/model"
)

// DefaultLimit is the result size used when the caller gives none.
const DefaultLimit = 10

// Filter holds optional predicates. Empty fields are ignored.
type Filter struct {
	Text string // case-insensitive substring of content
	Tag  string // exact tag membership
	Type string // exact metadata.type
}

// Match reports whether m satisfies every predicate set in f.
func (f Filter) Match(m model.Memory) bool {
	if f.Text != "" && !strings.Contains(strings.ToLower(m.Content), strings.ToLower(f.Text)) {
		return false
	}
	if f.Tag != "" && !m.HasTag(f.Tag) {
		return false
	}
	if f.Type != "" && m.Metadata.Type != f.Type {
		return false
	}
	return true
}

// Evaluate returns the memories matching f, newest first, capped at limit.
// Memories with equal timestamps keep their input order. The input slice is
// not modified.
func Evaluate(records []model.Memory, f Filter, limit int) []model.Memory {
	if limit <= 0 {
		return []model.Memory{}
	}

	out := make([]model.Memory, 0, len(records))
	for _, m := range records {
		if f.Match(m) {
			out = append(out, m)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Recent is Evaluate with no predicates.
func Recent(records []model.Memory, limit int) []model.Memory {
	return Evaluate(records, Filter{}, limit)
}
