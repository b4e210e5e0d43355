package query

import (
	"sort"

	"github.com/rcliao/firebase-memory/internal/model"
)

// Summary holds collection statistics.
type Summary struct {
	Total  int          `json:"total"`
	Oldest int64        `json:"oldest,omitempty"`
	Newest int64        `json:"newest,omitempty"`
	Types  []CountEntry `json:"types"`
	Tags   []CountEntry `json:"tags"`
}

// CountEntry is a label with the number of memories carrying it.
type CountEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summarize computes statistics over a snapshot.
func Summarize(records []model.Memory) Summary {
	s := Summary{Total: len(records)}
	types := map[string]int{}
	tags := map[string]int{}

	for i, m := range records {
		if i == 0 || m.Timestamp < s.Oldest {
			s.Oldest = m.Timestamp
		}
		if m.Timestamp > s.Newest {
			s.Newest = m.Timestamp
		}
		types[m.Metadata.Type]++
		seen := map[string]bool{}
		for _, t := range m.Metadata.Tags {
			if !seen[t] {
				seen[t] = true
				tags[t]++
			}
		}
	}

	s.Types = sortedCounts(types)
	s.Tags = sortedCounts(tags)
	return s
}

// sortedCounts orders by count descending, then name.
func sortedCounts(counts map[string]int) []CountEntry {
	out := make([]CountEntry, 0, len(counts))
	for name, n := range counts {
		out = append(out, CountEntry{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
