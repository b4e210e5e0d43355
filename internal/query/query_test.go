package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/firebase-memory/internal/model"
)

func mem(id string, ts int64, content, typ string, tags ...string) model.Memory {
	if tags == nil {
		tags = []string{}
	}
	return model.Memory{
		ID:        id,
		Content:   content,
		Timestamp: ts,
		Metadata:  model.Metadata{Tags: tags, Importance: 5, Type: typ},
	}
}

func fixtures() []model.Memory {
	return []model.Memory{
		mem("a", 100, "I love React", "preference", "frontend", "react"),
		mem("b", 300, "I love Vue", "preference", "frontend"),
		mem("c", 200, "Deploys run on Fridays", "fact", "infra"),
		mem("d", 400, "react-query caches requests", "fact", "frontend", "react"),
		mem("e", 50, "Standup at 9am", "general"),
	}
}

func ids(ms []model.Memory) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func TestEvaluate_NoFilterSortsDescending(t *testing.T) {
	got := Evaluate(fixtures(), Filter{}, 10)
	assert.Equal(t, []string{"d", "b", "c", "a", "e"}, ids(got))
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i-1].Timestamp, got[i].Timestamp)
	}
}

func TestEvaluate_Truncates(t *testing.T) {
	got := Evaluate(fixtures(), Filter{}, 2)
	assert.Equal(t, []string{"d", "b"}, ids(got))
}

func TestEvaluate_NonPositiveLimit(t *testing.T) {
	assert.Empty(t, Evaluate(fixtures(), Filter{}, 0))
	assert.Empty(t, Evaluate(fixtures(), Filter{}, -3))
	assert.NotNil(t, Evaluate(fixtures(), Filter{}, 0))
}

func TestEvaluate_TextIsCaseInsensitive(t *testing.T) {
	got := Evaluate(fixtures(), Filter{Text: "react"}, 10)
	assert.Equal(t, []string{"d", "a"}, ids(got))

	got = Evaluate(fixtures(), Filter{Text: "LOVE"}, 10)
	assert.Equal(t, []string{"b", "a"}, ids(got))
}

func TestEvaluate_Tag(t *testing.T) {
	got := Evaluate(fixtures(), Filter{Tag: "frontend"}, 10)
	assert.Equal(t, []string{"d", "b", "a"}, ids(got))

	assert.Empty(t, Evaluate(fixtures(), Filter{Tag: "Frontend"}, 10))
}

func TestEvaluate_Type(t *testing.T) {
	got := Evaluate(fixtures(), Filter{Type: "fact"}, 10)
	assert.Equal(t, []string{"d", "c"}, ids(got))
}

func TestEvaluate_Intersection(t *testing.T) {
	got := Evaluate(fixtures(), Filter{Tag: "frontend", Type: "preference"}, 10)
	assert.Equal(t, []string{"b", "a"}, ids(got))

	got = Evaluate(fixtures(), Filter{Text: "react", Tag: "react", Type: "preference"}, 10)
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestEvaluate_Idempotent(t *testing.T) {
	first := Evaluate(fixtures(), Filter{Tag: "frontend"}, 10)
	again := Evaluate(first, Filter{}, len(first))
	assert.Equal(t, first, again)
}

func TestEvaluate_StableTies(t *testing.T) {
	records := []model.Memory{
		mem("x", 10, "one", "general"),
		mem("y", 10, "two", "general"),
		mem("z", 20, "three", "general"),
	}
	got := Evaluate(records, Filter{}, 10)
	assert.Equal(t, []string{"z", "x", "y"}, ids(got))
}

func TestEvaluate_DoesNotMutateInput(t *testing.T) {
	records := fixtures()
	before := ids(records)
	Evaluate(records, Filter{}, 10)
	assert.Equal(t, before, ids(records))
}

func TestRecent(t *testing.T) {
	records := fixtures()
	require.Equal(t, Evaluate(records, Filter{}, 3), Recent(records, 3))
	assert.Equal(t, []string{"d"}, ids(Recent(records, 1)))
}

func TestSummarize(t *testing.T) {
	s := Summarize(fixtures())
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, int64(50), s.Oldest)
	assert.Equal(t, int64(400), s.Newest)
	assert.Equal(t, []CountEntry{{"fact", 2}, {"preference", 2}, {"general", 1}}, s.Types)
	assert.Equal(t, CountEntry{"frontend", 3}, s.Tags[0])
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Total)
	assert.Empty(t, s.Types)
	assert.Empty(t, s.Tags)
}
