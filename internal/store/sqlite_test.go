package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/rcliao/firebase-memory/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newMemory(s Store, content string, ts int64, tags ...string) model.Memory {
	if tags == nil {
		tags = []string{}
	}
	return model.Memory{
		ID:        s.NewKey(),
		Content:   content,
		Metadata:  model.Metadata{Tags: tags, Importance: 5, Type: "general"},
		Timestamp: ts,
	}
}

func TestSetAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m := newMemory(s, "world", 1000, "greeting")
	m.Metadata.Importance = 9
	m.Metadata.Type = "fact"
	m.Metadata.Extra = map[string]any{"source": "chat"}

	if err := s.Set(ctx, m); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := s.Get(ctx, m.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Content != "world" {
		t.Errorf("expected 'world', got %q", got.Content)
	}
	if got.Timestamp != 1000 {
		t.Errorf("expected timestamp 1000, got %d", got.Timestamp)
	}
	if got.Metadata.Importance != 9 || got.Metadata.Type != "fact" {
		t.Errorf("importance/type not persisted: %+v", got.Metadata)
	}
	if len(got.Metadata.Tags) != 1 || got.Metadata.Tags[0] != "greeting" {
		t.Errorf("expected tags [greeting], got %v", got.Metadata.Tags)
	}
	if got.Metadata.Extra["source"] != "chat" {
		t.Errorf("expected extra metadata to survive, got %v", got.Metadata.Extra)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEmptyTagsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m := newMemory(s, "no tags", 1)
	m.Metadata.Tags = nil
	s.Set(ctx, m)

	got, err := s.Get(ctx, m.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Metadata.Tags == nil || len(got.Metadata.Tags) != 0 {
		t.Errorf("expected empty non-nil tags, got %#v", got.Metadata.Tags)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m := newMemory(s, "data", 1)
	s.Set(ctx, m)

	if err := s.Remove(ctx, m.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.Get(ctx, m.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after remove, got %v", err)
	}
	if err := s.Remove(ctx, m.ID); err != nil {
		t.Errorf("removing absent id should succeed, got %v", err)
	}
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	empty, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty snapshot, got %d", len(empty))
	}

	s.Set(ctx, newMemory(s, "alpha", 1))
	s.Set(ctx, newMemory(s, "beta", 2))
	s.Set(ctx, newMemory(s, "gamma", 3))

	all, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3, got %d", len(all))
	}
}

func TestRecent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Set(ctx, newMemory(s, "old", 100))
	s.Set(ctx, newMemory(s, "newest", 300))
	s.Set(ctx, newMemory(s, "middle", 200))

	recent, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	var contents []string
	for _, m := range recent {
		contents = append(contents, m.Content)
	}
	sort.Strings(contents)
	if len(contents) != 2 || contents[0] != "middle" || contents[1] != "newest" {
		t.Errorf("expected [middle newest], got %v", contents)
	}

	none, err := s.Recent(ctx, 0)
	if err != nil || len(none) != 0 {
		t.Errorf("expected no results for limit 0, got %v (%v)", none, err)
	}
}

func TestSetReplaces(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m := newMemory(s, "v1", 1)
	s.Set(ctx, m)
	m.Content = "v2"
	s.Set(ctx, m)

	all, _ := s.Snapshot(ctx)
	if len(all) != 1 || all[0].Content != "v2" {
		t.Errorf("expected single 'v2' record, got %+v", all)
	}
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("ping: %v", err)
	}
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to be created")
	}
}
