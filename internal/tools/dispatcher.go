// Package tools maps tool calls onto memory operations and renders their
// results as text.
package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/rcliao/firebase-memory/internal/model"
	"github.com/rcliao/firebase-memory/internal/query"
	"github.com/rcliao/firebase-memory/internal/store"
)

// Tool names.
const (
	StoreMemory        = "store_memory"
	SearchMemories     = "search_memories"
	GetMemory          = "get_memory"
	DeleteMemory       = "delete_memory"
	ListRecentMemories = "list_recent_memories"
)

// Names lists every tool the dispatcher handles.
var Names = []string{StoreMemory, SearchMemories, GetMemory, DeleteMemory, ListRecentMemories}

type handlerFunc func(ctx context.Context, args map[string]any) (string, error)

// Dispatcher executes tool calls against a Store. It keeps no state between
// calls.
type Dispatcher struct {
	store    store.Store
	log      *slog.Logger
	now      func() time.Time
	handlers map[string]handlerFunc
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// WithClock overrides the time source used for new memories.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// NewDispatcher returns a dispatcher backed by s.
func NewDispatcher(s store.Store, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store: s,
		log:   slog.New(slog.DiscardHandler),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.handlers = map[string]handlerFunc{
		StoreMemory:        d.storeMemory,
		SearchMemories:     d.searchMemories,
		GetMemory:          d.getMemory,
		DeleteMemory:       d.deleteMemory,
		ListRecentMemories: d.listRecent,
	}
	return d
}

// Call runs the named tool. Any error returned is an *Error.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	h, ok := d.handlers[name]
	if !ok {
		d.log.Warn("unknown tool", "tool", name)
		return "", newError(KindMethodNotFound, nil, "Unknown tool: %s", name)
	}
	if args == nil {
		args = map[string]any{}
	}

	start := time.Now()
	text, err := h(ctx, args)
	if err != nil {
		var te *Error
		if !errors.As(err, &te) {
			te = newError(KindInternal, err, "Error executing tool %s: %v", name, err)
		}
		d.log.Error("tool failed", "tool", name, "kind", te.Kind.String(), "err", te.Message,
			"duration", time.Since(start))
		return "", te
	}
	d.log.Debug("tool ok", "tool", name, "duration", time.Since(start))
	return text, nil
}

func (d *Dispatcher) storeMemory(ctx context.Context, args map[string]any) (string, error) {
	m, err := model.Normalize(args["content"], args["metadata"], d.store.NewKey(), d.now())
	if err != nil {
		return "", newError(KindInvalidInput, err, "%v", err)
	}
	if err := d.store.Set(ctx, m); err != nil {
		return "", newError(KindInternal, err, "Failed to store memory: %v", err)
	}
	d.log.Info("memory stored", "id", m.ID, "type", m.Metadata.Type)
	return "Memory stored successfully with ID: " + m.ID, nil
}

func (d *Dispatcher) searchMemories(ctx context.Context, args map[string]any) (string, error) {
	limit := limitArg(args)
	if limit <= 0 {
		return noMemoriesText, nil
	}
	all, err := d.store.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	f := query.Filter{
		Text: stringArg(args, "query"),
		Tag:  stringArg(args, "tag"),
		Type: stringArg(args, "type"),
	}
	return renderSearch(query.Evaluate(all, f, limit)), nil
}

func (d *Dispatcher) getMemory(ctx context.Context, args map[string]any) (string, error) {
	id, err := idArg(args)
	if err != nil {
		return "", err
	}
	m, err := d.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return notFoundText(id), nil
	}
	if err != nil {
		return "", err
	}
	return renderSingle(*m), nil
}

func (d *Dispatcher) deleteMemory(ctx context.Context, args map[string]any) (string, error) {
	id, err := idArg(args)
	if err != nil {
		return "", err
	}
	if _, err := d.store.Get(ctx, id); errors.Is(err, store.ErrNotFound) {
		return notFoundText(id), nil
	} else if err != nil {
		return "", err
	}
	if err := d.store.Remove(ctx, id); err != nil {
		return "", err
	}
	d.log.Info("memory deleted", "id", id)
	return fmt.Sprintf("Memory with ID %s deleted successfully.", id), nil
}

func (d *Dispatcher) listRecent(ctx context.Context, args map[string]any) (string, error) {
	limit := limitArg(args)
	if limit <= 0 {
		return noMemoriesText, nil
	}
	recent, err := d.store.Recent(ctx, limit)
	if err != nil {
		return "", err
	}
	return renderRecent(query.Recent(recent, limit)), nil
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func idArg(args map[string]any) (string, error) {
	id := stringArg(args, "id")
	if id == "" {
		return "", newError(KindInvalidInput, nil, "ID is required and must be a string")
	}
	if err := store.ValidateKey(id); err != nil {
		return "", newError(KindInvalidInput, err, "Invalid memory id: %v", err)
	}
	return id, nil
}

// limitArg reads "limit", falling back to query.DefaultLimit when it is
// missing or not a number. Fractions truncate toward zero.
func limitArg(args map[string]any) int {
	switch v := args["limit"].(type) {
	case float64:
		if math.IsNaN(v) {
			return query.DefaultLimit
		}
		if v < 0 {
			return 0
		}
		if v > math.MaxInt32 {
			return math.MaxInt32
		}
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return query.DefaultLimit
}
