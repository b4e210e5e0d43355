// Package store provides the memory storage interface with Firebase Realtime
// Database and SQLite implementations.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/firebase-memory/internal/model"
)

// DefaultCollection is the path all memories live under.
const DefaultCollection = "memories"

// ErrNotFound is returned by Get when no memory has the requested id.
var ErrNotFound = errors.New("memory not found")

// ErrInvalidKey is returned for ids that cannot name a single record.
var ErrInvalidKey = errors.New("invalid key")

// Store defines the memory storage interface.
type Store interface {
	// NewKey returns a fresh, unique key for a memory that is about to be written.
	NewKey() string

	// Set writes m under its ID, replacing anything already there.
	Set(ctx context.Context, m model.Memory) error

	// Get retrieves a memory by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*model.Memory, error)

	// Remove deletes a memory by id. Removing an absent id is not an error.
	Remove(ctx context.Context, id string) error

	// Snapshot fetches every memory in the collection, in no particular order.
	Snapshot(ctx context.Context) ([]model.Memory, error)

	// Recent returns the limit memories with the highest timestamps, in no
	// particular order.
	Recent(ctx context.Context, limit int) ([]model.Memory, error)

	// Ping checks that the backend is reachable and writable.
	Ping(ctx context.Context) error

	// Close closes the store.
	Close() error
}
