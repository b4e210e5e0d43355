package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"firebase.google.com/go/v4/errorutils"
	"google.golang.org/api/option"

	"github.com/rcliao/firebase-memory/internal/model"
	"github.com/rcliao/firebase-memory/internal/query"
)

const (
	healthPath = "_healthcheck"

	// EmulatorHostEnv is read by the Firebase SDK to redirect database
	// traffic to a local emulator.
	EmulatorHostEnv = "FIREBASE_DATABASE_EMULATOR_HOST"
)

// FirebaseOptions configures the Realtime Database connection.
type FirebaseOptions struct {
	DatabaseURL     string
	ProjectID       string
	StorageBucket   string
	APIKey          string
	CredentialsFile string // service account JSON; empty falls back to APIKey
	Collection      string
	// EmulatorHost is host:port?ns=<name> of a database emulator. When set
	// it replaces DatabaseURL and no credentials are sent.
	EmulatorHost string
}

// FirebaseStore implements Store on the Firebase Realtime Database. Every
// memory lives at <collection>/<id>.
type FirebaseStore struct {
	client *db.Client
	ref    *db.Ref
	keys   *KeyGen

	// noIndex is set once the database has rejected an ordered query
	// because the collection has no .indexOn rule for timestamp.
	noIndex atomic.Bool
}

// NewFirebaseStore initializes a Firebase app and connects to its database.
func NewFirebaseStore(ctx context.Context, o FirebaseOptions) (*FirebaseStore, error) {
	dbURL := o.DatabaseURL
	if o.EmulatorHost != "" {
		dbURL = o.EmulatorHost
	}
	if dbURL == "" {
		return nil, fmt.Errorf("database url is required")
	}
	collection := o.Collection
	if collection == "" {
		collection = DefaultCollection
	}

	// The SDK authenticates emulator traffic with its own token and rejects
	// any second credential option.
	var opts []option.ClientOption
	switch {
	case isEmulator(dbURL):
	case o.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(o.CredentialsFile))
	case o.APIKey != "":
		opts = append(opts, option.WithAPIKey(o.APIKey))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		DatabaseURL:   dbURL,
		ProjectID:     o.ProjectID,
		StorageBucket: o.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("init database client: %w", err)
	}

	return &FirebaseStore{
		client: client,
		ref:    client.NewRef(collection),
		keys:   NewKeyGen(),
	}, nil
}

func (s *FirebaseStore) NewKey() string {
	return s.keys.NewKey()
}

func (s *FirebaseStore) Set(ctx context.Context, m model.Memory) error {
	if err := ValidateKey(m.ID); err != nil {
		return err
	}
	if err := s.ref.Child(m.ID).Set(ctx, m); err != nil {
		return fmt.Errorf("set %s: %w", m.ID, err)
	}
	return nil
}

func (s *FirebaseStore) Get(ctx context.Context, id string) (*model.Memory, error) {
	if err := ValidateKey(id); err != nil {
		return nil, err
	}
	var m *model.Memory
	if err := s.ref.Child(id).Get(ctx, &m); err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	if m == nil {
		return nil, ErrNotFound
	}
	m.Repair(id)
	return m, nil
}

func (s *FirebaseStore) Remove(ctx context.Context, id string) error {
	if err := ValidateKey(id); err != nil {
		return err
	}
	if err := s.ref.Child(id).Delete(ctx); err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	return nil
}

func (s *FirebaseStore) Snapshot(ctx context.Context) ([]model.Memory, error) {
	var raw map[string]json.RawMessage
	if err := s.ref.Get(ctx, &raw); err != nil {
		return nil, fmt.Errorf("fetch collection: %w", err)
	}
	return decodeChildren(raw)
}

func (s *FirebaseStore) Recent(ctx context.Context, limit int) ([]model.Memory, error) {
	if limit <= 0 {
		return nil, nil
	}
	if s.noIndex.Load() {
		return s.recentFromSnapshot(ctx, limit)
	}
	var raw map[string]json.RawMessage
	err := s.ref.OrderByChild("timestamp").LimitToLast(limit).Get(ctx, &raw)
	if isIndexNotDefined(err) {
		s.noIndex.Store(true)
		return s.recentFromSnapshot(ctx, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	return decodeChildren(raw)
}

// recentFromSnapshot orders the whole collection locally. Used when the
// database has no timestamp index to serve the ordered query.
func (s *FirebaseStore) recentFromSnapshot(ctx context.Context, limit int) ([]model.Memory, error) {
	all, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return query.Recent(all, limit), nil
}

func isIndexNotDefined(err error) bool {
	return err != nil && errorutils.IsInvalidArgument(err) && strings.Contains(err.Error(), "Index not defined")
}

// isEmulator mirrors how the SDK picks the emulator: a non-https database
// URL, or the emulator host variable.
func isEmulator(dbURL string) bool {
	return os.Getenv(EmulatorHostEnv) != "" || !strings.HasPrefix(dbURL, "https://")
}

// Ping writes, reads back and deletes a node under the health-check path.
func (s *FirebaseStore) Ping(ctx context.Context) error {
	ref := s.client.NewRef(healthPath).Child(s.NewKey())
	want := time.Now().UnixMilli()
	if err := ref.Set(ctx, map[string]int64{"timestamp": want}); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	var got struct {
		Timestamp int64 `json:"timestamp"`
	}
	if err := ref.Get(ctx, &got); err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if got.Timestamp != want {
		return fmt.Errorf("read back %d, wrote %d", got.Timestamp, want)
	}
	if err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Close is a no-op; the database client holds no resources to release.
func (s *FirebaseStore) Close() error {
	return nil
}

func decodeChildren(raw map[string]json.RawMessage) ([]model.Memory, error) {
	memories := make([]model.Memory, 0, len(raw))
	for key, v := range raw {
		var m model.Memory
		if err := json.Unmarshal(v, &m); err != nil {
			return nil, fmt.Errorf("decode memory %s: %w", key, err)
		}
		m.Repair(key)
		memories = append(memories, m)
	}
	return memories, nil
}
