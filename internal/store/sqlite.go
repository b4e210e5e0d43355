package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/rcliao/firebase-memory/internal/model"
)

// SQLiteStore implements Store using a local SQLite file.
type SQLiteStore struct {
	db   *sql.DB
	keys *KeyGen
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:   db,
		keys: NewKeyGen(),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memories (
		id          TEXT PRIMARY KEY,
		content     TEXT NOT NULL,
		tags        TEXT NOT NULL DEFAULT '[]',
		importance  INTEGER NOT NULL DEFAULT 5,
		type        TEXT NOT NULL DEFAULT 'general',
		meta        TEXT,
		timestamp   INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_memories_timestamp ON memories(timestamp DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) NewKey() string {
	return s.keys.NewKey()
}

func (s *SQLiteStore) Set(ctx context.Context, m model.Memory) error {
	tags := m.Metadata.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	var meta *string
	if len(m.Metadata.Extra) > 0 {
		b, err := json.Marshal(m.Metadata.Extra)
		if err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}
		str := string(b)
		meta = &str
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO memories (id, content, tags, importance, type, meta, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Content, string(tagsJSON), m.Metadata.Importance, m.Metadata.Type, meta, m.Timestamp)
	if err != nil {
		return fmt.Errorf("insert memory: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.Memory, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, content, tags, importance, type, meta, timestamp
		 FROM memories WHERE id = ?`, id)
	m, err := scanMemory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM memories WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) Snapshot(ctx context.Context) ([]model.Memory, error) {
	return s.query(ctx,
		`SELECT id, content, tags, importance, type, meta, timestamp FROM memories`)
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]model.Memory, error) {
	if limit <= 0 {
		return nil, nil
	}
	return s.query(ctx,
		`SELECT id, content, tags, importance, type, meta, timestamp
		 FROM memories ORDER BY timestamp DESC LIMIT ?`, limit)
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return err
	}
	var n int
	return s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories`).Scan(&n)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...interface{}) ([]model.Memory, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memories []model.Memory
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		memories = append(memories, m)
	}
	return memories, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMemory(row scanner) (model.Memory, error) {
	var m model.Memory
	var tagsJSON string
	var meta sql.NullString

	err := row.Scan(
		&m.ID, &m.Content, &tagsJSON, &m.Metadata.Importance,
		&m.Metadata.Type, &meta, &m.Timestamp,
	)
	if err != nil {
		return m, err
	}

	json.Unmarshal([]byte(tagsJSON), &m.Metadata.Tags)
	if meta.Valid {
		json.Unmarshal([]byte(meta.String), &m.Metadata.Extra)
	}
	m.Repair(m.ID)

	return m, nil
}
