package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"ProjectCatalog/internal/domain"
	"ProjectCatalog/internal/ports"
)

const (
	// DefaultKey is the storage key the archive viewer has always used.
	DefaultKey = "hb_pakistan_projects_final_v10"

	kvTable = "kv_store"
)

// ErrCorrupt marks a stored value that cannot be decoded into a project list.
var ErrCorrupt = errors.New("stored catalog is corrupt")

const schema = `CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteStore keeps the serialized project list as one text value under a fixed key.
type SQLiteStore struct {
	db  *sql.DB
	key string
	now func() time.Time
}

var _ ports.ProjectStore = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path, key string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	store, err := NewSQLiteStore(ctx, db, key)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLiteStore wires an existing handle and ensures the table exists.
func NewSQLiteStore(ctx context.Context, db *sql.DB, key string) (*SQLiteStore, error) {
	if key == "" {
		key = DefaultKey
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create %s: %w", kvTable, err)
	}
	return &SQLiteStore{db: db, key: key, now: time.Now}, nil
}

// Load decodes the stored list. A missing key, null or empty list reports found=false;
// a value that is not a JSON project list is reported as ErrCorrupt.
func (s *SQLiteStore) Load(ctx context.Context) ([]domain.Project, bool, error) {
	raw, found, err := s.Get(ctx, s.key)
	if err != nil || !found {
		return nil, false, err
	}

	var projects []domain.Project
	if err := json.Unmarshal([]byte(raw), &projects); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(projects) == 0 {
		return nil, false, nil
	}
	return projects, true, nil
}

// Save replaces the stored list.
func (s *SQLiteStore) Save(ctx context.Context, projects []domain.Project) error {
	if projects == nil {
		projects = []domain.Project{}
	}
	payload, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("encode projects: %w", err)
	}
	return s.Put(ctx, s.key, string(payload))
}

// Get reads a raw value.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := sq.Select("value").From(kvTable).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build select: %w", err)
	}

	var value string
	switch err := s.db.QueryRowContext(ctx, query, args...).Scan(&value); {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("select %s: %w", key, err)
	}
	return value, true, nil
}

// Put upserts a raw value.
func (s *SQLiteStore) Put(ctx context.Context, key, value string) error {
	query, args, err := sq.Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, value, s.now().UTC().Format(time.RFC3339Nano)).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
