// Package sqlite persists the catalog to a single SQLite table as JSON
// blobs, snapshotting the full state after every successful mutation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"prefabcore/internal/catalog/core"
	"prefabcore/internal/infra/persistence/memory"
)

// Store is a snapshotting SQLite-backed catalog store.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

var _ core.Store = (*Store)(nil)

// Buckets keyed in the state table.
const (
	bucketItems   = "items"
	bucketOptions = "options"
)

// NewStore opens (or creates) the catalog database and hydrates the in-memory
// store from any existing snapshot.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "prefabcore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS catalog_state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{Store: memory.NewStore(), db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT bucket, payload FROM catalog_state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()
	snapshot := core.Snapshot{}
	found := false
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		found = true
		switch bucket {
		case bucketItems:
			if err := json.Unmarshal(payload, &snapshot.Items); err != nil {
				return fmt.Errorf("decode items: %w", err)
			}
		case bucketOptions:
			if err := json.Unmarshal(payload, &snapshot.Options); err != nil {
				return fmt.Errorf("decode options: %w", err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	if found {
		s.Store.ImportState(snapshot)
	}
	return nil
}

func (s *Store) persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.Store.ExportState()
	items, err := json.Marshal(snapshot.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	options, err := json.Marshal(snapshot.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for bucket, payload := range map[string][]byte{bucketItems: items, bucketOptions: options} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO catalog_state (bucket, payload) VALUES (?, ?)
			 ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`,
			bucket, payload); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// PutItem upserts the record, then snapshots to disk.
func (s *Store) PutItem(ctx context.Context, rec core.ItemRecord) (core.ItemRecord, error) {
	out, err := s.Store.PutItem(ctx, rec)
	if err != nil {
		return out, err
	}
	return out, s.persist(ctx)
}

// DeleteItem removes the record, then snapshots to disk.
func (s *Store) DeleteItem(ctx context.Context, path string) (bool, error) {
	ok, err := s.Store.DeleteItem(ctx, path)
	if err != nil || !ok {
		return ok, err
	}
	return ok, s.persist(ctx)
}

// SetOption persists the option value, then snapshots to disk.
func (s *Store) SetOption(ctx context.Context, path, name, value string) error {
	if err := s.Store.SetOption(ctx, path, name, value); err != nil {
		return err
	}
	return s.persist(ctx)
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
