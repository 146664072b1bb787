// Package postgres provides a Postgres-backed catalog store that mirrors the
// in-memory semantics while snapshotting state after each mutation.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"prefabcore/internal/catalog/core"
	"prefabcore/internal/infra/persistence/memory"
)

var _ core.Store = (*Store)(nil)

const (
	defaultDriver = "pgx"
	// Default DSN keeps parity with the catalog factory defaults while
	// allowing overrides via env.
	defaultDSN = "postgres://localhost/prefabcore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists catalog state to Postgres while reusing the in-memory
// implementation for reads.
type Store struct {
	*memory.Store
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back
// to defaultDSN), ensures the snapshot table exists, and hydrates the
// in-memory store from any existing snapshot.
func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS catalog_state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{Store: memory.NewStore(), db: db}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStoreWithDB wires an existing database handle; used by tests.
func NewStoreWithDB(db *sql.DB) (*Store, error) {
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS catalog_state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{Store: memory.NewStore(), db: db}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM catalog_state`)
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
		case "items":
			if err := json.Unmarshal(payload, &snapshot.Items); err != nil {
				return fmt.Errorf("decode items: %w", err)
			}
		case "options":
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
	for bucket, payload := range map[string][]byte{"items": items, "options": options} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO catalog_state (bucket, payload) VALUES ($1, $2)
			 ON CONFLICT (bucket) DO UPDATE SET payload = EXCLUDED.payload`,
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

// PutItem upserts the record, then snapshots to Postgres.
func (s *Store) PutItem(ctx context.Context, rec core.ItemRecord) (core.ItemRecord, error) {
	out, err := s.Store.PutItem(ctx, rec)
	if err != nil {
		return out, err
	}
	return out, s.persist(ctx)
}

// DeleteItem removes the record, then snapshots to Postgres.
func (s *Store) DeleteItem(ctx context.Context, path string) (bool, error) {
	ok, err := s.Store.DeleteItem(ctx, path)
	if err != nil || !ok {
		return ok, err
	}
	return ok, s.persist(ctx)
}

// SetOption persists the option value, then snapshots to Postgres.
func (s *Store) SetOption(ctx context.Context, path, name, value string) error {
	if err := s.Store.SetOption(ctx, path, name, value); err != nil {
		return err
	}
	return s.persist(ctx)
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
