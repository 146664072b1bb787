// Package redis provides a Redis-backed catalog store for studios that share
// one catalog across workstations. State is snapshotted into two keys after
// each mutation.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"prefabcore/internal/catalog/core"
	"prefabcore/internal/infra/persistence/memory"
)

var _ core.Store = (*Store)(nil)

const (
	keyItems   = "prefabcore:catalog:items"
	keyOptions = "prefabcore:catalog:options"
)

// Store persists catalog state to Redis while reusing the in-memory
// implementation for reads.
type Store struct {
	*memory.Store
	rdb *redis.Client
	mu  sync.Mutex
}

// NewStore connects to Redis, verifies the connection, and hydrates the
// in-memory store from any existing snapshot.
func NewStore(ctx context.Context, opts *redis.Options) (*Store, error) {
	if opts == nil {
		opts = &redis.Options{Addr: "localhost:6379"}
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	s := &Store{Store: memory.NewStore(), rdb: rdb}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	snapshot := core.Snapshot{}
	found := false
	if payload, err := s.rdb.Get(ctx, keyItems).Bytes(); err == nil {
		found = true
		if err := json.Unmarshal(payload, &snapshot.Items); err != nil {
			return fmt.Errorf("decode items: %w", err)
		}
	} else if err != redis.Nil {
		return fmt.Errorf("get items: %w", err)
	}
	if payload, err := s.rdb.Get(ctx, keyOptions).Bytes(); err == nil {
		found = true
		if err := json.Unmarshal(payload, &snapshot.Options); err != nil {
			return fmt.Errorf("decode options: %w", err)
		}
	} else if err != redis.Nil {
		return fmt.Errorf("get options: %w", err)
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
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, keyItems, items, 0)
	pipe.Set(ctx, keyOptions, options, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("snapshot to redis: %w", err)
	}
	return nil
}

// PutItem upserts the record, then snapshots to Redis.
func (s *Store) PutItem(ctx context.Context, rec core.ItemRecord) (core.ItemRecord, error) {
	out, err := s.Store.PutItem(ctx, rec)
	if err != nil {
		return out, err
	}
	return out, s.persist(ctx)
}

// DeleteItem removes the record, then snapshots to Redis.
func (s *Store) DeleteItem(ctx context.Context, path string) (bool, error) {
	ok, err := s.Store.DeleteItem(ctx, path)
	if err != nil || !ok {
		return ok, err
	}
	return ok, s.persist(ctx)
}

// SetOption persists the option value, then snapshots to Redis.
func (s *Store) SetOption(ctx context.Context, path, name, value string) error {
	if err := s.Store.SetOption(ctx, path, name, value); err != nil {
		return err
	}
	return s.persist(ctx)
}

// Close closes the Redis client.
func (s *Store) Close() error { return s.rdb.Close() }
