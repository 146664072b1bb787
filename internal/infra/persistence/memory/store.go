// Package memory implements the in-memory catalog store. The durable drivers
// embed it and snapshot its state after each successful mutation.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"prefabcore/internal/catalog/core"
)

type state struct {
	items   map[string]core.ItemRecord   // keyed by path
	options map[string]map[string]string // path -> option -> value
}

func newState() state {
	return state{
		items:   make(map[string]core.ItemRecord),
		options: make(map[string]map[string]string),
	}
}

func cloneRecord(r core.ItemRecord) core.ItemRecord {
	cp := r
	if r.Annotations != nil {
		cp.Annotations = make(map[string]string, len(r.Annotations))
		for k, v := range r.Annotations {
			cp.Annotations[k] = v
		}
	}
	return cp
}

// Store is a mutex-guarded in-memory catalog.
type Store struct {
	mu    sync.RWMutex
	state state
	nowFn func() time.Time
	idFn  func() string
}

// NewStore constructs an empty in-memory catalog store.
func NewStore() *Store {
	return &Store{
		state: newState(),
		nowFn: func() time.Time { return time.Now().UTC() },
		idFn:  uuid.NewString,
	}
}

var _ core.Store = (*Store)(nil)

// PutItem upserts a record keyed by Path.
func (s *Store) PutItem(_ context.Context, rec core.ItemRecord) (core.ItemRecord, error) {
	if rec.Path == "" {
		return core.ItemRecord{}, errEmptyPath
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.nowFn()
	if prior, ok := s.state.items[rec.Path]; ok {
		rec.ID = prior.ID
		rec.CreatedAt = prior.CreatedAt
	} else {
		if rec.ID == "" {
			rec.ID = s.idFn()
		}
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	s.state.items[rec.Path] = cloneRecord(rec)
	return cloneRecord(rec), nil
}

// GetItem returns the record for a library path.
func (s *Store) GetItem(_ context.Context, path string) (core.ItemRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.state.items[path]
	if !ok {
		return core.ItemRecord{}, false, nil
	}
	return cloneRecord(rec), true, nil
}

// ListItems returns records under prefix ordered by path.
func (s *Store) ListItems(_ context.Context, prefix string) ([]core.ItemRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.ItemRecord, 0, len(s.state.items))
	for path, rec := range s.state.items {
		if prefix == "" || strings.HasPrefix(path, prefix) {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// DeleteItem removes a record and its persisted options.
func (s *Store) DeleteItem(_ context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.state.items[path]
	if ok {
		delete(s.state.items, path)
		delete(s.state.options, path)
	}
	return ok, nil
}

// SetOption persists a load-schema option value for an item.
func (s *Store) SetOption(_ context.Context, path, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	opts, ok := s.state.options[path]
	if !ok {
		opts = make(map[string]string)
		s.state.options[path] = opts
	}
	opts[name] = value
	return nil
}

// Option returns a persisted option value for an item.
func (s *Store) Option(_ context.Context, path, name string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	opts, ok := s.state.options[path]
	if !ok {
		return "", false, nil
	}
	v, ok := opts[name]
	return v, ok, nil
}

// Close is a no-op for the in-memory driver.
func (s *Store) Close() error { return nil }

// ExportState clones the current catalog state for external persistence.
func (s *Store) ExportState() core.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := core.Snapshot{}
	for _, rec := range s.state.items {
		snap.Items = append(snap.Items, cloneRecord(rec))
	}
	sort.Slice(snap.Items, func(i, j int) bool { return snap.Items[i].Path < snap.Items[j].Path })
	if len(s.state.options) > 0 {
		snap.Options = make(map[string]map[string]string, len(s.state.options))
		for path, opts := range s.state.options {
			cp := make(map[string]string, len(opts))
			for k, v := range opts {
				cp[k] = v
			}
			snap.Options[path] = cp
		}
	}
	return snap
}

// ImportState replaces the catalog state with the snapshot.
func (s *Store) ImportState(snap core.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = newState()
	for _, rec := range snap.Items {
		s.state.items[rec.Path] = cloneRecord(rec)
	}
	for path, opts := range snap.Options {
		cp := make(map[string]string, len(opts))
		for k, v := range opts {
			cp[k] = v
		}
		s.state.options[path] = cp
	}
}

type emptyPathError struct{}

func (emptyPathError) Error() string { return "catalog: item path required" }

var errEmptyPath = emptyPathError{}
