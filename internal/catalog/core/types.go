// Package core defines the catalog types and store contract shared by the
// catalog facade and its persistence drivers. Keeping them in a leaf package
// lets the drivers implement the contract while the facade wraps the drivers.
package core

import (
	"context"
	"time"
)

// ItemRecord describes one saved library item.
type ItemRecord struct {
	ID          string            `json:"id"`
	Path        string            `json:"path"`      // library path, e.g. "characters/c027/shepherd.prefab"
	Type        string            `json:"type"`      // registered item type name
	SceneKey    string            `json:"scene_key"` // object-store key of the scene fragment
	Annotations map[string]string `json:"annotations,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Snapshot is a serializable copy of the full catalog state.
type Snapshot struct {
	Items   []ItemRecord                 `json:"items"`
	Options map[string]map[string]string `json:"options,omitempty"` // item path -> option name -> value
}

// Store persists the catalog. Drivers snapshot the full state after every
// successful mutation, so reads always come from memory.
type Store interface {
	// PutItem upserts a record keyed by Path, assigning ID and timestamps.
	PutItem(ctx context.Context, rec ItemRecord) (ItemRecord, error)
	// GetItem returns the record for a library path.
	GetItem(ctx context.Context, path string) (ItemRecord, bool, error)
	// ListItems returns records whose path has the prefix, ordered by path.
	ListItems(ctx context.Context, prefix string) ([]ItemRecord, error)
	// DeleteItem removes a record, returning false when absent.
	DeleteItem(ctx context.Context, path string) (bool, error)
	// SetOption persists a load-schema option value for an item.
	SetOption(ctx context.Context, path, name, value string) error
	// Option returns a persisted option value for an item.
	Option(ctx context.Context, path, name string) (string, bool, error)
	// Close releases driver resources.
	Close() error
}
