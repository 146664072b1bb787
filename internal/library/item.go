// Package library implements the asset-library item framework: the Item
// contract the prefab item types plug into, the registry that resolves items
// by type or path extension, and the service that runs save/load operations
// against a scene, the object store, and the catalog.
package library

import (
	"context"

	"github.com/rs/zerolog"

	"prefabcore/internal/blob"
	"prefabcore/pkg/scenegraph"
)

// SchemaField describes one user-configurable option in an item's load
// schema. Persistent fields are remembered in the catalog between
// invocations.
type SchemaField struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Default    string `json:"default"`
	Persistent bool   `json:"persistent"`
}

// SaveRequest carries the user values for a save operation.
type SaveRequest struct {
	// Path is the library path of the item, e.g. "characters/c027/shepherd.prefab".
	Path string
	// Options are the user values from the item's save schema.
	Options map[string]string
}

// LoadRequest carries the user values for a load operation.
type LoadRequest struct {
	// Path is the library path of the item to load.
	Path string
	// Options are the resolved load-schema values (defaults merged with
	// persisted values and per-call overrides).
	Options map[string]string
}

// Item is a plugin item type. Implementations validate the scene selection on
// save, delegate the fragment write to the session helpers, and run the
// import/rename/reparent pipeline on load.
type Item interface {
	// Name returns the display name of the item type.
	Name() string
	// Type returns the unique item type identifier recorded in the catalog.
	Type() string
	// Extension returns the library path extension, including the dot.
	Extension() string
	// LoadSchema describes the configurable load options.
	LoadSchema() []SchemaField
	// Save validates the selection and writes the item's objects.
	Save(ctx context.Context, sess *Session, req SaveRequest) error
	// Load imports the item's scene fragment into the session scene.
	Load(ctx context.Context, sess *Session, req LoadRequest) error
}

// Session binds the collaborators an item operates on for one save or load.
type Session struct {
	Scene   scenegraph.Scene
	Objects blob.Store
	Log     zerolog.Logger
}
