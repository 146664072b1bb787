// Package catalog tracks saved library items and the persisted values of
// their load options. It is the metadata side of the library: the scene
// fragments themselves live in the object store, while the catalog answers
// "what is saved where" and remembers per-item load settings between
// invocations. Packages outside the catalog layer depend on catalog.Store,
// never on the persistence drivers directly.
package catalog

import (
	"prefabcore/internal/catalog/core"
)

type (
	// ItemRecord describes one saved library item.
	ItemRecord = core.ItemRecord
	// Snapshot is a serializable copy of the full catalog state.
	Snapshot = core.Snapshot
	// Store is the interface for catalog persistence backends.
	Store = core.Store
)
