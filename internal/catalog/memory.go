package catalog

import (
	"prefabcore/internal/infra/persistence/memory"
)

// NewMemory constructs an in-memory catalog.Store for tests and ephemeral
// sessions.
func NewMemory() Store {
	return memory.NewStore()
}
