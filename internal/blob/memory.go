package blob

import (
	"prefabcore/internal/infra/blob/memory"
)

// NewMemory constructs an in-memory blob.Store for tests and ephemeral libraries.
func NewMemory() Store {
	return memory.New()
}
