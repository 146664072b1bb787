// Package blob re-exports the library object-store abstractions and wraps the
// storage drivers for stable external imports. Packages outside the blob
// layer depend on blob.Store, never on the infra drivers directly.
package blob

import (
	"prefabcore/internal/blob/core"
)

type (
	// Driver identifies an object-store backend driver.
	Driver = core.Driver
	// PutOptions configures an object write.
	PutOptions = core.PutOptions
	// SignedURLOptions configures URL pre-signing.
	SignedURLOptions = core.SignedURLOptions
	// Info describes stored object metadata.
	Info = core.Info
	// Store is the interface for library object storage backends.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
)

// ErrUnsupported indicates an operation isn't supported by a driver.
var ErrUnsupported = core.ErrUnsupported

// ErrNotFound indicates a missing object key.
var ErrNotFound = core.ErrNotFound
