package blob

import (
	"context"
	"fmt"
	"os"
)

// Open selects a library object store implementation using environment variables.
//
//	PREFABCORE_LIBRARY_DRIVER: fs|s3|memory (default fs)
//	PREFABCORE_LIBRARY_FS_ROOT: directory root when driver=fs (default ./library)
//	(S3 specific variables documented in the s3 driver)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("PREFABCORE_LIBRARY_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		root := os.Getenv("PREFABCORE_LIBRARY_FS_ROOT")
		return NewFilesystem(root)
	case DriverS3:
		return OpenS3FromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown library driver %s", driver)
	}
}
