package catalog

import (
	"context"
	"fmt"
	"os"

	goredis "github.com/redis/go-redis/v9"

	"prefabcore/internal/infra/persistence/memory"
	"prefabcore/internal/infra/persistence/postgres"
	"prefabcore/internal/infra/persistence/redis"
	"prefabcore/internal/infra/persistence/sqlite"
)

// StorageDriver identifies a concrete catalog storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
	StorageRedis    StorageDriver = "redis"    // shared Redis catalog
)

// Open selects a catalog backend using environment variables. Defaults to
// sqlite when unset.
//
//	PREFABCORE_CATALOG_DRIVER: memory|sqlite|postgres|redis (default sqlite)
//	PREFABCORE_CATALOG_SQLITE_PATH: path to sqlite file (default ./prefabcore.db)
//	PREFABCORE_CATALOG_POSTGRES_DSN: postgres DSN when driver=postgres
//	PREFABCORE_CATALOG_REDIS_ADDR: redis host:port when driver=redis
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("PREFABCORE_CATALOG_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		return sqlite.NewStore(os.Getenv("PREFABCORE_CATALOG_SQLITE_PATH"))
	case StoragePostgres:
		return postgres.NewStore(os.Getenv("PREFABCORE_CATALOG_POSTGRES_DSN"))
	case StorageRedis:
		addr := os.Getenv("PREFABCORE_CATALOG_REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		return redis.NewStore(ctx, &goredis.Options{Addr: addr})
	default:
		return nil, fmt.Errorf("unknown catalog driver %s", driver)
	}
}
