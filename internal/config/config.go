// Package config loads the CLI configuration: an optional YAML file layered
// over a .env file and process environment variables. The store factories
// read the environment directly, so Apply exports the file values as env vars
// for any key not already set.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "prefabcore.yaml"

// Config is the YAML configuration shape.
type Config struct {
	LogLevel string `yaml:"log_level"` // zerolog level name, default "info"

	Library struct {
		Driver string `yaml:"driver"`  // fs|s3|memory
		FSRoot string `yaml:"fs_root"` // filesystem driver root
		S3     struct {
			Bucket    string `yaml:"bucket"`
			Region    string `yaml:"region"`
			Endpoint  string `yaml:"endpoint"`
			PathStyle bool   `yaml:"path_style"`
		} `yaml:"s3"`
	} `yaml:"library"`

	Catalog struct {
		Driver      string `yaml:"driver"` // memory|sqlite|postgres|redis
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresDSN string `yaml:"postgres_dsn"`
		RedisAddr   string `yaml:"redis_addr"`
	} `yaml:"catalog"`
}

// Load reads the YAML config at path after loading a .env file when present.
// A missing config file is not an error; the zero Config defers everything to
// the environment.
func Load(path string) (Config, error) {
	// Missing .env files are fine; explicit config errors are not.
	_ = godotenv.Load()

	var cfg Config
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Apply exports the config file values as environment variables for the store
// factories. Variables already set in the environment win.
func (c Config) Apply() error {
	pairs := map[string]string{
		"PREFABCORE_LIBRARY_DRIVER":       c.Library.Driver,
		"PREFABCORE_LIBRARY_FS_ROOT":      c.Library.FSRoot,
		"PREFABCORE_LIBRARY_S3_BUCKET":    c.Library.S3.Bucket,
		"PREFABCORE_LIBRARY_S3_REGION":    c.Library.S3.Region,
		"PREFABCORE_LIBRARY_S3_ENDPOINT":  c.Library.S3.Endpoint,
		"PREFABCORE_CATALOG_DRIVER":       c.Catalog.Driver,
		"PREFABCORE_CATALOG_SQLITE_PATH":  c.Catalog.SQLitePath,
		"PREFABCORE_CATALOG_POSTGRES_DSN": c.Catalog.PostgresDSN,
		"PREFABCORE_CATALOG_REDIS_ADDR":   c.Catalog.RedisAddr,
	}
	if c.Library.S3.PathStyle {
		pairs["PREFABCORE_LIBRARY_S3_PATH_STYLE"] = "true"
	}
	for key, value := range pairs {
		if value == "" {
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return nil
}
