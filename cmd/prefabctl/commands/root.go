// Package commands implements the prefabctl CLI. Commands operate on a scene
// snapshot file (the in-memory scene serialized to JSON) so the full
// save/load pipeline is exercisable without a host application.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"prefabcore/internal/blob"
	"prefabcore/internal/catalog"
	"prefabcore/internal/config"
	"prefabcore/internal/library"
	scenememory "prefabcore/internal/scene/memory"
	"prefabcore/items/prefab"
	"prefabcore/items/prefabcluster"
)

var (
	version string
	commit  string
	date    string
)

// Persistent flags shared by the subcommands.
var (
	configPath string
	sceneFile  string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "prefabctl",
	Short: "prefabctl - prefab asset library tool",
	Long: `prefabctl saves and loads prefab rigs and prefab clusters in the
asset library, operating on a scene snapshot file instead of a live host
session. The library objects and the item catalog live behind the configured
storage drivers.`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// If no subcommand is specified, show help
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Silence Cobra's default error and usage printing
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&sceneFile, "scene", "", "path to the scene snapshot file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "zerolog level (overrides config)")
}

// environment bundles the collaborators a command runs against.
type environment struct {
	service *library.Service
	scene   *scenememory.Scene
	catalog catalog.Store
	log     zerolog.Logger
}

// close releases the catalog driver.
func (e *environment) close() {
	if e.catalog != nil {
		_ = e.catalog.Close()
	}
}

// saveScene writes the scene snapshot back to the --scene file.
func (e *environment) saveScene() error {
	if sceneFile == "" {
		return nil
	}
	return e.scene.SaveFile(sceneFile)
}

// setup loads the configuration, opens the stores and scene snapshot, and
// builds the item service.
func setup(ctx context.Context) (*environment, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Apply(); err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	log, err := newLogger(level)
	if err != nil {
		return nil, err
	}

	objects, err := blob.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open library store: %w", err)
	}
	cat, err := catalog.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	scene := scenememory.New()
	if sceneFile != "" {
		if _, statErr := os.Stat(sceneFile); statErr == nil {
			scene, err = scenememory.LoadFile(sceneFile)
			if err != nil {
				_ = cat.Close()
				return nil, err
			}
		}
	}

	svc := library.NewService(scene, objects, cat,
		library.WithLogger(log),
		library.WithMetricsRecorder(library.NewExpvarMetricsRecorder("")),
	)
	for _, item := range []library.Item{prefab.New(), prefabcluster.New()} {
		if err := svc.RegisterItem(item); err != nil {
			_ = cat.Close()
			return nil, err
		}
	}
	return &environment{service: svc, scene: scene, catalog: cat, log: log}, nil
}

func newLogger(level string) (zerolog.Logger, error) {
	if level == "" {
		level = "info"
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(parsed).With().Timestamp().Logger(), nil
}
