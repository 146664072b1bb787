package commands

import (
	"context"

	"github.com/spf13/cobra"

	"prefabcore/internal/library"
	"prefabcore/internal/printer"
	"prefabcore/items/prefab"
)

var (
	loadNamespace string
	loadReference bool
)

var loadCmd = &cobra.Command{
	Use:   "load <library-path>",
	Short: "Load a saved item into the scene",
	Long: `Load a saved prefab or prefab cluster into the scene. The import
goes through a temporary namespace; the final instance namespace is resolved
from the rig and allocated against the scene, and the rig is parented under
the prefab root group.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadNamespace, "namespace", "", "temporary import namespace override")
	loadCmd.Flags().BoolVar(&loadReference, "reference", false, "load as a file reference instead of an import")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	env, err := setup(ctx)
	if err != nil {
		return printer.Error("Failed to initialize", err.Error(), nil)
	}
	defer env.close()

	options := map[string]string{}
	if loadNamespace != "" {
		options[prefab.OptionNamespace] = loadNamespace
	}
	if loadReference {
		options[prefab.OptionReference] = "true"
	}

	if err := env.service.LoadItem(ctx, library.LoadRequest{Path: args[0], Options: options}); err != nil {
		return printer.Error("Load failed", err.Error(), nil)
	}
	if err := env.saveScene(); err != nil {
		return printer.Error("Failed to write scene snapshot", err.Error(), nil)
	}

	printer.Success("loaded %s\n", args[0])
	return nil
}
