package commands

import (
	"context"

	"github.com/spf13/cobra"

	"prefabcore/internal/library"
	"prefabcore/internal/printer"
)

var saveSelect []string

var saveCmd = &cobra.Command{
	Use:   "save <library-path>",
	Short: "Save the selected rig root to the library",
	Long: `Save the selected prefab or prefab cluster root transform to the
library under the given path. The item type is resolved from the path
extension (.prefab or .prefabcluster). The selection must contain exactly
one marked root transform.`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

func init() {
	saveCmd.Flags().StringSliceVar(&saveSelect, "select", nil, "node names to select before saving")
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	env, err := setup(ctx)
	if err != nil {
		return printer.Error("Failed to initialize", err.Error(), nil)
	}
	defer env.close()

	if len(saveSelect) > 0 {
		if err := env.scene.Select(saveSelect...); err != nil {
			return printer.Error("Selection failed", err.Error(), nil)
		}
	}

	rec, err := env.service.SaveItem(ctx, library.SaveRequest{Path: args[0]})
	if err != nil {
		if library.IsValidation(err) {
			return printer.Error("Invalid selection", err.Error(), []string{
				"Select the rig's root transform before saving",
			})
		}
		return printer.Error("Save failed", err.Error(), nil)
	}
	if err := env.saveScene(); err != nil {
		return printer.Error("Failed to write scene snapshot", err.Error(), nil)
	}

	printer.Success("saved %s (%s)\n", rec.Path, rec.Type)
	return nil
}
