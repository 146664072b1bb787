package commands

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"prefabcore/internal/printer"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <library-path>",
	Short: "Show a saved item's record, objects and load options",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	env, err := setup(ctx)
	if err != nil {
		return printer.Error("Failed to initialize", err.Error(), nil)
	}
	defer env.close()

	detail, err := env.service.InspectItem(ctx, args[0])
	if err != nil {
		return printer.Error("Inspect failed", err.Error(), nil)
	}
	data, err := json.MarshalIndent(detail, "", "  ")
	if err != nil {
		return err
	}
	printer.Println(string(data))
	return nil
}
