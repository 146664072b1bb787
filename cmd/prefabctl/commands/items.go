package commands

import (
	"context"

	"github.com/spf13/cobra"

	"prefabcore/internal/printer"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List the registered item types",
	Args:  cobra.NoArgs,
	RunE:  runItems,
}

func init() {
	rootCmd.AddCommand(itemsCmd)
}

func runItems(cmd *cobra.Command, args []string) error {
	env, err := setup(context.Background())
	if err != nil {
		return printer.Error("Failed to initialize", err.Error(), nil)
	}
	defer env.close()

	for _, item := range env.service.RegisteredItems() {
		printer.Info("%-16s %-10s %s\n", item.Type(), item.Extension(), item.Name())
	}
	return nil
}
