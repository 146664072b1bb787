package commands

import (
	"context"

	"github.com/spf13/cobra"

	"prefabcore/internal/printer"
)

var namespacesCmd = &cobra.Command{
	Use:   "namespaces",
	Short: "List the namespaces in the scene snapshot",
	Args:  cobra.NoArgs,
	RunE:  runNamespaces,
}

func init() {
	rootCmd.AddCommand(namespacesCmd)
}

func runNamespaces(cmd *cobra.Command, args []string) error {
	env, err := setup(context.Background())
	if err != nil {
		return printer.Error("Failed to initialize", err.Error(), nil)
	}
	defer env.close()

	namespaces := env.scene.Namespaces()
	if len(namespaces) == 0 {
		printer.Info("no namespaces in scene\n")
		return nil
	}
	for _, ns := range namespaces {
		printer.Println(ns)
	}
	return nil
}
