package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"prefabcore/internal/printer"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list [prefix]",
	Short: "List saved library items",
	Long: `List the catalog records of saved library items, optionally
filtered by a library path prefix.

Use --json for machine-readable output.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	env, err := setup(ctx)
	if err != nil {
		return printer.Error("Failed to initialize", err.Error(), nil)
	}
	defer env.close()

	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}
	records, err := env.service.ListItems(ctx, prefix)
	if err != nil {
		return printer.Error("List failed", err.Error(), nil)
	}

	if listJSON {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		printer.Println(string(data))
		return nil
	}

	if len(records) == 0 {
		printer.Info("no items found\n")
		return nil
	}
	for _, rec := range records {
		printer.Info("%-16s %s  (updated %s)\n", rec.Type, rec.Path,
			rec.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	printer.Info("%s\n", fmt.Sprintf("%d item(s)", len(records)))
	return nil
}
