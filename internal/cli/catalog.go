package cli

import (
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Catalog browsing commands",
	}

	cmd.AddCommand(newCatalogListCmd())
	cmd.AddCommand(newCatalogPhasesCmd())

	return cmd
}

func newCatalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List games available to the attached profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []CatalogEntry

			if err := client.Get("/api/v1/catalog", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newCatalogPhasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phases <entry-id>",
		Short: "List phases of a catalog entry with unlock state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []PhaseStatus

			if err := client.Get("/api/v1/catalog/"+args[0]+"/phases", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
