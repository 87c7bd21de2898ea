package cmd

import (
	"github.com/spf13/cobra"

	"github.com/donaldgifford/bluberry/pkg/heuristic"
)

func categoriesCmd() *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "categories",
		Short: "List the local heuristic's category table",
		Long: "Categories prints the ordered table the local heuristic classifies items\n" +
			"with. The first matching category wins. Use --file to validate a custom\n" +
			"table before pointing estimation.categories_file at it.",
		Example: `  bluberry categories
  bluberry categories --file ./categories.yaml --output json`,
		RunE: func(c *cobra.Command, _ []string) error {
			cats := heuristic.DefaultCategories()
			if file != "" {
				var err error
				if cats, err = heuristic.LoadCategories(file); err != nil {
					return err
				}
			}
			if jsonOutput() {
				return outputJSON(c.OutOrStdout(), cats)
			}
			return printCategoriesTable(c.OutOrStdout(), cats)
		},
	}

	c.Flags().StringVar(&file, "file", "", "category table to load instead of the embedded one")
	return c
}
