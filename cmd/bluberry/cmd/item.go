package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/bluberry/internal/api/client"
	domain "github.com/donaldgifford/bluberry/pkg/types"
)

func itemCmd() *cobra.Command {
	itemRoot := &cobra.Command{
		Use:   "item",
		Short: "Show stored estimates for an item",
		Long: "Estimates requested with an item ID are stored against that item when\n" +
			"the server has a database configured.",
	}

	itemRoot.AddCommand(
		itemEstimateCmd(),
		itemHistoryCmd(),
	)

	return itemRoot
}

func itemEstimateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "estimate <item_id>",
		Short: "Show the latest estimate for an item",
		Args:  cobra.ExactArgs(1),
		Example: `  bluberry item estimate 42
  bluberry item estimate 42 --output json`,
		RunE: func(c *cobra.Command, args []string) error {
			est, err := newClient().ItemEstimate(c.Context(), args[0])
			if err != nil {
				if apiclient.IsNotFound(err) {
					return fmt.Errorf("no estimate stored for item %q", args[0])
				}
				return err
			}
			if jsonOutput() {
				return outputJSON(c.OutOrStdout(), est)
			}
			return printEstimatesTable(c.OutOrStdout(), []domain.ItemEstimate{*est})
		},
	}
}

func itemHistoryCmd() *cobra.Command {
	var params apiclient.ItemEstimatesParams

	c := &cobra.Command{
		Use:   "history <item_id>",
		Short: "Show an item's estimate history, newest first",
		Args:  cobra.ExactArgs(1),
		Example: `  bluberry item history 42
  bluberry item history 42 --source local --limit 5`,
		RunE: func(c *cobra.Command, args []string) error {
			resp, err := newClient().ItemEstimates(c.Context(), args[0], &params)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(c.OutOrStdout(), resp)
			}
			if len(resp.Estimates) == 0 {
				fmt.Fprintf(c.OutOrStdout(), "No estimates stored for item %q.\n", args[0])
				return nil
			}
			if err := printEstimatesTable(c.OutOrStdout(), resp.Estimates); err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "\nShowing %d of %d\n", len(resp.Estimates), resp.Total)
			return nil
		},
	}

	c.Flags().StringVar(&params.Source, "source", "", "filter by estimate source")
	c.Flags().IntVar(&params.Limit, "limit", 0, "number of results (default 20)")
	c.Flags().IntVar(&params.Offset, "offset", 0, "pagination offset")

	return c
}
