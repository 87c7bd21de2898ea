package cmd

import (
	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show circuit breaker, cache and quota state",
		Example: `  bluberry status
  bluberry status --output json`,
		RunE: func(c *cobra.Command, _ []string) error {
			st, err := newClient().EstimatorStatus(c.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(c.OutOrStdout(), st)
			}
			return printStatus(c.OutOrStdout(), st)
		},
	}
}
