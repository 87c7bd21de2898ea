package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/bluberry/internal/api/handlers"
	"github.com/donaldgifford/bluberry/internal/estimate"
	"github.com/donaldgifford/bluberry/pkg/heuristic"
)

type estimateFlags struct {
	name       string
	condition  string
	issues     string
	itemID     string
	local      bool
	seed       uint64
	categories string
}

func estimateCmd() *cobra.Command {
	var f estimateFlags

	c := &cobra.Command{
		Use:   "estimate [description]",
		Short: "Estimate an item's resale price",
		Long: "Estimate asks the API server to price an item. With --local the\n" +
			"heuristic runs in-process and no server or provider is contacted.",
		Example: `  bluberry estimate --name "iPhone 11" --condition good "64GB, black"
  bluberry estimate --local --seed 7 "Sony WH-1000XM4 headphones"
  bluberry estimate --name "PS5" --item-id 42 --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			req := handlers.PriceRequest{
				ItemName:  f.name,
				Condition: f.condition,
				Issues:    f.issues,
				ItemID:    f.itemID,
			}
			if len(args) == 1 {
				req.Description = args[0]
			}
			if strings.TrimSpace(req.Description) == "" && strings.TrimSpace(req.ItemName) == "" {
				return errors.New("a description or --name is required")
			}

			var (
				resp *handlers.PriceResponse
				err  error
			)
			if f.local {
				resp, err = localEstimate(&req, &f)
			} else {
				resp, err = newClient().EstimatePrice(c.Context(), &req)
			}
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(c.OutOrStdout(), resp)
			}
			return printPriceDetail(c.OutOrStdout(), resp)
		},
	}

	c.Flags().StringVar(&f.name, "name", "", "item name")
	c.Flags().StringVar(&f.condition, "condition", "", "item condition")
	c.Flags().StringVar(&f.issues, "issues", "", "known defects")
	c.Flags().StringVar(&f.itemID, "item-id", "", "item record to store the estimate against")
	c.Flags().BoolVar(&f.local, "local", false, "run the local heuristic without contacting the server")
	c.Flags().Uint64Var(&f.seed, "seed", 0, "seed for reproducible --local results (0 for random)")
	c.Flags().StringVar(&f.categories, "categories", "", "category table for --local (default embedded)")

	return c
}

func localEstimate(req *handlers.PriceRequest, f *estimateFlags) (*handlers.PriceResponse, error) {
	var opts []heuristic.Option
	if f.categories != "" {
		cats, err := heuristic.LoadCategories(f.categories)
		if err != nil {
			return nil, err
		}
		opts = append(opts, heuristic.WithCategories(cats))
	}
	if f.seed != 0 {
		opts = append(opts, heuristic.WithSeed(f.seed))
	}

	est := heuristic.New(opts...).Estimate(heuristic.Input{
		Description: req.Description,
		Name:        req.ItemName,
		Condition:   req.Condition,
		Issues:      req.Issues,
	})

	resp := handlers.NewPriceResponse(&estimate.Result{Estimate: est})
	return &resp, nil
}
