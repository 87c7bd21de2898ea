package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/donaldgifford/bluberry/internal/api/handlers"
	domain "github.com/donaldgifford/bluberry/pkg/types"
)

// EstimatePrice asks the server to price an item.
func (c *Client) EstimatePrice(
	ctx context.Context,
	req *handlers.PriceRequest,
) (*handlers.PriceResponse, error) {
	var resp handlers.PriceResponse
	if err := c.post(ctx, "/price", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ItemEstimate returns the latest estimate stored for an item.
func (c *Client) ItemEstimate(ctx context.Context, itemID string) (*domain.ItemEstimate, error) {
	var est domain.ItemEstimate
	path := fmt.Sprintf("/api/v1/items/%s/estimate", url.PathEscape(itemID))
	if err := c.get(ctx, path, &est); err != nil {
		return nil, err
	}
	return &est, nil
}

// ItemEstimatesResponse is a page of an item's estimate history.
type ItemEstimatesResponse struct {
	Estimates []domain.ItemEstimate `json:"estimates"`
	Total     int                   `json:"total"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
}

// ItemEstimatesParams defines query parameters for the history query.
type ItemEstimatesParams struct {
	Source string
	Limit  int
	Offset int
}

// ItemEstimates returns an item's estimate history, newest first.
func (c *Client) ItemEstimates(
	ctx context.Context,
	itemID string,
	params *ItemEstimatesParams,
) (*ItemEstimatesResponse, error) {
	q := url.Values{}
	if params != nil {
		if params.Source != "" {
			q.Set("source", params.Source)
		}
		if params.Limit > 0 {
			q.Set("limit", strconv.Itoa(params.Limit))
		}
		if params.Offset > 0 {
			q.Set("offset", strconv.Itoa(params.Offset))
		}
	}

	path := fmt.Sprintf("/api/v1/items/%s/estimates", url.PathEscape(itemID))
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ItemEstimatesResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EstimatorStatus returns the server's breaker, cache and quota state.
func (c *Client) EstimatorStatus(ctx context.Context) (*handlers.StatusBody, error) {
	var st handlers.StatusBody
	if err := c.get(ctx, "/api/v1/estimator/status", &st); err != nil {
		return nil, err
	}
	return &st, nil
}
