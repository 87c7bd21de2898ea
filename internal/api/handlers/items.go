package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/bluberry/internal/store"
	domain "github.com/donaldgifford/bluberry/pkg/types"
)

// ItemsHandler serves estimates persisted against item records.
type ItemsHandler struct {
	store store.Store
}

// NewItemsHandler creates a new ItemsHandler. A nil store makes every
// operation answer 503.
func NewItemsHandler(s store.Store) *ItemsHandler {
	return &ItemsHandler{store: s}
}

// GetItemEstimateInput is the input for the latest-estimate lookup.
type GetItemEstimateInput struct {
	ItemID string `path:"item_id" doc:"Item record ID" maxLength:"100"`
}

// GetItemEstimateOutput is the latest stored estimate of an item.
type GetItemEstimateOutput struct {
	Body domain.ItemEstimate
}

// ListItemEstimatesInput is the input for the estimate history.
type ListItemEstimatesInput struct {
	ItemID string `path:"item_id" doc:"Item record ID"                 maxLength:"100"`
	Source string `query:"source" doc:"Only estimates from this source" enum:"marketplace_llm,llm_only,local,cache,content_filter,"`
	Limit  int    `query:"limit"  doc:"Number of results (default 20)"  minimum:"0" maximum:"200"`
	Offset int    `query:"offset" doc:"Pagination offset"              minimum:"0"`
}

// ListItemEstimatesOutput is a page of stored estimates, newest first.
type ListItemEstimatesOutput struct {
	Body struct {
		Estimates []domain.ItemEstimate `json:"estimates"`
		Total     int                   `json:"total"`
		Limit     int                   `json:"limit"`
		Offset    int                   `json:"offset"`
	}
}

// GetItemEstimate returns the most recent estimate stored for an item.
func (h *ItemsHandler) GetItemEstimate(
	ctx context.Context,
	input *GetItemEstimateInput,
) (*GetItemEstimateOutput, error) {
	if h.store == nil {
		return nil, huma.Error503ServiceUnavailable("estimate persistence is not configured")
	}

	est, err := h.store.GetEstimate(ctx, input.ItemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("no estimate for item")
		}
		return nil, huma.Error500InternalServerError("estimate lookup failed")
	}

	return &GetItemEstimateOutput{Body: *est}, nil
}

// ListItemEstimates returns the estimate history of an item.
func (h *ItemsHandler) ListItemEstimates(
	ctx context.Context,
	input *ListItemEstimatesInput,
) (*ListItemEstimatesOutput, error) {
	if h.store == nil {
		return nil, huma.Error503ServiceUnavailable("estimate persistence is not configured")
	}

	q := &store.EstimateQuery{
		ItemID: input.ItemID,
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	if input.Source != "" {
		q.Source = &input.Source
	}

	estimates, total, err := h.store.ListEstimates(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("estimate history query failed")
	}
	if estimates == nil {
		estimates = []domain.ItemEstimate{}
	}

	resp := &ListItemEstimatesOutput{}
	resp.Body.Estimates = estimates
	resp.Body.Total = total
	resp.Body.Limit = q.PageLimit()
	resp.Body.Offset = max(q.Offset, 0)

	return resp, nil
}

// RegisterItemRoutes registers item estimate endpoints with the Huma API.
func RegisterItemRoutes(api huma.API, h *ItemsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-item-estimate",
		Method:      http.MethodGet,
		Path:        "/api/v1/items/{item_id}/estimate",
		Summary:     "Get an item's latest estimate",
		Description: "Returns the most recent estimate persisted against the item.",
		Tags:        []string{"items"},
		Errors:      []int{http.StatusNotFound, http.StatusServiceUnavailable},
	}, h.GetItemEstimate)

	huma.Register(api, huma.Operation{
		OperationID: "list-item-estimates",
		Method:      http.MethodGet,
		Path:        "/api/v1/items/{item_id}/estimates",
		Summary:     "List an item's estimates",
		Description: "Returns every estimate persisted against the item, newest first.",
		Tags:        []string{"items"},
		Errors:      []int{http.StatusServiceUnavailable},
	}, h.ListItemEstimates)
}
