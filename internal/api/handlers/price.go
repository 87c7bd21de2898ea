package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/bluberry/internal/estimate"
	domain "github.com/donaldgifford/bluberry/pkg/types"
)

// PriceHandler serves price estimates.
type PriceHandler struct {
	estimator estimate.Estimator
	log       *slog.Logger
}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler(e estimate.Estimator, log *slog.Logger) *PriceHandler {
	if log == nil {
		log = slog.Default()
	}
	return &PriceHandler{estimator: e, log: log}
}

// PriceRequest is the body of POST /price. At least one of description and
// itemName must be non-blank.
type PriceRequest struct {
	Description string `json:"description,omitempty" maxLength:"4000" doc:"Free-text description of the item"       example:"64GB, black, small scratch on the back"`
	ItemName    string `json:"itemName,omitempty"    maxLength:"200"  doc:"Short item name"                          example:"iPhone 11"`
	Condition   string `json:"condition,omitempty"   maxLength:"100"  doc:"Seller-entered condition"                 example:"good"`
	Issues      string `json:"issues,omitempty"      maxLength:"1000" doc:"Known defects"`
	ItemID      string `json:"itemId,omitempty"      maxLength:"100"  doc:"Item record the estimate is stored against"`
}

// PriceInput is the input for POST /price.
type PriceInput struct {
	Body PriceRequest
}

// PriceRange holds the formatted estimate bounds.
type PriceRange struct {
	Low  string `json:"low"  example:"$165"`
	High string `json:"high" example:"$225"`
}

// PriceResponse is the body returned by POST /price.
type PriceResponse struct {
	Price           string                  `json:"price"                 example:"$195"            doc:"Formatted point estimate"`
	PriceValue      float64                 `json:"priceValue"            example:"195"             doc:"Point estimate in dollars"`
	PriceRange      PriceRange              `json:"priceRange"`
	Currency        string                  `json:"currency"              example:"USD"`
	Confidence      float64                 `json:"confidence"            example:"0.9"             doc:"0.9 high, 0.7 medium, 0.5 low"`
	ConfidenceLevel domain.Confidence       `json:"confidenceLevel"       example:"high"            enum:"low,medium,high"`
	Source          domain.Source           `json:"source"                example:"marketplace_llm" enum:"marketplace_llm,llm_only,local,cache,content_filter"`
	Reasoning       string                  `json:"reasoning,omitempty"`
	ReferenceCount  int                     `json:"referenceCount"        example:"2"               doc:"Comparables given to the model"`
	Cached          bool                    `json:"cached"                doc:"True when served from the estimate cache"`
	Comparables     []domain.ComparableItem `json:"comparables,omitempty" doc:"Marketplace listings used as evidence"`
}

// PriceOutput is the response for POST /price.
type PriceOutput struct {
	Body PriceResponse
}

// Price estimates the resale price of an item. Degraded results are still
// 200; the source field says which stage answered.
func (h *PriceHandler) Price(ctx context.Context, input *PriceInput) (*PriceOutput, error) {
	res, err := h.estimator.Estimate(ctx, estimate.Request{
		Description: input.Body.Description,
		ItemName:    input.Body.ItemName,
		Condition:   input.Body.Condition,
		Issues:      input.Body.Issues,
		ItemID:      input.Body.ItemID,
	})
	if err != nil {
		var ve *estimate.ValidationError
		if errors.As(err, &ve) {
			return nil, huma.Error422UnprocessableEntity(ve.Message, &huma.ErrorDetail{
				Location: "body." + ve.Field,
				Message:  ve.Message,
			})
		}
		h.log.Error("estimate failed", "error", err)
		return nil, huma.Error500InternalServerError("unable to estimate price")
	}

	return &PriceOutput{Body: NewPriceResponse(res)}, nil
}

// NewPriceResponse renders an estimate result for the API.
func NewPriceResponse(res *estimate.Result) PriceResponse {
	est := res.Estimate
	return PriceResponse{
		Price:      domain.FormatMoney(est.Price),
		PriceValue: est.Price,
		PriceRange: PriceRange{
			Low:  domain.FormatMoney(est.PriceRangeLow),
			High: domain.FormatMoney(est.PriceRangeHigh),
		},
		Currency:        est.Currency,
		Confidence:      est.Confidence.Score(),
		ConfidenceLevel: est.Confidence,
		Source:          est.Source,
		Reasoning:       est.Reasoning,
		ReferenceCount:  est.ReferenceCount,
		Cached:          res.Cached,
		Comparables:     res.Comparables,
	}
}

// RegisterPriceRoutes registers the price endpoint with the Huma API.
func RegisterPriceRoutes(api huma.API, h *PriceHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "estimate-price",
		Method:      http.MethodPost,
		Path:        "/price",
		Summary:     "Estimate an item's resale price",
		Description: "Runs the estimation cascade. Provider outages degrade to a lower-confidence source instead of an error.",
		Tags:        []string{"price"},
		Errors:      []int{http.StatusUnprocessableEntity},
	}, h.Price)
}
