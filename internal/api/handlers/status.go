package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/bluberry/internal/ebay"
	"github.com/donaldgifford/bluberry/internal/estimate"
)

// StatusHandler reports the estimator's shared state.
type StatusHandler struct {
	estimator estimate.Estimator
	rl        *ebay.RateLimiter
}

// NewStatusHandler creates a new StatusHandler. rl may be nil when the
// marketplace is not configured.
func NewStatusHandler(e estimate.Estimator, rl *ebay.RateLimiter) *StatusHandler {
	return &StatusHandler{estimator: e, rl: rl}
}

// QuotaBody is the eBay Browse API quota.
type QuotaBody struct {
	DailyLimit int64     `json:"daily_limit" example:"5000"                 doc:"Daily API call limit"`
	DailyUsed  int64     `json:"daily_used"  example:"142"                  doc:"API calls used in the current 24-hour window"`
	Remaining  int64     `json:"remaining"   example:"4858"                 doc:"API calls remaining in the current window"`
	ResetAt    time.Time `json:"reset_at"    example:"2026-06-16T14:30:00Z" doc:"When the current 24-hour window expires"`
}

// StatusBody is the estimator status document.
type StatusBody struct {
	estimate.Status
	Quota *QuotaBody `json:"ebay_quota,omitempty" doc:"Present when the marketplace is configured"`
}

// StatusOutput is the response for the estimator status endpoint.
type StatusOutput struct {
	Body StatusBody
}

// GetStatus returns breaker states, cache occupancy, enabled providers and
// the marketplace quota.
func (h *StatusHandler) GetStatus(_ context.Context, _ *struct{}) (*StatusOutput, error) {
	resp := &StatusOutput{}
	resp.Body.Status = h.estimator.Status()
	if resp.Body.Breakers == nil {
		resp.Body.Breakers = map[string]estimate.CircuitState{}
	}

	if h.rl != nil {
		q := h.rl.Status()
		resp.Body.Quota = &QuotaBody{
			DailyLimit: q.Limit,
			DailyUsed:  q.Used,
			Remaining:  q.Remaining,
			ResetAt:    q.ResetAt,
		}
	}

	return resp, nil
}

// RegisterStatusRoutes registers the status endpoint with the Huma API.
func RegisterStatusRoutes(api huma.API, h *StatusHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-estimator-status",
		Method:      http.MethodGet,
		Path:        "/api/v1/estimator/status",
		Summary:     "Get estimator status",
		Description: "Returns circuit breaker states, cache entry count, enabled providers and the eBay API quota.",
		Tags:        []string{"estimator"},
	}, h.GetStatus)
}
