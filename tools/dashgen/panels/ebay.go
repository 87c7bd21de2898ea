package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// APICallsRate returns a timeseries panel showing the eBay API call rate.
func APICallsRate() *timeseries.PanelBuilder {
	return series("API Calls Rate", "eBay Browse API calls per second", StatWidth).
		WithTarget(PromQuery(`bluberry:ebay_api_calls:rate5m`, "calls/s", "A")).
		Unit("reqps")
}

// DailyUsage returns a timeseries panel showing the rolling 24h eBay API
// usage, turning red at the daily limit.
func DailyUsage() *timeseries.PanelBuilder {
	return series("Daily Usage vs Limit",
		fmt.Sprintf("Rolling 24h eBay API call count (limit: %d)", EbayDailyLimit), StatWidth).
		WithTarget(PromQuery(Sel("bluberry_ebay_daily_usage"), "usage", "A")).
		Thresholds(levels(float64(EbayDailyLimit)*0.8, float64(EbayDailyLimit))).
		ColorScheme(byThreshold())
}

// LimitHits counts how often the daily quota ran out in the last day.
func LimitHits() *stat.PanelBuilder {
	return counter24h("Limit Hits (24h)",
		"Times the eBay daily limit was reached in the last 24 hours",
		"bluberry_ebay_daily_limit_hits_total", 1, 3)
}

// TokenRefreshes returns a stat panel showing OAuth token fetches in the
// past 24 hours. A healthy process refreshes about once per token lifetime.
func TokenRefreshes() *stat.PanelBuilder {
	return counter24h("Token Refreshes (24h)",
		"OAuth client-credentials token fetches in the last 24 hours",
		"bluberry_ebay_token_refreshes_total", 30, 100)
}
