package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RequestRate returns a timeseries panel showing the HTTP request rate.
func RequestRate() *timeseries.PanelBuilder {
	return series("Request Rate", "HTTP requests per second", TSWidth).
		WithTarget(PromQuery(`bluberry:http_requests:rate5m`, "req/s", "A")).
		Unit("reqps").
		Legend(tableLegend())
}

// LatencyPercentiles returns a timeseries panel showing p50, p95 and p99
// HTTP request latencies.
func LatencyPercentiles() *timeseries.PanelBuilder {
	p := series("Latency Percentiles", "HTTP request duration percentiles", TSWidth).
		Unit("s").
		Legend(tableLegend())
	for i, q := range []string{"0.50", "0.95", "0.99"} {
		expr := fmt.Sprintf(`histogram_quantile(%s, sum(rate(%s[5m])) by (le))`,
			q, Sel("bluberry_http_request_duration_seconds_bucket"))
		p = p.WithTarget(PromQuery(expr, "p"+q[2:], string(rune('A'+i))))
	}
	return p
}

// ErrorRate returns a timeseries panel showing the HTTP 5xx error rate
// as a percentage.
func ErrorRate() *timeseries.PanelBuilder {
	return series("Error Rate %", "HTTP 5xx error rate as percentage of total requests", TSWidth).
		WithTarget(PromQuery(
			`bluberry:http_errors:rate5m / bluberry:http_requests:rate5m * 100`,
			"error %", "A",
		)).
		Unit("percent").
		Thresholds(levels(1, 5)).
		ColorScheme(byThreshold())
}
