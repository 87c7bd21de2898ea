package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// LLMLatency returns a timeseries panel showing p50 and p95 LLM call
// duration per backend.
func LLMLatency() *timeseries.PanelBuilder {
	p := series("LLM Latency", "LLM pricing call duration percentiles by backend", TSWidth).
		Unit("s").
		Legend(tableLegend())
	for i, q := range []string{"0.50", "0.95"} {
		expr := fmt.Sprintf(`histogram_quantile(%s, sum(rate(%s[5m])) by (le, backend))`,
			q, Sel("bluberry_llm_request_duration_seconds_bucket"))
		p = p.WithTarget(PromQuery(expr, "p"+q[2:]+" {{backend}}", string(rune('A'+i))))
	}
	return p
}

// LLMParseFailures returns a stat panel showing unparseable LLM answers in
// the past 24 hours.
func LLMParseFailures() *stat.PanelBuilder {
	return counter24h("LLM Parse Failures (24h)",
		"LLM responses that did not contain a usable price",
		"bluberry_llm_parse_failures_total", 5, 25).
		Span(TSWidth)
}
