package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// CacheHitRatio returns a stat panel showing the estimate cache hit ratio.
func CacheHitRatio() *stat.PanelBuilder {
	return single("Cache Hit Ratio",
		"Share of requests answered from the estimate cache over 5 minutes", StatHeight).
		WithTarget(PromQuery(`bluberry:cache_hit_ratio:5m * 100`, "", "A")).
		Unit("percent").
		GraphMode(common.BigValueGraphModeArea)
}

// CacheEntries returns a timeseries panel showing in-memory cache size
// and the pruning rate.
func CacheEntries() *timeseries.PanelBuilder {
	return series("Cache Entries", "Entries held by the in-memory cache and expired entries pruned", StatWidth).
		WithTarget(PromQuery(Sel("bluberry_cache_entries"), "entries", "A")).
		WithTarget(PromQuery(`increase(`+Sel("bluberry_cache_pruned_total")+`[10m])`, "pruned / 10m", "B"))
}

// BreakerState returns a stat panel showing whether each upstream
// breaker is open.
func BreakerState() *stat.PanelBuilder {
	return single("Circuit Breakers", "1 = open (service skipped), 0 = closed", StatHeight).
		WithTarget(PromQuery(`max by (service) (`+Sel("bluberry_circuit_breaker_open")+`)`, "{{service}}", "A")).
		Thresholds(levels(0.5, 1)).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone).
		TextMode(common.BigValueTextModeValueAndName)
}

func BreakerFailures() *timeseries.PanelBuilder {
	return series("Upstream Failures", "Failures recorded by the circuit breaker per second", StatWidth).
		WithTarget(PromQuery(
			`sum by (service) (rate(`+Sel("bluberry_circuit_breaker_failures_total")+`[5m]))`,
			"{{service}}", "A",
		)).
		Unit("reqps")
}
