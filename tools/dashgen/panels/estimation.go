package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// EstimatesBySource shows which cascade stage answered each request.
func EstimatesBySource() *timeseries.PanelBuilder {
	return series("Estimates by Source",
		"Estimates returned per second, by the stage that produced them", TSWidth).
		WithTarget(PromQuery(`bluberry:estimates:rate5m`, "{{source}}", "A")).
		Unit("reqps").
		FillOpacity(30).
		LineWidth(1).
		Legend(tableLegend())
}

// SourceShare returns a bar gauge of estimate counts per source over the
// dashboard range. A growing local share means upstream providers are degraded.
func SourceShare() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Source Share").
		Description("Share of estimates per source over the selected range").
		Datasource(datasource()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`sum by (source) (increase(`+Sel("bluberry_estimates_total")+`[$__range]))`, "{{source}}", "A")).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(greenOnly()).
		ColorScheme(palette())
}

// StageLatency returns a timeseries panel showing p95 duration per
// cascade stage.
func StageLatency() *timeseries.PanelBuilder {
	return series("Stage Latency (p95)", "95th percentile duration of each estimation stage", TSWidth).
		WithTarget(PromQuery(`bluberry:estimation_stage_duration:p95_5m`, "{{stage}}", "A")).
		Unit("s").
		Legend(tableLegend()).
		Thresholds(levels(4, 8))
}

func StageFailures() *timeseries.PanelBuilder {
	return series("Stage Failures", "Failed or skipped estimation stages per second, by reason", StatWidth).
		WithTarget(PromQuery(`bluberry:estimation_stage_failures:rate5m`, "{{stage}} {{reason}}", "A")).
		Unit("reqps")
}
