package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/gauge"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

// HealthzStat shows the liveness check (1 = ok).
func HealthzStat() *stat.PanelBuilder {
	return upDown("Healthz", "Health check status (1 = ok, 0 = failing)", `bluberry_healthz_up`)
}

// ReadyzStat shows the readiness check (1 = ready).
func ReadyzStat() *stat.PanelBuilder {
	return upDown("Readyz",
		"Readiness check status (1 = ready, 0 = database or redis unreachable)",
		`bluberry_readyz_up`)
}

// QuotaGauge returns a gauge panel showing eBay API daily usage as a
// percentage of the limit.
func QuotaGauge() *gauge.PanelBuilder {
	expr := fmt.Sprintf("%s / %d * 100", Sel("bluberry_ebay_daily_usage"), EbayDailyLimit)
	return gauge.NewPanelBuilder().
		Title("eBay Quota %").
		Description("Daily eBay API usage as percentage of limit").
		Datasource(datasource()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(expr, "", "A")).
		Unit("percent").
		Min(0).
		Max(100).
		Thresholds(levels(80, 95)).
		ColorScheme(byThreshold())
}

// UptimeStat returns a stat panel showing process uptime.
func UptimeStat() *stat.PanelBuilder {
	return single("Uptime", "Time since process start", StatHeight).
		WithTarget(PromQuery(`time() - `+Sel("process_start_time_seconds"), "", "A")).
		Unit("s").
		GraphMode(common.BigValueGraphModeNone)
}
