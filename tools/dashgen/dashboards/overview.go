// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/bluberry/tools/dashgen/panels"
)

// BuildOverview constructs the BluBerry Overview dashboard with all metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("BluBerry Overview").
		Uid("bluberry-overview").
		Tags([]string{"bluberry", "pricing"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.QuotaGauge()).
		WithPanel(panels.UptimeStat()))

	// Row 2: HTTP.
	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: Estimation.
	b.WithRow(dashboard.NewRowBuilder("Estimation").
		WithPanel(panels.EstimatesBySource()).
		WithPanel(panels.SourceShare()).
		WithPanel(panels.StageLatency()).
		WithPanel(panels.StageFailures()))

	// Row 4: Cache and breakers.
	b.WithRow(dashboard.NewRowBuilder("Cache & Breakers").
		WithPanel(panels.CacheHitRatio()).
		WithPanel(panels.CacheEntries()).
		WithPanel(panels.BreakerState()).
		WithPanel(panels.BreakerFailures()))

	// Row 5: eBay API.
	b.WithRow(dashboard.NewRowBuilder("eBay API").
		WithPanel(panels.APICallsRate()).
		WithPanel(panels.DailyUsage()).
		WithPanel(panels.LimitHits()).
		WithPanel(panels.TokenRefreshes()))

	// Row 6: LLM.
	b.WithRow(dashboard.NewRowBuilder("LLM").
		WithPanel(panels.LLMLatency()).
		WithPanel(panels.LLMParseFailures()))

	// Row 7: Scheduler.
	b.WithRow(dashboard.NewRowBuilder("Scheduler").
		WithPanel(panels.JobRuns()).
		WithPanel(panels.PersistFailures()).
		WithPanel(panels.NotificationFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
