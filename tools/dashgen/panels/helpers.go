// Package panels builds the panels of the bluberry Grafana dashboard.
// Every panel queries the ${datasource} variable and starts from one of
// the base builders below.
package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/cog"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// EbayDailyLimit is the default eBay Browse API daily call limit.
const EbayDailyLimit = 5000

// Job is the Prometheus job label bluberry is scraped under.
const Job = `job="bluberry"`

// Grid sizes on Grafana's 24-column layout.
const (
	StatWidth  = 6
	StatHeight = 4

	TSWidth  = 12
	TSHeight = 8
)

// Sel returns a selector for metric scoped to the bluberry job.
func Sel(metric string) string {
	return metric + "{" + Job + "}"
}

// PromQuery builds a Prometheus target.
func PromQuery(expr, legendFormat, refID string) *prometheus.DataqueryBuilder {
	return prometheus.NewDataqueryBuilder().
		Expr(expr).
		LegendFormat(legendFormat).
		RefId(refID)
}

func datasource() dashboard.DataSourceRef {
	return dashboard.DataSourceRef{
		Type: cog.ToPtr("prometheus"),
		Uid:  cog.ToPtr("${datasource}"),
	}
}

// series is a line chart in the classic palette with a multi-series
// tooltip. Rate panels add a unit and, when wide, a table legend.
func series(title, description string, width uint32) *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(datasource()).
		Height(TSHeight).
		Span(width).
		FillOpacity(10).
		LineWidth(2).
		Tooltip(multiTooltip()).
		Thresholds(greenOnly()).
		ColorScheme(palette()).
		DrawStyle(common.GraphDrawStyleLine)
}

// single is a stat panel colored by its thresholds.
func single(title, description string, height uint32) *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(datasource()).
		Height(height).
		Span(StatWidth).
		Thresholds(greenOnly()).
		ColorScheme(byThreshold())
}

// counter24h is a single stat of how often a counter grew over the last
// day, warning at warn and critical at crit.
func counter24h(title, description, metric string, warn, crit float64) *stat.PanelBuilder {
	return single(title, description, TSHeight).
		WithTarget(PromQuery(`increase(`+Sel(metric)+`[24h])`, "", "A")).
		Thresholds(levels(warn, crit)).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// upDown renders a 0/1 health gauge: red at 0, green at 1.
func upDown(title, description, metric string) *stat.PanelBuilder {
	return single(title, description, StatHeight).
		WithTarget(PromQuery(metric, "", "A")).
		Thresholds(absolute(
			dashboard.Threshold{Color: "red"},
			dashboard.Threshold{Value: cog.ToPtr[float64](1), Color: "green"},
		)).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone).
		TextMode(common.BigValueTextModeValue)
}

func absolute(steps ...dashboard.Threshold) cog.Builder[dashboard.ThresholdsConfig] {
	return dashboard.NewThresholdsConfigBuilder().
		Mode(dashboard.ThresholdsModeAbsolute).
		Steps(steps)
}

func greenOnly() cog.Builder[dashboard.ThresholdsConfig] {
	return absolute(dashboard.Threshold{Color: "green"})
}

// levels is green below warn, yellow from warn and red from crit.
func levels(warn, crit float64) cog.Builder[dashboard.ThresholdsConfig] {
	return absolute(
		dashboard.Threshold{Color: "green"},
		dashboard.Threshold{Value: cog.ToPtr(warn), Color: "yellow"},
		dashboard.Threshold{Value: cog.ToPtr(crit), Color: "red"},
	)
}

func byThreshold() cog.Builder[dashboard.FieldColor] {
	return dashboard.NewFieldColorBuilder().
		Mode(dashboard.FieldColorModeIdThresholds)
}

func palette() cog.Builder[dashboard.FieldColor] {
	return dashboard.NewFieldColorBuilder().
		Mode(dashboard.FieldColorModeIdPaletteClassic)
}

// tableLegend lists mean and max per series under the chart.
func tableLegend() *common.VizLegendOptionsBuilder {
	return common.NewVizLegendOptionsBuilder().
		DisplayMode(common.LegendDisplayModeTable).
		Placement(common.LegendPlacementBottom).
		Calcs([]string{"mean", "max"})
}

func multiTooltip() *common.VizTooltipOptionsBuilder {
	return common.NewVizTooltipOptionsBuilder().
		Mode(common.TooltipDisplayModeMulti).
		Sort(common.SortOrderDescending)
}
