package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// JobRuns shows scheduled job runs per hour. The job name is exported as
// exported_job because job is the scrape label.
func JobRuns() *timeseries.PanelBuilder {
	return series("Job Runs", "Scheduled job runs per hour, by job and result", TSWidth).
		WithTarget(PromQuery(
			`sum by (exported_job, result) (increase(`+Sel("bluberry_scheduler_job_runs_total")+`[1h]))`,
			"{{exported_job}} {{result}}",
			"A",
		)).
		DrawStyle(common.GraphDrawStyleBars)
}

// PersistFailures returns a timeseries panel showing estimates that could
// not be written to the database.
func PersistFailures() *timeseries.PanelBuilder {
	return series("Persist Failures", "Estimates dropped because the database write failed", StatWidth).
		WithTarget(PromQuery(`rate(`+Sel("bluberry_estimate_persist_failures_total")+`[5m])`, "failures/s", "A")).
		Unit("reqps")
}

func NotificationFailures() *stat.PanelBuilder {
	return counter24h("Notification Failures (24h)",
		"Discord breaker notifications that could not be delivered",
		"bluberry_notification_failures_total", 1, 5).
		GraphMode(common.BigValueGraphModeNone)
}
