// Package validate checks generated dashboards and rules for PromQL syntax
// errors and references to metrics the service does not export.
package validate

import (
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/cog/variants"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	promparser "github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/bluberry/tools/dashgen/rules"
)

// Grafana template variables are not valid PromQL; they are replaced with
// representative values before parsing.
var grafanaVars = strings.NewReplacer(
	"$__rate_interval", "5m",
	"$__interval", "1m",
	"$__range", "6h",
)

// histogramSuffixes are stripped so selectors on histogram series match the
// base metric name.
var histogramSuffixes = []string{"_bucket", "_sum", "_count"}

// Result collects problems found during validation. Errors fail the build;
// warnings are informational.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation produced no errors.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Dashboard validates every Prometheus target in the dashboard, including
// panels nested inside rows.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) *Result {
	result := &Result{}

	for _, p := range dash.Panels {
		if p.Panel != nil {
			checkPanel(result, p.Panel, known)
		}
		if p.RowPanel != nil {
			for i := range p.RowPanel.Panels {
				checkPanel(result, &p.RowPanel.Panels[i], known)
			}
		}
	}

	return result
}

// Rules validates the expressions of every rule in the CR.
func Rules(cr rules.PrometheusRule, known map[string]bool) *Result {
	result := &Result{}

	for _, group := range cr.Spec.Groups {
		for _, rule := range group.Rules {
			name := rule.Record
			if name == "" {
				name = rule.Alert
			}
			if name == "" {
				result.errorf("group %s: rule with neither record nor alert", group.Name)
				continue
			}
			checkExpr(result, group.Name+"/"+name, rule.Expr, known)
		}
	}

	return result
}

func checkPanel(result *Result, panel *dashboard.Panel, known map[string]bool) {
	title := "untitled"
	if panel.Title != nil {
		title = *panel.Title
	}

	if len(panel.Targets) == 0 {
		result.warnf("panel %q has no targets", title)
		return
	}

	for _, target := range panel.Targets {
		expr, ok := promExpr(target)
		if !ok {
			result.warnf("panel %q has a non-prometheus target", title)
			continue
		}
		checkExpr(result, fmt.Sprintf("panel %q", title), expr, known)
	}
}

func promExpr(target variants.Dataquery) (string, bool) {
	switch q := target.(type) {
	case *prometheus.Dataquery:
		return q.Expr, true
	case prometheus.Dataquery:
		return q.Expr, true
	default:
		return "", false
	}
}

func checkExpr(result *Result, where, expr string, known map[string]bool) {
	if strings.TrimSpace(expr) == "" {
		result.errorf("%s: empty expression", where)
		return
	}

	parsed, err := promparser.ParseExpr(grafanaVars.Replace(expr))
	if err != nil {
		result.errorf("%s: invalid PromQL %q: %v", where, expr, err)
		return
	}

	for _, name := range MetricNames(parsed) {
		if !known[name] && !known[baseName(name)] {
			result.errorf("%s: unknown metric %q", where, name)
		}
	}
}

// MetricNames returns the metric names selected anywhere in the expression.
func MetricNames(expr promparser.Expr) []string {
	var names []string
	promparser.Inspect(expr, func(node promparser.Node, _ []promparser.Node) error {
		if vs, ok := node.(*promparser.VectorSelector); ok && vs.Name != "" {
			names = append(names, vs.Name)
		}
		return nil
	})
	return names
}

func baseName(name string) string {
	for _, suffix := range histogramSuffixes {
		if trimmed, ok := strings.CutSuffix(name, suffix); ok {
			return trimmed
		}
	}
	return name
}
