// Package rules builds the Prometheus recording and alert rules shipped
// with bluberry as Prometheus Operator PrometheusRule resources.
package rules

const (
	apiVersion = "monitoring.coreos.com/v1"
	kind       = "PrometheusRule"

	// Service prefixes every resource, group, record and alert name.
	Service = "bluberry"

	// RuleSelector is the value of the "prometheus" label the cluster
	// Prometheus selects rule resources by.
	RuleSelector = "system-rules-prometheus"
)

// Severity routes an alert in Alertmanager.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// PrometheusRule is the custom resource written to prometheus/<name>.yaml.
type PrometheusRule struct {
	APIVersion string                 `yaml:"apiVersion"`
	Kind       string                 `yaml:"kind"`
	Metadata   PrometheusRuleMetadata `yaml:"metadata"`
	Spec       PrometheusRuleSpec     `yaml:"spec"`
}

type PrometheusRuleMetadata struct {
	Name   string            `yaml:"name"`
	Labels map[string]string `yaml:"labels,omitempty"`
}

type PrometheusRuleSpec struct {
	Groups []RuleGroup `yaml:"groups"`
}

type RuleGroup struct {
	Name  string `yaml:"name"`
	Rules []Rule `yaml:"rules"`
}

// Rule is either a recording rule (Record set) or an alert (Alert set).
type Rule struct {
	Record      string            `yaml:"record,omitempty"`
	Alert       string            `yaml:"alert,omitempty"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`
}

// newResource wraps rules in a single group. Both the resource and the
// group are named after the service.
func newResource(name, group string, rules ...Rule) PrometheusRule {
	return PrometheusRule{
		APIVersion: apiVersion,
		Kind:       kind,
		Metadata: PrometheusRuleMetadata{
			Name: Service + "-" + name,
			Labels: map[string]string{
				"prometheus":                RuleSelector,
				"app.kubernetes.io/part-of": Service,
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{{Name: Service + "-" + group, Rules: rules}},
		},
	}
}

// record names a series bluberry:<name>.
func record(name, expr string) Rule {
	return Rule{Record: Service + ":" + name, Expr: expr}
}

// alert names an alert Bluberry<name> and labels it app=bluberry so
// every bluberry alert routes together.
func alert(name string, sev Severity, pending, expr, summary, description string) Rule {
	return Rule{
		Alert: "Bluberry" + name,
		Expr:  expr,
		For:   pending,
		Labels: map[string]string{
			"severity": string(sev),
			"app":      Service,
		},
		Annotations: map[string]string{
			"summary":     summary,
			"description": description,
		},
	}
}
