// Package middleware provides Echo middleware for the BluBerry API server.
package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/bluberry/internal/metrics"
)

// unmatchedRoute labels requests that hit no registered route, so stray
// paths cannot grow the label set.
const unmatchedRoute = "unmatched"

// metricsSkipPaths defines URL paths excluded from HTTP request metrics.
var metricsSkipPaths = map[string]struct{}{
	"/metrics": {},
	"/healthz": {},
	"/readyz":  {},
}

// metricsSkipPrefixes excludes the API documentation routes.
var metricsSkipPrefixes = []string{"/docs", "/openapi", "/schemas/"}

// healthGauges maps operational paths to their corresponding Prometheus gauge.
var healthGauges = map[string]prometheus.Gauge{
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
}

// Metrics returns Echo middleware that records request duration and status
// labelled by route template. Operational paths update up/down gauges
// instead.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			urlPath := c.Request().URL.Path

			if _, skip := metricsSkipPaths[urlPath]; skip {
				err := next(c)
				updateHealthGauge(urlPath, c.Response().Status)
				return err
			}
			for _, p := range metricsSkipPrefixes {
				if strings.HasPrefix(urlPath, p) {
					return next(c)
				}
			}

			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = unmatchedRoute
			}

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method

			metrics.HTTPRequestDuration.
				WithLabelValues(method, route, status).
				Observe(duration)
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, route, status).
				Inc()

			return nil
		}
	}
}

// updateHealthGauge sets the gauge for a health path to 1 (success) or 0 (failure).
func updateHealthGauge(path string, status int) {
	gauge, ok := healthGauges[path]
	if !ok {
		return
	}

	if status >= 200 && status < 300 {
		gauge.Set(1)
	} else {
		gauge.Set(0)
	}
}
