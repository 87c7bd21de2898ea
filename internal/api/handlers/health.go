package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pinger is a dependency whose reachability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	checks []Pinger
}

// NewHealthHandler creates a new HealthHandler. Nil checks are ignored, so
// a process without a database is ready as soon as it is up.
func NewHealthHandler(checks ...Pinger) *HealthHandler {
	h := &HealthHandler{}
	for _, c := range checks {
		if c != nil {
			h.checks = append(h.checks, c)
		}
	}
	return h
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 if every configured dependency answers, 503 otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	for _, check := range h.checks {
		if err := check.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}
