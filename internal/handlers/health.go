package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

// HealthHandler reports service liveness and the state of its stores.
type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) HealthCheck(c echo.Context) error {
	status := http.StatusOK
	stores := make(map[string]string, len(h.checks))
	for name, ping := range h.checks {
		if err := ping(c.Request().Context()); err != nil {
			stores[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		stores[name] = "up"
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "degraded"
	}
	return c.JSON(status, map[string]interface{}{
		"status":  overall,
		"service": "quill-api",
		"stores":  stores,
	})
}
