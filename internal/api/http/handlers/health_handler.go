package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/triagem/triage-console/internal/domain"
	"github.com/triagem/triage-console/internal/persistence"
)

const readinessTimeout = 2 * time.Second

// Pinger is a backend the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// AnalysisHealth reports the analysis service liveness.
type AnalysisHealth interface {
	Health(ctx context.Context) (*domain.HealthStatus, error)
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    Pinger
	redis       Pinger
	analysis    AnalysisHealth
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, postgres, redis Pinger, analysis AnalysisHealth) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, postgres: postgres, redis: redis, analysis: analysis}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies. Backends that
// are not configured are reported as disabled and do not fail the probe.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), readinessTimeout)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	check := func(name string, p Pinger) {
		if p == nil {
			depStatus[name] = "disabled"
			return
		}
		err := p.Ping(ctx)
		switch {
		case err == nil:
			depStatus[name] = "ok"
		case errors.Is(err, persistence.ErrNotConfigured):
			depStatus[name] = "disabled"
		default:
			depStatus[name] = err.Error()
			ready = false
		}
	}
	check("postgres", h.postgres)
	check("redis", h.redis)

	if h.analysis != nil {
		status, err := h.analysis.Health(ctx)
		if err != nil {
			depStatus["analysis_service"] = err.Error()
			ready = false
		} else {
			depStatus["analysis_service"] = status.Status
		}
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}
