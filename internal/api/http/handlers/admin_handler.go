package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/triagem/triage-console/internal/observability"
	"github.com/triagem/triage-console/internal/service"
)

const defaultAuditLimit = 50

// AdminHandler exposes console internals: counters and the audit journal.
type AdminHandler struct {
	metrics *observability.Metrics
	audit   *service.AuditService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(metrics *observability.Metrics, audit *service.AuditService) *AdminHandler {
	return &AdminHandler{metrics: metrics, audit: audit}
}

// Metrics GET /admin/metrics.
func (h *AdminHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}

// Audit GET /admin/audit?limit=.
func (h *AdminHandler) Audit(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultAuditLimit)
	if limit <= 0 || limit > 500 {
		limit = defaultAuditLimit
	}
	entries, err := h.audit.Recent(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}
