package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/triagem/triage-console/internal/service"
	apperrors "github.com/triagem/triage-console/pkg/errorutil"
)

// IntegrationHandler exposes lookups against the external ticketing system.
type IntegrationHandler struct {
	service *service.IntegrationService
}

// NewIntegrationHandler constructs handler.
func NewIntegrationHandler(integration *service.IntegrationService) *IntegrationHandler {
	return &IntegrationHandler{service: integration}
}

// LookupTicket GET /integracao/chamados/:numero.
func (h *IntegrationHandler) LookupTicket(c *fiber.Ctx) error {
	ticket, err := h.service.LookupTicket(c.UserContext(), c.Params("numero"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Status GET /integracao/status.
func (h *IntegrationHandler) Status(c *fiber.Ctx) error {
	status, err := h.service.ExternalStatus(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": status})
}

// RecentAnalyses GET /integracao/analises-recentes?limite=.
func (h *IntegrationHandler) RecentAnalyses(c *fiber.Ctx) error {
	limit := c.QueryInt("limite", 0)
	if limit < 0 {
		return apperrors.NewValidationError("limite must be positive", nil)
	}
	recent, err := h.service.RecentAnalyses(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": recent})
}

// LastProbe GET /integracao/probe returns the last background check.
func (h *IntegrationHandler) LastProbe(c *fiber.Ctx) error {
	probe, ok := h.service.LastProbe()
	if !ok {
		return apperrors.NewNotFound("probe", nil)
	}
	return c.JSON(fiber.Map{"data": probe})
}
