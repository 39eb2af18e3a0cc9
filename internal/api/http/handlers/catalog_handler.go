package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/triagem/triage-console/internal/service"
)

// CatalogHandler exposes the pattern catalog and knowledge base.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: catalog}
}

// Patterns GET /catalog/padroes.
func (h *CatalogHandler) Patterns(c *fiber.Ctx) error {
	patterns, err := h.service.Patterns(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": patterns})
}

// KnowledgeBase GET /catalog/base-conhecimento.
func (h *CatalogHandler) KnowledgeBase(c *fiber.Ctx) error {
	kb, err := h.service.KnowledgeBase(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": kb})
}
