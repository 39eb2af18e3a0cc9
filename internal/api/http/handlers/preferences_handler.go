package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/triagem/triage-console/internal/api/dto"
	"github.com/triagem/triage-console/internal/auth"
	"github.com/triagem/triage-console/internal/service"
	apperrors "github.com/triagem/triage-console/pkg/errorutil"
)

// PreferencesHandler reads and writes the operator's display preference.
type PreferencesHandler struct {
	service *service.PreferenceService
}

// NewPreferencesHandler constructs handler.
func NewPreferencesHandler(preferences *service.PreferenceService) *PreferencesHandler {
	return &PreferencesHandler{service: preferences}
}

// Get GET /preferences.
func (h *PreferencesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("operator required")
	}
	pref, err := h.service.Get(c.UserContext(), principal.Operator)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": pref})
}

// Update PUT /preferences.
func (h *PreferencesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("operator required")
	}
	var req dto.UpdatePreferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	pref, err := h.service.Update(c.UserContext(), principal.Operator, req.ToUpdate())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": pref})
}
