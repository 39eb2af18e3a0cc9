package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/triagem/triage-console/internal/service"
	apperrors "github.com/triagem/triage-console/pkg/errorutil"
)

// DashboardHandler serves the statistics dashboard.
type DashboardHandler struct {
	service       *service.DashboardService
	defaultPeriod int
}

// NewDashboardHandler constructs handler. defaultPeriod applies when dias is omitted.
func NewDashboardHandler(dashboard *service.DashboardService, defaultPeriod int) *DashboardHandler {
	if defaultPeriod <= 0 {
		defaultPeriod = service.DefaultPeriodDays
	}
	return &DashboardHandler{service: dashboard, defaultPeriod: defaultPeriod}
}

// Get GET /dashboard?dias=&categoria=&modulo=.
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	days := h.defaultPeriod
	if raw := c.Query("dias"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.NewValidationError("dias must be an integer", map[string]any{"dias": raw})
		}
		days = n
	}

	state := h.service.Refresh(c.UserContext(), service.DashboardQuery{
		PeriodDays: days,
		Categoria:  c.Query("categoria"),
		Modulo:     c.Query("modulo"),
	})
	if state.Superseded {
		return apperrors.NewConflict("Painel substituído por uma atualização mais recente", map[string]any{"period_days": state.PeriodDays})
	}
	if state.ErrorKind != "" {
		return apperrors.NewDomainError(string(state.ErrorKind), state.ErrorMessage, apperrors.StatusForKind(state.ErrorKind), map[string]any{"period_days": state.PeriodDays})
	}
	return c.JSON(fiber.Map{"data": state})
}

// Current GET /dashboard/current returns the last refresh without reloading.
func (h *DashboardHandler) Current(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.State()})
}

// Periods GET /dashboard/periods.
func (h *DashboardHandler) Periods(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{
		"choices": h.service.PeriodChoices(),
		"default": h.defaultPeriod,
	}})
}
