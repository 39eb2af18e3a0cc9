package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/triagem/triage-console/internal/api/dto"
	"github.com/triagem/triage-console/internal/service"
	apperrors "github.com/triagem/triage-console/pkg/errorutil"
)

// SessionsHandler exposes triage sessions: one per console tab.
type SessionsHandler struct {
	store *service.SessionStore
}

// NewSessionsHandler constructs handler.
func NewSessionsHandler(store *service.SessionStore) *SessionsHandler {
	return &SessionsHandler{store: store}
}

// Create POST /sessions.
func (h *SessionsHandler) Create(c *fiber.Ctx) error {
	session := h.store.Create()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": session.Snapshot()})
}

// Get GET /sessions/:id.
func (h *SessionsHandler) Get(c *fiber.Ctx) error {
	session, err := h.store.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": session.Snapshot()})
}

// Delete DELETE /sessions/:id.
func (h *SessionsHandler) Delete(c *fiber.Ctx) error {
	if err := h.store.Delete(c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SelectMode PUT /sessions/:id/mode.
func (h *SessionsHandler) SelectMode(c *fiber.Ctx) error {
	session, err := h.store.Get(c.Params("id"))
	if err != nil {
		return err
	}
	var req dto.SelectModeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := session.SelectMode(req.Mode); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": session.Snapshot()})
}

// InputChanged POST /sessions/:id/input.
func (h *SessionsHandler) InputChanged(c *fiber.Ctx) error {
	session, err := h.store.Get(c.Params("id"))
	if err != nil {
		return err
	}
	session.InputChanged()
	return c.JSON(fiber.Map{"data": session.Snapshot()})
}

// Submit POST /sessions/:id/triage. Failures carry the session snapshot in details.
func (h *SessionsHandler) Submit(c *fiber.Ctx) error {
	session, err := h.store.Get(c.Params("id"))
	if err != nil {
		return err
	}
	var req dto.SubmitTriageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	snap, err := session.Submit(c.UserContext(), req.ToInput())
	if err != nil {
		return withSession(err, snap)
	}
	return c.JSON(fiber.Map{"data": snap})
}

// Feedback POST /sessions/:id/feedback.
func (h *SessionsHandler) Feedback(c *fiber.Ctx) error {
	session, err := h.store.Get(c.Params("id"))
	if err != nil {
		return err
	}
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	snap, err := session.SubmitFeedback(c.UserContext(), req.ToInput())
	if err != nil {
		return withSession(err, snap)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"data": snap})
}

// Modulos GET /modulos.
func (h *SessionsHandler) Modulos(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.ModuloOptions()})
}

func withSession(err error, snap any) error {
	de := apperrors.ToDomainError(err)
	out := *de
	out.Details = map[string]any{"session": snap}
	for k, v := range de.Details {
		out.Details[k] = v
	}
	return &out
}
