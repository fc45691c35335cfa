package handlers

import (
	"errors"

	"comunia/internal/assistant"
	applog "comunia/internal/log"

	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	Router *assistant.Router
}

type chatRequest struct {
	Message string `json:"message"`
}

// POST /api/chat
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Se requiere un mensaje"})
	}
	sid := ensureSID(c)
	reply, err := h.Router.Handle(c.UserContext(), sid, req.Message)
	if errors.Is(err, assistant.ErrMessageRequired) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Se requiere un mensaje"})
	}
	if err != nil {
		applog.Error(c, "chat.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error interno del servidor"})
	}

	applog.Info(c, "chat.reply", map[string]any{"intent": reply.Intent, "outcome": reply.Outcome})
	status := fiber.StatusOK
	if reply.Outcome == assistant.OutcomeNotConfigured {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"reply":   reply.Text,
		"intent":  reply.Intent,
		"outcome": reply.Outcome,
	})
}
