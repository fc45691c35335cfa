package handlers

import (
	"errors"

	"comunia/internal/ai"
	applog "comunia/internal/log"
	"comunia/internal/services"
	"comunia/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SuggestionHandler struct {
	Suggestions *services.SuggestionService
}

// GET /api/ai/suggestions/:id
func (h *SuggestionHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "business", nil)
	}
	text, err := h.Suggestions.Suggest(c.UserContext(), id)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"business_id": id, "suggestions": text})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Negocio no encontrado"})
	case errors.Is(err, ai.ErrNotConfigured):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "El asistente de IA no está configurado"})
	default:
		applog.Error(c, "suggestions.fail", err, map[string]any{"business_id": id})
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "No se pudieron generar sugerencias"})
	}
}
