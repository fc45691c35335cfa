package handlers

import (
	"comunia/internal/log"
	"comunia/internal/services"
	"comunia/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

// GET /api/products/:id/availability
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing product id",
		})
	}
	avail, err := h.Inv.CheckAvailability(id)
	if err != nil {
		log.Error(c, "inventory.check.fail", err, map[string]any{"product_id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error interno del servidor",
		})
	}
	return c.JSON(avail)
}
