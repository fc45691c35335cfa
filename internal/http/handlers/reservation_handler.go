package handlers

import (
	"errors"

	applog "comunia/internal/log"
	"comunia/internal/services"
	"comunia/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ReservationHandler struct {
	Reservations *services.ReservationService
}

type reservationRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Qty       int   `json:"qty" validate:"required,min=1,max=50"`
}

// POST /api/reservations
func (h *ReservationHandler) Create(c *fiber.Ctx) error {
	var req reservationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", nil)
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, "reservation", err)
	}
	u := currentUser(c)
	res, err := h.Reservations.Reserve(u.ID, req.ProductID, req.Qty)
	if err != nil {
		if errors.Is(err, services.ErrInsufficientStock) {
			applog.Info(c, "reservation.rejected", map[string]any{"product_id": req.ProductID, "qty": req.Qty})
		}
		return apiError(c, err)
	}
	applog.Audit(c, "reservation.create", map[string]any{"reservation_id": res.ID, "product_id": res.ProductID, "qty": res.Qty})
	return c.Status(fiber.StatusCreated).JSON(res)
}

// GET /api/reservations
func (h *ReservationHandler) List(c *fiber.Ctx) error {
	rows, err := h.Reservations.List(currentUser(c).ID)
	if err != nil {
		return apiError(c, err)
	}
	if rows == nil {
		return c.JSON([]any{})
	}
	return c.JSON(rows)
}
