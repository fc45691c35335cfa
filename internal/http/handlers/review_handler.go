package handlers

import (
	applog "comunia/internal/log"
	"comunia/internal/services"
	"comunia/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

type reviewRequest struct {
	Author  string `json:"author" validate:"required,max=80"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment" validate:"required,max=1000"`
}

// GET /api/reviews/:businessId
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	bid, ok := validate.ID(c.Params("businessId"))
	if !ok {
		return badRequest(c, "business", nil)
	}
	sum, err := h.Reviews.List(bid)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(sum)
}

// POST /api/reviews/:businessId
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	bid, ok := validate.ID(c.Params("businessId"))
	if !ok {
		return badRequest(c, "business", nil)
	}
	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", nil)
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, "review", err)
	}
	rv, err := h.Reviews.Add(bid, req.Author, req.Rating, req.Comment)
	if err != nil {
		return apiError(c, err)
	}
	applog.Info(c, "review.create", map[string]any{"business_id": bid, "rating": rv.Rating})
	return c.Status(fiber.StatusCreated).JSON(rv)
}
