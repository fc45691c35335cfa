package handlers

import (
	"errors"

	applog "comunia/internal/log"
	"comunia/internal/services"
	"comunia/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Products *services.ProductService
}

type productRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price" validate:"gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url,max=500"`
}

type stockRequest struct {
	Stock *int `json:"stock" validate:"required,gte=0"`
}

func badRequest(c *fiber.Ctx, field string, err error) error {
	fields := map[string]any{"field": field}
	if err != nil {
		fields["reason"] = err.Error()
	}
	applog.Security(c, "validation.fail", fields)
	msg := "Datos inválidos"
	if err != nil {
		msg = err.Error()
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// POST /api/products/:businessId
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	bid, ok := validate.ID(c.Params("businessId"))
	if !ok {
		return badRequest(c, "business", nil)
	}
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", nil)
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, "product", err)
	}
	u := currentUser(c)
	p, err := h.Products.Add(u, bid, services.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, services.ErrNotOwner) {
			applog.Security(c, "access.denied.owner", map[string]any{"business_id": bid, "user_id": u.ID})
		}
		return apiError(c, err)
	}
	applog.Audit(c, "product.create", map[string]any{"business_id": bid, "product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "product", nil)
	}
	u := currentUser(c)
	if err := h.Products.Delete(u, id); err != nil {
		if errors.Is(err, services.ErrNotOwner) {
			applog.Security(c, "access.denied.owner", map[string]any{"product_id": id, "user_id": u.ID})
		}
		return apiError(c, err)
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"deleted": true})
}

// PUT /api/products/:id/stock
func (h *ProductHandler) SetStock(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "product", nil)
	}
	var req stockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", nil)
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, "stock", err)
	}
	u := currentUser(c)
	if err := h.Products.SetStock(u, id, *req.Stock); err != nil {
		if errors.Is(err, services.ErrNotOwner) {
			applog.Security(c, "access.denied.owner", map[string]any{"product_id": id, "user_id": u.ID})
		}
		return apiError(c, err)
	}
	applog.Audit(c, "product.stock", map[string]any{"product_id": id, "stock": *req.Stock})
	return c.JSON(fiber.Map{"product_id": id, "stock": *req.Stock})
}
