package handlers

import (
	applog "comunia/internal/log"
	"comunia/internal/services"
	"comunia/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type FavoriteHandler struct {
	Favorites *services.FavoriteService
}

// POST /api/favorites/:businessId
func (h *FavoriteHandler) Save(c *fiber.Ctx) error {
	bid, ok := validate.ID(c.Params("businessId"))
	if !ok {
		return badRequest(c, "business", nil)
	}
	u := currentUser(c)
	if err := h.Favorites.Save(u.ID, bid); err != nil {
		return apiError(c, err)
	}
	applog.Info(c, "favorite.add", map[string]any{"business_id": bid, "user_id": u.ID})
	return c.JSON(fiber.Map{"business_id": bid, "favorite": true})
}

// DELETE /api/favorites/:businessId
func (h *FavoriteHandler) Remove(c *fiber.Ctx) error {
	bid, ok := validate.ID(c.Params("businessId"))
	if !ok {
		return badRequest(c, "business", nil)
	}
	u := currentUser(c)
	if err := h.Favorites.Unsave(u.ID, bid); err != nil {
		return apiError(c, err)
	}
	applog.Info(c, "favorite.remove", map[string]any{"business_id": bid, "user_id": u.ID})
	return c.JSON(fiber.Map{"business_id": bid, "favorite": false})
}

// GET /favorites
func (h *FavoriteHandler) Page(c *fiber.Ctx) error {
	list, err := h.Favorites.List(currentUser(c).ID)
	if err != nil {
		applog.Error(c, "favorite.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "No se pudieron cargar tus favoritos"})
	}
	return render(c, "favorites", fiber.Map{"Businesses": list})
}
