package handlers

import (
	applog "comunia/internal/log"
	"comunia/internal/repos"
	"comunia/internal/services"
	"comunia/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Businesses  *repos.BusinessRepo
	Users       *repos.UserRepo
	Suggestions *services.SuggestionService
}

// GET /admin/businesses
func (h *AdminHandler) BusinessesPage(c *fiber.Ctx) error {
	list, err := h.Businesses.ListAll()
	if err != nil {
		applog.Error(c, "admin.businesses.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "No se pudieron cargar los negocios"})
	}
	return render(c, "admin_businesses", fiber.Map{"Businesses": list})
}

// POST /admin/businesses/:id/deactivate and /activate
func (h *AdminHandler) SetBusinessActive(active bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validate.ID(c.Params("id"))
		if !ok {
			return c.Status(400).SendString("missing id")
		}
		if err := h.Businesses.SetActive(id, active); err != nil {
			applog.Error(c, "admin.businesses.update.fail", err, map[string]any{"business_id": id})
			return c.Status(400).SendString("could not update business")
		}
		if !active {
			h.Suggestions.Forget(id)
		}
		applog.Audit(c, activeAction("admin.businesses", active), map[string]any{"business_id": id})
		return c.Redirect("/admin/businesses")
	}
}

// UsersPage lists users (excluding admin).
func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "No se pudieron cargar los usuarios"})
	}
	return render(c, "admin_users", fiber.Map{"Users": users})
}

// SetUserActive soft-deletes or restores an account. Deactivation also ends
// the user's sessions.
func (h *AdminHandler) SetUserActive(active bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validate.ID(c.Params("id"))
		if !ok {
			return c.Status(400).SendString("missing id")
		}
		if err := h.Users.SetActive(id, active); err != nil {
			applog.Error(c, "admin.users.update.fail", err, map[string]any{"user_id": id})
			return c.Status(400).SendString("could not update user")
		}
		if !active {
			if err := h.Users.DropSessions(id); err != nil {
				applog.Error(c, "admin.users.sessions.fail", err, map[string]any{"user_id": id})
			}
		}
		applog.Audit(c, activeAction("admin.users", active), map[string]any{"user_id": id})
		return c.Redirect("/admin/users")
	}
}

func activeAction(prefix string, active bool) string {
	if active {
		return prefix + ".activate"
	}
	return prefix + ".deactivate"
}
