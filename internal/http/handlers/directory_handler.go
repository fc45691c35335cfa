package handlers

import (
	"errors"
	"strings"
	"unicode/utf8"

	applog "comunia/internal/log"
	"comunia/internal/services"
	"comunia/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type DirectoryHandler struct {
	Directory *services.DirectoryService
	Favorites *services.FavoriteService
}

// GET /
func (h *DirectoryHandler) Home(c *fiber.Ctx) error {
	raw := c.Query("search")
	category := c.Query("category")
	q := ""
	if strings.TrimSpace(raw) != "" {
		var ok bool
		if q, ok = validate.Q(raw); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "search", "len": utf8.RuneCountInString(raw)})
			c.Status(fiber.StatusBadRequest)
			return render(c, "home", fiber.Map{
				"Err":         "Búsqueda inválida (máximo 80 caracteres)",
				"AllCategory": services.AllCategories,
			})
		}
	}
	list, err := h.Directory.List(q, category)
	if err != nil {
		applog.Error(c, "directory.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "No se pudo cargar el directorio"})
	}
	return render(c, "home", fiber.Map{
		"Businesses":  list,
		"Search":      q,
		"Category":    category,
		"AllCategory": services.AllCategories,
	})
}

// GET /register
func (h *DirectoryHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{})
}

// POST /register
func (h *DirectoryHandler) Register(c *fiber.Ctx) error {
	in := services.RegisterInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Logo:        c.FormValue("logo"),
		Location:    c.FormValue("location"),
		Category:    c.FormValue("category"),
		Phone:       c.FormValue("phone"),
		Email:       c.FormValue("email"),
		WhatsApp:    c.FormValue("whatsapp"),
	}
	fail := func(field string) error {
		applog.Security(c, "validation.fail", map[string]any{"field": field})
		c.Status(fiber.StatusBadRequest)
		return render(c, "register", fiber.Map{"Err": "Revisa los datos del formulario", "Form": in})
	}
	if _, ok := validate.Name(in.Name); !ok {
		return fail("name")
	}
	if _, ok := validate.Phone(in.Phone); !ok {
		return fail("phone")
	}
	if _, ok := validate.Phone(in.WhatsApp); !ok {
		return fail("whatsapp")
	}
	if strings.TrimSpace(in.Email) != "" {
		if _, ok := validate.Email(in.Email); !ok {
			return fail("email")
		}
	}

	owner := currentUser(c)
	id, err := h.Directory.Register(owner, in)
	if errors.Is(err, services.ErrInvalidInput) {
		return fail("description")
	}
	if err != nil {
		applog.Error(c, "business.register.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "No se pudo registrar el negocio"})
	}
	fields := map[string]any{"business_id": id}
	if owner != nil {
		fields["owner_id"] = owner.ID
	}
	applog.Audit(c, "business.register", fields)
	return c.Redirect("/profile/" + itoa(id))
}

// GET /profile/:id
func (h *DirectoryHandler) Profile(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "business"})
		return notFound(c, "Este negocio no está disponible")
	}
	viewer := currentUser(c)
	p, err := h.Directory.Profile(id, viewer)
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c, "Este negocio no está disponible")
	}
	if err != nil {
		applog.Error(c, "business.profile.fail", err, map[string]any{"business_id": id})
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "No se pudo cargar el perfil"})
	}
	favorite := false
	if viewer != nil {
		favorite, _ = h.Favorites.Repo.Has(viewer.ID, id)
	}
	return render(c, "profile", fiber.Map{"P": p, "Favorite": favorite})
}
