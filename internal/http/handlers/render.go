package handlers

import (
	"errors"
	"strconv"

	"comunia/internal/domain"
	"comunia/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if u := currentUser(c); u != nil {
		data["User"] = u
	}
	// the CSRF middleware puts its token into Locals; the cookie is a fallback
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	data["Categories"] = domain.Categories
	return c.Render(tmpl, data)
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": msg})
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	return sid
}

// apiError maps service errors to a status and a user-facing message.
func apiError(c *fiber.Ctx, err error) error {
	status, msg := fiber.StatusInternalServerError, "Error interno del servidor"
	switch {
	case errors.Is(err, services.ErrInvalidRating):
		status, msg = fiber.StatusBadRequest, "El rating debe ser de 1 a 5"
	case errors.Is(err, services.ErrInvalidInput):
		status, msg = fiber.StatusBadRequest, "Datos inválidos"
	case errors.Is(err, services.ErrNotFound):
		status, msg = fiber.StatusNotFound, "No encontrado"
	case errors.Is(err, services.ErrNotOwner):
		status, msg = fiber.StatusForbidden, "No autorizado"
	case errors.Is(err, services.ErrInactive):
		status, msg = fiber.StatusConflict, "El negocio no está activo"
	case errors.Is(err, services.ErrInsufficientStock):
		status, msg = fiber.StatusConflict, "No hay stock suficiente"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
