package handlers

import (
	"errors"
	"time"

	"comunia/internal/log"
	"comunia/internal/services"
	"comunia/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) loginFailed(c *fiber.Ctx, email, reason string) error {
	fields := map[string]any{"email": email}
	if reason != "" {
		fields["reason"] = reason
	}
	log.Security(c, "auth.login.fail", fields)
	return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{
		"Err":       "Correo o contraseña incorrectos",
		"CSRFToken": c.Cookies("csrf_"),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok {
		return h.loginFailed(c, email, "bad_format")
	}
	if !validate.Password(pass) {
		return h.loginFailed(c, email, "bad_password_format")
	}

	u, err := h.Auth.Login(sid, email, pass)
	if err != nil {
		return h.loginFailed(c, email, "")
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	if u.BusinessID.Valid {
		return c.Redirect("/profile/" + itoa(u.BusinessID.Int64))
	}
	return c.Redirect("/")
}

func (h *AuthHandler) SignupForm(c *fiber.Ctx) error {
	return render(c, "signup", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	fail := func(status int, msg, reason string) error {
		log.Security(c, "auth.signup.fail", map[string]any{"email": email, "reason": reason})
		return c.Status(status).Render("signup", fiber.Map{"Err": msg, "CSRFToken": c.Cookies("csrf_")})
	}
	if _, ok := validate.Email(email); !ok {
		return fail(fiber.StatusBadRequest, "Ingresa un correo válido", "bad_format")
	}
	if !validate.Password(pass) {
		return fail(fiber.StatusBadRequest, "La contraseña debe tener al menos 6 caracteres", "bad_password_format")
	}
	if pass != c.FormValue("confirm") {
		return fail(fiber.StatusBadRequest, "Las contraseñas no coinciden", "confirm_mismatch")
	}

	u, err := h.Auth.Signup(sid, email, pass)
	if errors.Is(err, services.ErrEmailTaken) {
		return fail(fiber.StatusConflict, "Ese correo ya está registrado", "email_taken")
	}
	if err != nil {
		log.Error(c, "auth.signup.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("signup", fiber.Map{"Err": "No se pudo crear la cuenta"})
	}
	log.Audit(c, "auth.signup.success", map[string]any{"user_id": u.ID})
	return c.Redirect("/register")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}
