package handlers

import (
	"time"

	applog "comunia/internal/log"
	"comunia/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Routes mounts every page and API endpoint. Global middleware (request id,
// helmet, CSRF, user locals) is installed by the caller.
func Routes(app *fiber.App, d *Deps, authSvc *services.AuthService) {
	authH := &AuthHandler{Auth: authSvc}
	requireUser := RequireUser(authSvc)

	// Public pages
	app.Get("/", d.DirectoryHandler.Home)
	app.Get("/register", d.DirectoryHandler.RegisterForm)
	app.Post("/register", d.DirectoryHandler.Register)
	app.Get("/profile/:id", d.DirectoryHandler.Profile)
	app.Get("/favorites", requireUser, d.FavoriteHandler.Page)

	// Auth routes (login throttled)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Demasiados intentos. Intenta más tarde."})
		},
	}), authH.Login)
	app.Get("/signup", authH.SignupForm)
	app.Post("/signup", authH.Signup)
	app.Post("/logout", authH.Logout)

	// API
	api := app.Group("/api")
	chatLimiter := limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|chat"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.chat.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Demasiados mensajes, intenta en un momento"})
		},
	})
	api.Post("/chat", chatLimiter, d.ChatHandler.Chat)
	api.Get("/ai/suggestions/:id", d.SuggestionHandler.Get)

	api.Get("/products/:id/availability", d.InventoryHandler.Check)
	api.Post("/products/:businessId", requireUser, d.ProductHandler.Create)
	api.Delete("/products/:id", requireUser, d.ProductHandler.Delete)
	api.Put("/products/:id/stock", requireUser, d.ProductHandler.SetStock)

	api.Get("/reviews/:businessId", d.ReviewHandler.List)
	api.Post("/reviews/:businessId", d.ReviewHandler.Create)

	api.Post("/favorites/:businessId", requireUser, d.FavoriteHandler.Save)
	api.Delete("/favorites/:businessId", requireUser, d.FavoriteHandler.Remove)

	api.Post("/reservations", requireUser, d.ReservationHandler.Create)
	api.Get("/reservations", requireUser, d.ReservationHandler.List)

	// Admin
	admin := app.Group("/admin", RequireAdmin(authSvc))
	admin.Get("/businesses", d.AdminHandler.BusinessesPage)
	admin.Post("/businesses/:id/deactivate", d.AdminHandler.SetBusinessActive(false))
	admin.Post("/businesses/:id/activate", d.AdminHandler.SetBusinessActive(true))
	admin.Get("/users", d.AdminHandler.UsersPage)
	admin.Post("/users/:id/deactivate", d.AdminHandler.SetUserActive(false))
	admin.Post("/users/:id/activate", d.AdminHandler.SetUserActive(true))

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Página no encontrada"})
	})
}
