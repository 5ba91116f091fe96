package routes

import (
	"time"

	"github.com/denizgokce/inkpad-backend/internal/handlers"
	"github.com/denizgokce/inkpad-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	authenticator *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	noteHandler *handlers.NoteHandler,
	categoryHandler *handlers.CategoryHandler,
	labelHandler *handlers.LabelHandler,
	publicHandler *handlers.PublicHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth passthrough to the identity authority.
	// Stricter rate limit: 10 req/min per IP.
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/signup", authHandler.SignUp)
	auth.Post("/signin", authHandler.SignIn)
	auth.Post("/callback", authHandler.Callback)
	auth.Post("/signout", authHandler.SignOut)
	auth.Get("/me", authenticator.RequireAuth(), authHandler.Me)

	// Shared notes are readable without credentials; an identity is
	// still attached when one resolves.
	api.Get("/public/:token", authenticator.OptionalAuth(), publicHandler.Get)

	notes := api.Group("/notes", authenticator.RequireAuth())
	notes.Get("/", noteHandler.List)
	notes.Post("/", noteHandler.Create)
	notes.Get("/:id", noteHandler.Get)
	notes.Put("/:id", noteHandler.Update)
	notes.Delete("/:id", noteHandler.Delete)
	notes.Patch("/:id/visibility", noteHandler.SetVisibility)
	notes.Patch("/:id/publish", noteHandler.Publish)
	notes.Post("/:id/autosave", noteHandler.Autosave)

	categories := api.Group("/categories", authenticator.RequireAuth())
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)

	labels := api.Group("/labels", authenticator.RequireAuth())
	labels.Get("/", labelHandler.List)
	labels.Post("/", labelHandler.Create)
}
