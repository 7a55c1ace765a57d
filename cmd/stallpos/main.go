package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"stallpos/internal/config"
	"stallpos/internal/http/handlers"
	applog "stallpos/internal/log"
	"stallpos/internal/repos"
	"stallpos/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	// Templates & app
	engine := html.New(cfg.TemplateDir, ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "something went wrong, please try again",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	// CSRF only guards the browser form flow; the JSON API is cookie-free.
	formGuard := csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("login", fiber.Map{"Err": "Security check failed. Please refresh and try again."})
		},
	})
	exposeCSRF := func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	}

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, authSvc)

	// API: register flow
	api := app.Group("/api/v1", handlers.RequireStaff(authSvc))
	api.Post("/availability", deps.SalesHandler.CheckAvailability)
	api.Post("/checkout", deps.SalesHandler.PlaceCheckout)
	api.Get("/inventory", deps.InventoryHandler.Status)
	api.Get("/inventory/:id/stock", deps.InventoryHandler.Stock)
	api.Get("/sales", deps.HistoryHandler.List)
	api.Get("/sales/summary", deps.HistoryHandler.Summary)
	api.Get("/sales/:id", deps.HistoryHandler.Get)
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Get)

	// API: catalog management (admin only)
	mgmt := app.Group("/api/v1", handlers.RequireAdmin(authSvc))
	mgmt.Post("/products", deps.ProductHandler.Create)
	mgmt.Put("/products/:id", deps.ProductHandler.Update)
	mgmt.Delete("/products/:id", deps.ProductHandler.Delete)
	mgmt.Put("/products/:id/components", deps.ProductHandler.SetComposition)

	// Auth routes (login throttled)
	app.Get("/login", formGuard, exposeCSRF, authH.LoginForm)
	app.Post("/login", formGuard, exposeCSRF, limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)

	// Admin dashboard
	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/", deps.DashboardHandler.Dashboard)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
