package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stockroom/internal/config"
	"stockroom/internal/http/handlers"
	applog "stockroom/internal/log"
	"stockroom/internal/repos"
	"stockroom/internal/services"
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

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and answer with a generic message; never leak internals
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal error",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in (actor attribution for mutations)
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
				c.Locals("userID", u.ID)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, authSvc)

	// Items
	app.Get("/Items", deps.ItemHandler.List)
	app.Post("/Items", deps.ItemHandler.Create)
	app.Get("/Items/:sku", deps.ItemHandler.Get)
	app.Put("/Items/:sku", deps.ItemHandler.Update)
	app.Delete("/Items/:sku", deps.ItemHandler.Delete)

	// Shipments
	app.Get("/Shipments", deps.ShipmentHandler.List)
	app.Get("/Shipments/type/:type", deps.ShipmentHandler.ListByType)
	app.Post("/Shipments", deps.ShipmentHandler.Create)
	app.Put("/Shipments/:id", deps.ShipmentHandler.Update)
	app.Delete("/Shipments/:id", deps.ShipmentHandler.Delete)
	app.Post("/Shipments/:id/complete", deps.ShipmentHandler.Complete)

	// Activity logs
	app.Get("/ActivityLogs", deps.ActivityHandler.List)
	app.Get("/ActivityLogs/recent", deps.ActivityHandler.Recent)
	app.Get("/ActivityLogs/stockmovement", deps.ActivityHandler.StockMovement)
	app.Get("/ActivityLogs/type/:type", deps.ActivityHandler.ByType)
	app.Get("/ActivityLogs/item/:sku", deps.ActivityHandler.ByItem)
	app.Get("/ActivityLogs/user/:userId", deps.ActivityHandler.ByUser)
	app.Post("/ActivityLogs", deps.ActivityHandler.Create)

	// Stocktakes
	app.Get("/Stocktakes", deps.StocktakeHandler.List)
	app.Post("/Stocktakes", deps.StocktakeHandler.Create)
	app.Post("/Stocktakes/:id/complete", deps.StocktakeHandler.Complete)
	app.Delete("/Stocktakes/:id", deps.StocktakeHandler.Delete)

	// Auth (login throttled)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), deps.AuthHandler.Login)
	app.Post("/logout", deps.AuthHandler.Logout)

	// Health & metrics
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
