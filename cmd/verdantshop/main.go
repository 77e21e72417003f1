package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"verdantshop/internal/config"
	"verdantshop/internal/http/handlers"
	applog "verdantshop/internal/log"
	"verdantshop/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	deps := handlers.NewDeps(db, cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := db.Ping(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth
	api.Post("/auth/login", deps.AuthHandler.Login)
	api.Post("/auth/logout", deps.AuthHandler.Logout)
	api.Get("/auth/me", deps.AuthHandler.Me)

	// Catalog
	api.Get("/categories", deps.CategoryHandler.List)
	api.Get("/categories/:id/products", deps.CategoryHandler.Products)
	api.Get("/products/:id", deps.ProductHandler.Get)
	api.Get("/products/:id/reviews", deps.ProductHandler.ListReviews)
	api.Get("/search", limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}), deps.SearchHandler.Search)

	// Cart and checkout
	api.Get("/cart", deps.CartHandler.View)
	api.Post("/cart/items", deps.CartHandler.Add)
	api.Post("/orders", deps.OrderHandler.Checkout)
	api.Get("/orders", deps.OrderHandler.List)
	api.Get("/orders/:id", deps.OrderHandler.Get)

	// Wishlist
	api.Get("/wishlist", deps.WishlistHandler.List)
	api.Post("/wishlist/items", deps.WishlistHandler.Add)
	api.Delete("/wishlist/items/:productId", deps.WishlistHandler.Remove)

	// Logged-in surface
	user := api.Group("", handlers.RequireUser(deps.Auth))
	user.Post("/products/:id/reviews", deps.ReviewHandler.Create)
	user.Post("/reviews/:id/helpful", deps.ReviewHandler.VoteHelpful)
	user.Get("/notifications", deps.NotificationHandler.List)
	user.Get("/notifications/unread-count", deps.NotificationHandler.UnreadCount)
	user.Post("/notifications/mark-read", deps.NotificationHandler.MarkRead)
	user.Post("/stock-alerts", deps.StockAlertHandler.Subscribe)
	user.Get("/stock-alerts", deps.StockAlertHandler.List)

	// Chatbot
	chatLimiter := limiter.New(limiter.Config{Max: 15, Expiration: time.Minute})
	api.Post("/chat", chatLimiter, deps.ChatbotHandler.Chat)
	api.Get("/chat/history", deps.ChatbotHandler.History)
	api.Post("/chat/feedback", deps.ChatbotHandler.Feedback)
	api.Get("/chat/health", deps.ChatbotHandler.Health)

	// Admin surface
	admin := api.Group("/admin", handlers.RequireAdmin(deps.Auth))
	admin.Put("/products/:id/stock", deps.AdminHandler.SetStock)
	admin.Put("/products/:id/price", deps.AdminHandler.SetPrice)
	admin.Get("/orders", deps.AdminHandler.ListOrders)
	admin.Put("/orders/:id/status", deps.AdminHandler.SetOrderStatus)
	admin.Put("/orders/:id/ship", deps.AdminHandler.ShipOrder)
	admin.Get("/stock-report", deps.AdminHandler.StockReport)
	admin.Get("/low-stock", deps.AdminHandler.LowStock)
	admin.Post("/stock-monitor/run", deps.AdminHandler.RunMonitor)
	admin.Post("/chat/sync-products", deps.ChatbotHandler.SyncProducts)

	log.Printf("listening on :%s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
