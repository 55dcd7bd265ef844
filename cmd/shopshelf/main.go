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

	"shopshelf/internal/cache"
	"shopshelf/internal/config"
	"shopshelf/internal/http/handlers"
	applog "shopshelf/internal/log"
	"shopshelf/internal/repos"
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

	var store cache.Cache
	if cfg.RedisAddr != "" {
		r, err := cache.NewRedis(cfg.RedisAddr, os.Getenv("REDIS_PASSWORD"), 0)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		store = r
		log.Printf("[cache] redis at %s", cfg.RedisAddr)
	} else {
		store = cache.NewMemory()
		log.Printf("[cache] in-process memory store")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	}))

	// ---------- Routes ----------
	deps := handlers.NewDeps(db, cfg, store)
	admin := handlers.RequireAdminKey(cfg.AdminKeyHash)
	writeLimiter := limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.write.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})

	api := app.Group("/api/v1")

	products := api.Group("/products")
	products.Get("/", deps.ProductHandler.List)
	products.Get("/:id", deps.ProductHandler.Get)
	products.Post("/", admin, writeLimiter, deps.ProductHandler.Create)
	products.Patch("/:id", admin, writeLimiter, deps.ProductHandler.Update)
	products.Delete("/:id", admin, writeLimiter, deps.ProductHandler.Delete)

	books := api.Group("/books")
	books.Get("/", deps.BookHandler.List)
	books.Get("/search", deps.BookHandler.Search)
	books.Get("/:id", deps.BookHandler.Get)
	books.Post("/", admin, writeLimiter, deps.BookHandler.Create)
	books.Patch("/:id", admin, writeLimiter, deps.BookHandler.Update)
	books.Delete("/:id", admin, writeLimiter, deps.BookHandler.Delete)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
