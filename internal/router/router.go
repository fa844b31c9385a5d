package router

import (
	"bookkeeping-web/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func Setup(app *fiber.App, db *sqlx.DB, redis *redis.Client, cfg *config.Config) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"app":    cfg.AppName,
		})
	})

	// Web routes (HTML)
	web := app.Group("")
	setupWebRoutes(web, db, redis, cfg)

	// API routes (JSON)
	api := app.Group("/api/v1")
	SetupAPIRoutes(api, db, redis, cfg)
}

func setupWebRoutes(router fiber.Router, db *sqlx.DB, redis *redis.Client, cfg *config.Config) {
	// Authentication pages
	router.Get("/login", func(c *fiber.Ctx) error {
		return c.Render("auth/login", fiber.Map{
			"Title": "Login",
		})
	})

	router.Get("/register", func(c *fiber.Ctx) error {
		return c.Render("auth/register", fiber.Map{
			"Title": "Register",
		})
	})

	// Dashboard (protected)
	router.Get("/", func(c *fiber.Ctx) error {
		return c.Render("dashboard/index", fiber.Map{
			"Title": "Dashboard",
		})
	})

	// Master data pages
	router.Get("/accounts", func(c *fiber.Ctx) error {
		return c.Render("master/accounts", fiber.Map{
			"Title": "Chart of Accounts",
		})
	})

	router.Get("/ledgers", func(c *fiber.Ctx) error {
		return c.Render("master/ledgers", fiber.Map{
			"Title": "Ledgers",
		})
	})

	// Journal pages
	router.Get("/journals", func(c *fiber.Ctx) error {
		return c.Render("journals/index", fiber.Map{
			"Title": "Journals",
		})
	})

	router.Get("/journals/new", func(c *fiber.Ctx) error {
		return c.Render("journals/new", fiber.Map{
			"Title": "New Journal",
		})
	})

	router.Get("/journals/:id", func(c *fiber.Ctx) error {
		return c.Render("journals/detail", fiber.Map{
			"Title": "Journal Detail",
		})
	})

	// Report pages
	router.Get("/reports/trial-balance", func(c *fiber.Ctx) error {
		return c.Render("reports/trial-balance", fiber.Map{
			"Title": "Trial Balance",
		})
	})
}
