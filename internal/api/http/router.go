package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/query-triage/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Queries   *handlers.QueriesHandler
	Analytics *handlers.AnalyticsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	queries := app.Group("/queries")
	queries.Post("/", cfg.Queries.CreateQuery)
	queries.Get("/", cfg.Queries.ListQueries)
	queries.Post("/bulk", cfg.Queries.BulkUpdate)
	queries.Get("/:id", cfg.Queries.GetQuery)
	queries.Put("/:id", cfg.Queries.UpdateQuery)
	queries.Delete("/:id", cfg.Queries.DeleteQuery)

	analytics := app.Group("/analytics")
	analytics.Get("/overview", cfg.Analytics.Overview)
	analytics.Get("/tags", cfg.Analytics.Tags)
	analytics.Get("/response-times", cfg.Analytics.ResponseTimes)
	analytics.Get("/trends", cfg.Analytics.Trends)
	analytics.Get("/teams", cfg.Analytics.Teams)

	app.Get("/teams", cfg.Queries.ListTeams)
}
