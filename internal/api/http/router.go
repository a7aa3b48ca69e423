package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magicplay247/agent-panel/internal/api/http/handlers"
	"github.com/magicplay247/agent-panel/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Agents         *handlers.AgentsHandler
	Notices        *handlers.NoticesHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Reads are public; every mutation except
// report submission requires the administrator token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Auth.Logout)

	agents := app.Group("/agents")
	agents.Get("/upline", cfg.Agents.ListUpline)
	agents.Get("/", cfg.Agents.ListByType)
	agents.Get("/:id", cfg.Agents.GetByID)
	agents.Get("/:id/downline", cfg.Agents.ListDownline)
	agents.Post("/", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Agents.Create)
	agents.Patch("/:id", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Agents.Update)
	agents.Delete("/:id", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Agents.Delete)

	notices := app.Group("/notices")
	notices.Get("/active", cfg.Notices.ListActive)
	notices.Get("/", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Notices.List)
	notices.Post("/", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Notices.Create)
	notices.Patch("/:id", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Notices.Update)
	notices.Delete("/:id", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Notices.Delete)

	reports := app.Group("/reports")
	reports.Post("/", cfg.Reports.Submit)
	reports.Get("/", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Reports.List)
}
