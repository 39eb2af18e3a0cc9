package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/triagem/triage-console/internal/api/http/handlers"
	"github.com/triagem/triage-console/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Sessions       *handlers.SessionsHandler
	Dashboard      *handlers.DashboardHandler
	Catalog        *handlers.CatalogHandler
	Integration    *handlers.IntegrationHandler
	Preferences    *handlers.PreferencesHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/token", cfg.Auth.Login)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle)

	api.Get("/modulos", cfg.Sessions.Modulos)

	sessions := api.Group("/sessions")
	sessions.Post("", cfg.Sessions.Create)
	sessions.Get("/:id", cfg.Sessions.Get)
	sessions.Delete("/:id", cfg.Sessions.Delete)
	sessions.Put("/:id/mode", cfg.Sessions.SelectMode)
	sessions.Post("/:id/input", cfg.Sessions.InputChanged)
	sessions.Post("/:id/triage", cfg.Sessions.Submit)
	sessions.Post("/:id/feedback", cfg.Sessions.Feedback)

	dashboard := api.Group("/dashboard")
	dashboard.Get("", cfg.Dashboard.Get)
	dashboard.Get("/current", cfg.Dashboard.Current)
	dashboard.Get("/periods", cfg.Dashboard.Periods)

	catalog := api.Group("/catalog")
	catalog.Get("/padroes", cfg.Catalog.Patterns)
	catalog.Get("/base-conhecimento", cfg.Catalog.KnowledgeBase)

	integration := api.Group("/integracao")
	integration.Get("/status", cfg.Integration.Status)
	integration.Get("/analises-recentes", cfg.Integration.RecentAnalyses)
	integration.Get("/probe", cfg.Integration.LastProbe)
	integration.Get("/chamados/:numero", cfg.Integration.LookupTicket)

	api.Get("/preferences", cfg.Preferences.Get)
	api.Put("/preferences", cfg.Preferences.Update)

	admin := api.Group("/admin")
	admin.Get("/metrics", cfg.Admin.Metrics)
	admin.Get("/audit", cfg.Admin.Audit)
}
