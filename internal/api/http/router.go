package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Prateekyadav17/ElectricHelp/internal/api/http/handlers"
	"github.com/Prateekyadav17/ElectricHelp/internal/auth"
	"github.com/Prateekyadav17/ElectricHelp/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Complaints     *handlers.ComplaintsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
	AuthRateLimit  fiber.Handler
}

// RegisterRoutes wires HTTP routes with their role requirements.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	api := app.Group("/api")

	api.Get("/health", cfg.Health.Live)
	api.Get("/health/ready", cfg.Health.Ready)

	authGroup := api.Group("/auth")
	if cfg.AuthRateLimit != nil {
		authGroup.Use(cfg.AuthRateLimit)
	}
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/forgot", cfg.Auth.Forgot)
	authGroup.Post("/reset", cfg.Auth.Reset)

	complaints := api.Group("/complaints", cfg.AuthMiddleware.Handle)
	complaints.Post("/", auth.RequireRole(domain.RoleStaff, domain.RoleAdmin), cfg.Complaints.Create)
	complaints.Get("/mine", auth.RequireRole(domain.RoleStaff), cfg.Complaints.ListMine)
	complaints.Get("/for-electrician", auth.RequireRole(domain.RoleElectrician), cfg.Complaints.ListForElectrician)
	complaints.Get("/", auth.RequireRole(domain.RoleAdmin, domain.RoleStaff), cfg.Complaints.ListAll)
	complaints.Patch("/:id/assign", auth.RequireRole(domain.RoleAdmin), cfg.Complaints.Assign)
	complaints.Patch("/:id/status", auth.RequireRole(domain.RoleElectrician), cfg.Complaints.UpdateStatus)

	users := api.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/", auth.RequireRole(domain.RoleAdmin, domain.RoleStaff), cfg.Users.Search)
	users.Post("/", auth.RequireRole(domain.RoleAdmin), cfg.Users.Register)
	users.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Users.Remove)
}
