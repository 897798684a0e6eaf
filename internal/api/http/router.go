package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-service/internal/api/http/handlers"
	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tasks          *handlers.TasksHandler
	Users          *handlers.UsersHandler
	Statistics     *handlers.StatisticsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// route pairs a path with the roles permitted to call it. A nil role list
// marks the route public; anything else requires an authenticated principal
// whose role is in the list.
type route struct {
	method  string
	path    string
	roles   []domain.Role
	handler fiber.Handler
}

// routeTable is the authorization policy: every route and its role gate in
// one place.
func routeTable(cfg RouteConfig) []route {
	anyUser := []domain.Role{domain.RoleUser, domain.RoleAdmin}
	adminOnly := []domain.Role{domain.RoleAdmin}

	return []route{
		{fiber.MethodGet, "/health/live", nil, cfg.Health.Live},
		{fiber.MethodGet, "/health/ready", nil, cfg.Health.Ready},

		{fiber.MethodPost, "/auth/registration", nil, cfg.Auth.Register},
		{fiber.MethodPost, "/auth/login", nil, cfg.Auth.Login},

		{fiber.MethodPost, "/tasks", anyUser, cfg.Tasks.Create},
		{fiber.MethodGet, "/tasks", anyUser, cfg.Tasks.List},
		{fiber.MethodGet, "/tasks/all", adminOnly, cfg.Tasks.ListAll},
		{fiber.MethodPatch, "/tasks/:id", anyUser, cfg.Tasks.Update},
		{fiber.MethodDelete, "/tasks/:id", anyUser, cfg.Tasks.Delete},
		{fiber.MethodPatch, "/tasks/:id/complete", anyUser, cfg.Tasks.Complete},
		{fiber.MethodPatch, "/tasks/:id/admin", adminOnly, cfg.Tasks.UpdateAsAdmin},
		{fiber.MethodDelete, "/tasks/:id/admin", adminOnly, cfg.Tasks.DeleteAsAdmin},

		{fiber.MethodGet, "/users", adminOnly, cfg.Users.List},
		{fiber.MethodDelete, "/users/:id", adminOnly, cfg.Users.Delete},
		{fiber.MethodPatch, "/users/:id/role", adminOnly, cfg.Users.UpdateRole},

		{fiber.MethodGet, "/statistics", adminOnly, cfg.Statistics.Get},
		{fiber.MethodGet, "/statistics/export", adminOnly, cfg.Statistics.ExportUserStatistics},
		{fiber.MethodGet, "/statistics/export-sorted", adminOnly, cfg.Statistics.ExportSortedTasks},
	}
}

// RegisterRoutes wires the authenticator once, then each route from the
// policy table behind its role gate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.AuthMiddleware.Handle)

	for _, r := range routeTable(cfg) {
		if r.roles == nil {
			app.Add(r.method, r.path, r.handler)
			continue
		}
		app.Add(r.method, r.path, auth.RequireRoles(r.roles...), r.handler)
	}
}
