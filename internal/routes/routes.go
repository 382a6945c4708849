package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mbgestor/anamnese-api/internal/access"
	"github.com/mbgestor/anamnese-api/internal/config"
	"github.com/mbgestor/anamnese-api/internal/handlers"
	"github.com/mbgestor/anamnese-api/internal/middleware"
	"gorm.io/gorm"
)

// recorder registers routes and keeps the explicit (method, path, name)
// inventory the access-registry sync consumes.
type recorder struct {
	inventory []access.Route
}

func (r *recorder) add(router fiber.Router, prefix, method, path, name string, h ...fiber.Handler) {
	router.Add(method, path, h...)
	r.inventory = append(r.inventory, access.Route{Method: method, Path: prefix + path, Name: name})
}

// Setup registers every endpoint and returns the route inventory.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	healthHandler *handlers.HealthHandler,
	intakeHandler *handlers.IntakeHandler,
	profileHandler *handlers.ProfileHandler,
	adminHandler *handlers.AdminHandler,
) []access.Route {
	rec := &recorder{}

	api := app.Group("/api")
	api.Use(middleware.ResolveIdentity(db, cfg.IdentityFallbackUser))

	rec.add(api, "/api", fiber.MethodGet, "/healthz", "Health", healthHandler.Check)
	rec.add(api, "/api", fiber.MethodGet, "/healthz/db", "Database health", healthHandler.CheckDB)

	rec.add(api, "/api", fiber.MethodPost, "/intakes", "Create intake", intakeHandler.Create)
	rec.add(api, "/api", fiber.MethodGet, "/clients/:id", "Get client", intakeHandler.GetClient)
	rec.add(api, "/api", fiber.MethodGet, "/clients", "Search clients", intakeHandler.SearchClients)
	rec.add(api, "/api", fiber.MethodGet, "/anamneses/:id", "Get anamnesis", intakeHandler.GetAnamnesis)
	rec.add(api, "/api", fiber.MethodGet, "/anamneses", "List anamneses", intakeHandler.ListAnamneses)

	rec.add(api, "/api", fiber.MethodGet, "/users/me", "Current user", profileHandler.Me)
	rec.add(api, "/api", fiber.MethodGet, "/profile", "Get profile", profileHandler.GetProfile)
	rec.add(api, "/api", fiber.MethodPut, "/profile", "Update profile", profileHandler.UpdateProfile)

	admin := api.Group("/admin", middleware.AdminRequired())

	rec.add(admin, "/api/admin", fiber.MethodGet, "/roles", "List roles", adminHandler.ListRoles)
	rec.add(admin, "/api/admin", fiber.MethodPost, "/roles", "Create role", adminHandler.CreateRole)
	rec.add(admin, "/api/admin", fiber.MethodDelete, "/roles/:id", "Delete role", adminHandler.DeleteRole)

	rec.add(admin, "/api/admin", fiber.MethodGet, "/users", "List users", adminHandler.ListUsers)
	rec.add(admin, "/api/admin", fiber.MethodPost, "/users", "Create user", adminHandler.CreateUser)
	rec.add(admin, "/api/admin", fiber.MethodDelete, "/users/:id", "Delete user", adminHandler.DeleteUser)

	rec.add(admin, "/api/admin", fiber.MethodGet, "/accesses", "List accesses", adminHandler.ListAccesses)
	rec.add(admin, "/api/admin", fiber.MethodPost, "/accesses/resync", "Resync access registry", adminHandler.Resync)

	rec.add(admin, "/api/admin", fiber.MethodGet, "/roles/:id/users", "List role users", adminHandler.ListRoleUsers)
	rec.add(admin, "/api/admin", fiber.MethodPost, "/roles/:id/users", "Add user to role", adminHandler.AddUserToRole)
	rec.add(admin, "/api/admin", fiber.MethodDelete, "/roles/:id/users/:userId", "Remove user from role", adminHandler.RemoveUserFromRole)

	rec.add(admin, "/api/admin", fiber.MethodGet, "/roles/:id/accesses", "List role accesses", adminHandler.ListRoleAccesses)
	rec.add(admin, "/api/admin", fiber.MethodPost, "/roles/:id/accesses", "Grant access to role", adminHandler.GrantAccessToRole)
	rec.add(admin, "/api/admin", fiber.MethodDelete, "/roles/:id/accesses/:accessId", "Revoke access from role", adminHandler.RevokeAccessFromRole)

	// The resync endpoint reconciles against exactly this inventory.
	adminHandler.SetInventory(rec.inventory)

	return rec.inventory
}
