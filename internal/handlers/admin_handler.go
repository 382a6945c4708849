package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mbgestor/anamnese-api/internal/access"
	"github.com/mbgestor/anamnese-api/internal/dto"
	"github.com/mbgestor/anamnese-api/internal/services"
)

// AdminHandler serves the RBAC management endpoints plus the manual
// access-registry resync. The route inventory is captured at startup; a
// resync reconciles against exactly what the running server registered.
type AdminHandler struct {
	rbacService *services.RBACService
	syncService *services.AccessSyncService
	inventory   []access.Route
}

func NewAdminHandler(rbacService *services.RBACService, syncService *services.AccessSyncService, inventory []access.Route) *AdminHandler {
	return &AdminHandler{
		rbacService: rbacService,
		syncService: syncService,
		inventory:   inventory,
	}
}

// SetInventory installs the route inventory once registration is complete.
func (h *AdminHandler) SetInventory(inventory []access.Route) {
	h.inventory = inventory
}

func (h *AdminHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.rbacService.ListRoles()
	if err != nil {
		return err
	}
	return c.JSON(roles)
}

func (h *AdminHandler) CreateRole(c *fiber.Ctx) error {
	var req dto.CreateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	role, err := h.rbacService.CreateRole(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNameRequired):
			return badRequest(c, err.Error())
		case errors.Is(err, services.ErrNameTaken):
			return conflict(c, err.Error())
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(role)
}

func (h *AdminHandler) DeleteRole(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid role id")
	}

	if err := h.rbacService.DeleteRole(id); err != nil {
		switch {
		case errors.Is(err, services.ErrRoleNotFound):
			return notFound(c, err.Error())
		case errors.Is(err, services.ErrSystemRole):
			return conflict(c, err.Error())
		}
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.rbacService.ListUsers()
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.rbacService.CreateUser(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNameRequired):
			return badRequest(c, err.Error())
		case errors.Is(err, services.ErrNameTaken):
			return conflict(c, err.Error())
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	if err := h.rbacService.DeleteUser(id); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return notFound(c, err.Error())
		case errors.Is(err, services.ErrSeededUser):
			return conflict(c, err.Error())
		}
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) ListAccesses(c *fiber.Ctx) error {
	accesses, err := h.rbacService.ListAccesses()
	if err != nil {
		return err
	}
	return c.JSON(accesses)
}

// Resync re-runs the access registry reconciliation on demand.
func (h *AdminHandler) Resync(c *fiber.Ctx) error {
	if err := h.syncService.Sync(h.inventory); err != nil {
		slog.Error("access registry resync failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Resync failed",
		})
	}
	return c.JSON(fiber.Map{"message": "Access registry resynced", "routes": len(h.inventory)})
}

func (h *AdminHandler) ListRoleUsers(c *fiber.Ctx) error {
	roleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid role id")
	}

	users, err := h.rbacService.ListRoleUsers(roleID)
	if err != nil {
		if errors.Is(err, services.ErrRoleNotFound) {
			return notFound(c, err.Error())
		}
		return err
	}
	return c.JSON(users)
}

func (h *AdminHandler) AddUserToRole(c *fiber.Ctx) error {
	roleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid role id")
	}
	var req struct {
		UserID uuid.UUID `json:"userId"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == uuid.Nil {
		return badRequest(c, "userId is required")
	}

	if err := h.rbacService.AddUserToRole(roleID, req.UserID); err != nil {
		if errors.Is(err, services.ErrRoleNotFound) || errors.Is(err, services.ErrUserNotFound) {
			return notFound(c, err.Error())
		}
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) RemoveUserFromRole(c *fiber.Ctx) error {
	roleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid role id")
	}
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	if err := h.rbacService.RemoveUserFromRole(roleID, userID); err != nil {
		if errors.Is(err, services.ErrRoleNotFound) {
			return notFound(c, err.Error())
		}
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) ListRoleAccesses(c *fiber.Ctx) error {
	roleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid role id")
	}

	accesses, err := h.rbacService.ListRoleAccesses(roleID)
	if err != nil {
		if errors.Is(err, services.ErrRoleNotFound) {
			return notFound(c, err.Error())
		}
		return err
	}
	return c.JSON(accesses)
}

func (h *AdminHandler) GrantAccessToRole(c *fiber.Ctx) error {
	roleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid role id")
	}
	var req struct {
		AccessID uuid.UUID `json:"accessId"`
	}
	if err := c.BodyParser(&req); err != nil || req.AccessID == uuid.Nil {
		return badRequest(c, "accessId is required")
	}

	if err := h.rbacService.GrantAccessToRole(roleID, req.AccessID); err != nil {
		if errors.Is(err, services.ErrRoleNotFound) || errors.Is(err, services.ErrAccessNotFound) {
			return notFound(c, err.Error())
		}
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) RevokeAccessFromRole(c *fiber.Ctx) error {
	roleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid role id")
	}
	accessID, err := uuid.Parse(c.Params("accessId"))
	if err != nil {
		return badRequest(c, "Invalid access id")
	}

	if err := h.rbacService.RevokeAccessFromRole(roleID, accessID); err != nil {
		if errors.Is(err, services.ErrRoleNotFound) {
			return notFound(c, err.Error())
		}
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func conflict(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: msg})
}
