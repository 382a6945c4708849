package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mbgestor/anamnese-api/internal/dto"
	"github.com/mbgestor/anamnese-api/internal/middleware"
	"github.com/mbgestor/anamnese-api/internal/services"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Me returns the resolved user. With the fallback disabled and no valid
// X-User-Id there is no identity to report.
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "No user resolved",
		})
	}
	return c.JSON(user)
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "No user resolved",
		})
	}

	profile, err := h.profileService.Get(user.ID)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "No user resolved",
		})
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	profile, err := h.profileService.Update(user.ID, &req)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}
