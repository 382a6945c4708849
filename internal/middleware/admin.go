package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mbgestor/anamnese-api/internal/dto"
)

// AdminRequired rejects the request unless the resolved user is an admin.
// Pure boundary check; identity must already have been resolved.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}
		return c.Next()
	}
}
