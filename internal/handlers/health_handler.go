package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mbgestor/anamnese-api/internal/database"
	"github.com/mbgestor/anamnese-api/internal/dto"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// CheckDB verifies connectivity by pinging the underlying pool. Failures
// surface the driver message so a misconfigured DSN is diagnosable.
func (h *HealthHandler) CheckDB(c *fiber.Ctx) error {
	if err := database.Ping(h.db); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(dto.DBHealthResponse{OK: true})
}
