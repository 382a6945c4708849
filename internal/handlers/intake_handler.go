package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mbgestor/anamnese-api/internal/dto"
	"github.com/mbgestor/anamnese-api/internal/services"
)

type IntakeHandler struct {
	intakeService *services.IntakeService
}

func NewIntakeHandler(intakeService *services.IntakeService) *IntakeHandler {
	return &IntakeHandler{intakeService: intakeService}
}

func (h *IntakeHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateIntakeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.intakeService.CreateIntake(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFullNameRequired),
			errors.Is(err, services.ErrSignatureRequired):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrClientNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *IntakeHandler) GetClient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid client id",
		})
	}

	client, err := h.intakeService.GetClient(id)
	if err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return err
	}
	return c.JSON(client)
}

func (h *IntakeHandler) SearchClients(c *fiber.Ctx) error {
	results, err := h.intakeService.SearchClients(c.Query("q"), c.QueryInt("take"))
	if err != nil {
		return err
	}
	return c.JSON(results)
}

func (h *IntakeHandler) GetAnamnesis(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid anamnesis id",
		})
	}

	anamnesis, err := h.intakeService.GetAnamnesis(id)
	if err != nil {
		if errors.Is(err, services.ErrAnamnesisNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return err
	}
	return c.JSON(anamnesis)
}

func (h *IntakeHandler) ListAnamneses(c *fiber.Ctx) error {
	page, err := h.intakeService.ListAnamneses(c.Query("q"), c.QueryInt("skip"), c.QueryInt("take"))
	if err != nil {
		return err
	}
	return c.JSON(page)
}
