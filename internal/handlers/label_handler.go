package handlers

import (
	"errors"

	"github.com/denizgokce/inkpad-backend/internal/dto"
	"github.com/denizgokce/inkpad-backend/internal/middleware"
	"github.com/denizgokce/inkpad-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type LabelHandler struct {
	service *services.LabelService
}

func NewLabelHandler(service *services.LabelService) *LabelHandler {
	return &LabelHandler{service: service}
}

func (h *LabelHandler) List(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	labels, err := h.service.List(c.UserContext(), identity.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch labels",
		})
	}
	return c.JSON(labels)
}

func (h *LabelHandler) Create(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	var req dto.CreateLabelRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Label name is required",
		})
	}

	label, err := h.service.Create(c.UserContext(), identity.ID, req)
	if err != nil {
		if errors.Is(err, services.ErrLabelExists) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create label",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(label)
}
