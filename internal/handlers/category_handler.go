package handlers

import (
	"errors"

	"github.com/denizgokce/inkpad-backend/internal/dto"
	"github.com/denizgokce/inkpad-backend/internal/middleware"
	"github.com/denizgokce/inkpad-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	service *services.CategoryService
}

func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	categories, err := h.service.List(c.UserContext(), identity.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch categories",
		})
	}
	return c.JSON(categories)
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Category name is required",
		})
	}

	category, err := h.service.Create(c.UserContext(), identity.ID, req)
	if err != nil {
		if errors.Is(err, services.ErrCategoryExists) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create category",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}
