package handlers

import (
	"errors"

	"github.com/denizgokce/inkpad-backend/internal/dto"
	"github.com/denizgokce/inkpad-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PublicHandler struct {
	service *services.NoteService
}

func NewPublicHandler(service *services.NoteService) *PublicHandler {
	return &PublicHandler{service: service}
}

// Get serves a publicly shared note by its share token. Revoked or
// unknown tokens both look like not-found.
func (h *PublicHandler) Get(c *fiber.Ctx) error {
	note, err := h.service.GetPublic(c.UserContext(), c.Params("token"))
	if err != nil {
		if errors.Is(err, services.ErrNoteNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Note not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch note",
		})
	}
	return c.JSON(services.ToPublicNoteView(note))
}
