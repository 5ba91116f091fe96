package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/denizgokce/inkpad-backend/internal/dto"
	"github.com/denizgokce/inkpad-backend/internal/middleware"
	"github.com/denizgokce/inkpad-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type NoteHandler struct {
	service *services.NoteService
}

func NewNoteHandler(service *services.NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

func (h *NoteHandler) List(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	filters := services.ListFilters{
		Search: c.Query("search"),
	}

	if raw := c.Query("category"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			categoryID := uint(id)
			filters.CategoryID = &categoryID
		}
	}
	if raw := c.Query("labels"); raw != "" {
		filters.LabelIDs = parseIDList(raw)
	}
	if raw := c.Query("drafts"); raw != "" {
		drafts := raw == "true"
		filters.Drafts = &drafts
	}
	switch c.Query("visibility") {
	case "public":
		public := true
		filters.Visibility = &public
	case "private":
		private := false
		filters.Visibility = &private
	}

	filters.Page, _ = strconv.Atoi(c.Query("page", "1"))
	filters.Limit, _ = strconv.Atoi(c.Query("limit", "10"))

	result, err := h.service.List(c.UserContext(), identity.ID, filters)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(result)
}

func (h *NoteHandler) Get(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	noteID, err := parseNoteID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid note ID",
		})
	}

	note, err := h.service.Get(c.UserContext(), identity.ID, noteID)
	if err != nil {
		return noteError(c, err, "Failed to fetch note")
	}
	return c.JSON(services.ToNoteView(note))
}

func (h *NoteHandler) Create(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	var req dto.CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	note, err := h.service.Create(c.UserContext(), identity.ID, req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(services.ToNoteView(note))
}

func (h *NoteHandler) Update(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	noteID, err := parseNoteID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid note ID",
		})
	}

	var req dto.UpdateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	note, err := h.service.Update(c.UserContext(), identity.ID, noteID, req)
	if err != nil {
		return noteError(c, err, "Failed to update note")
	}
	return c.JSON(services.ToNoteView(note))
}

func (h *NoteHandler) Delete(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	noteID, err := parseNoteID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid note ID",
		})
	}

	if err := h.service.Delete(c.UserContext(), identity.ID, noteID); err != nil {
		return noteError(c, err, "Failed to delete note")
	}
	return c.JSON(dto.MessageResponse{Message: "Note deleted successfully"})
}

func (h *NoteHandler) SetVisibility(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	noteID, err := parseNoteID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid note ID",
		})
	}

	var req dto.VisibilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	token, err := h.service.SetVisibility(c.UserContext(), identity.ID, noteID, req.IsPublic)
	if err != nil {
		return noteError(c, err, "Failed to update note visibility")
	}

	message := "Note is now private"
	if req.IsPublic {
		message = "Note is now public"
	}
	return c.JSON(dto.VisibilityResponse{
		Message:          message,
		PublicShareToken: token,
		IsPublic:         req.IsPublic,
	})
}

func (h *NoteHandler) Publish(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	noteID, err := parseNoteID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid note ID",
		})
	}

	note, err := h.service.Publish(c.UserContext(), identity.ID, noteID)
	if err != nil {
		return noteError(c, err, "Failed to publish note")
	}
	return c.JSON(dto.PublishResponse{
		Message: "Note published successfully",
		Note:    services.ToNoteView(note),
	})
}

func (h *NoteHandler) Autosave(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	noteID, err := parseNoteID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid note ID",
		})
	}

	var req dto.AutosaveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	savedAt, err := h.service.Autosave(c.UserContext(), identity.ID, noteID, req)
	if err != nil {
		return noteError(c, err, "Failed to autosave note")
	}
	return c.JSON(dto.AutosaveResponse{
		Message:      "Autosaved",
		LastAutosave: savedAt,
	})
}

func parseNoteID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func parseIDList(raw string) []uint {
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		if id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32); err == nil {
			ids = append(ids, uint(id))
		}
	}
	return ids
}

func noteError(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, services.ErrNoteNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: fallback,
	})
}
