package dto

import (
	"time"

	"github.com/denizgokce/inkpad-backend/internal/models"
)

type CreateNoteRequest struct {
	Title            string `json:"title"`
	Content          string `json:"content"`
	EncryptedContent string `json:"encrypted_content"`
	IsEncrypted      bool   `json:"is_encrypted"`
	CategoryID       *uint  `json:"category_id"`
	LabelIDs         []uint `json:"label_ids"`
	IsDraft          bool   `json:"is_draft"`
	IsPublic         bool   `json:"is_public"`
}

type UpdateNoteRequest struct {
	Title            string `json:"title"`
	Content          string `json:"content"`
	EncryptedContent string `json:"encrypted_content"`
	IsEncrypted      bool   `json:"is_encrypted"`
	CategoryID       *uint  `json:"category_id"`
	LabelIDs         []uint `json:"label_ids"`
}

type AutosaveRequest struct {
	Title            string `json:"title"`
	Content          string `json:"content"`
	EncryptedContent string `json:"encrypted_content"`
	IsEncrypted      bool   `json:"is_encrypted"`
}

type VisibilityRequest struct {
	IsPublic bool `json:"is_public"`
}

// NoteView is the API-facing note shape. EncryptedContent is populated
// for single-note and public fetches only, never for list views.
type NoteView struct {
	ID               uint             `json:"id"`
	Title            string           `json:"title"`
	Content          string           `json:"content"`
	EncryptedContent string           `json:"encrypted_content,omitempty"`
	IsEncrypted      bool             `json:"is_encrypted"`
	CategoryID       *uint            `json:"category_id"`
	Category         *models.Category `json:"category"`
	Labels           []models.Label   `json:"labels"`
	IsDraft          bool             `json:"is_draft"`
	IsPublic         bool             `json:"is_public"`
	PublicShareToken *string          `json:"public_share_token,omitempty"`
	DisplayDate      time.Time        `json:"display_date"`
	DateType         string           `json:"date_type"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	LastAutosave     *time.Time       `json:"last_autosave,omitempty"`
}

// PublicNoteView is the anonymous share-link shape: no owner id, no
// draft or visibility internals.
type PublicNoteView struct {
	ID               uint             `json:"id"`
	Title            string           `json:"title"`
	Content          string           `json:"content"`
	EncryptedContent string           `json:"encrypted_content,omitempty"`
	IsEncrypted      bool             `json:"is_encrypted"`
	Category         *models.Category `json:"category"`
	Labels           []models.Label   `json:"labels"`
	DisplayDate      time.Time        `json:"display_date"`
	DateType         string           `json:"date_type"`
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	Limit       int   `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

type NoteListResponse struct {
	Data       []NoteView `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type VisibilityResponse struct {
	Message          string  `json:"message"`
	PublicShareToken *string `json:"public_share_token"`
	IsPublic         bool    `json:"is_public"`
}

type PublishResponse struct {
	Message string   `json:"message"`
	Note    NoteView `json:"note"`
}

type AutosaveResponse struct {
	Message      string     `json:"message"`
	LastAutosave *time.Time `json:"last_autosave"`
}

type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type CreateLabelRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}
