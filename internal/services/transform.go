package services

import (
	"time"

	"github.com/denizgokce/inkpad-backend/internal/dto"
	"github.com/denizgokce/inkpad-backend/internal/models"
)

// displayDate resolves which timestamp a client should show: the last
// edit for notes that have been edited, creation time otherwise.
func displayDate(n *models.Note) (time.Time, string) {
	if n.IsUpdated {
		return n.UpdatedAt, "updated"
	}
	return n.CreatedAt, "created"
}

// flattenLabels guarantees a non-nil label slice in API output.
func flattenLabels(labels []models.Label) []models.Label {
	if labels == nil {
		return []models.Label{}
	}
	return labels
}

// toListView builds the listing shape. Encrypted content never appears
// in list output; clients fetch the single-note view to decrypt.
func toListView(n *models.Note) dto.NoteView {
	view := baseView(n)
	view.EncryptedContent = ""
	return view
}

// ToNoteView builds the single-note shape, encrypted content included
// verbatim when present.
func ToNoteView(n *models.Note) dto.NoteView {
	return baseView(n)
}

// ToPublicNoteView builds the anonymous share-link shape.
func ToPublicNoteView(n *models.Note) dto.PublicNoteView {
	date, dateType := displayDate(n)
	return dto.PublicNoteView{
		ID:               n.ID,
		Title:            n.Title,
		Content:          n.Content,
		EncryptedContent: n.EncryptedContent,
		IsEncrypted:      n.IsEncrypted,
		Category:         n.Category,
		Labels:           flattenLabels(n.Labels),
		DisplayDate:      date,
		DateType:         dateType,
	}
}

func baseView(n *models.Note) dto.NoteView {
	date, dateType := displayDate(n)
	return dto.NoteView{
		ID:               n.ID,
		Title:            n.Title,
		Content:          n.Content,
		EncryptedContent: n.EncryptedContent,
		IsEncrypted:      n.IsEncrypted,
		CategoryID:       n.CategoryID,
		Category:         n.Category,
		Labels:           flattenLabels(n.Labels),
		IsDraft:          n.IsDraft,
		IsPublic:         n.IsPublic,
		PublicShareToken: n.PublicShareToken,
		DisplayDate:      date,
		DateType:         dateType,
		CreatedAt:        n.CreatedAt,
		UpdatedAt:        n.UpdatedAt,
		LastAutosave:     n.LastAutosave,
	}
}
