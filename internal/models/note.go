package models

import "time"

// Note is a user-owned note. Exactly one of Content and EncryptedContent
// is populated, depending on IsEncrypted. PublicShareToken is non-null
// iff IsPublic, and regenerated on every visibility enable.
type Note struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Title            string    `gorm:"size:255" json:"title"`
	Content          string    `gorm:"type:text" json:"content"`
	EncryptedContent string    `gorm:"type:text" json:"encrypted_content,omitempty"`
	IsEncrypted      bool      `gorm:"default:false" json:"is_encrypted"`
	CategoryID       *uint     `gorm:"index" json:"category_id"`
	Category         *Category `json:"category,omitempty"`
	Labels           []Label   `gorm:"many2many:post_labels" json:"labels"`
	IsDraft          bool      `gorm:"default:false" json:"is_draft"`
	IsPublic         bool      `gorm:"default:false" json:"is_public"`
	PublicShareToken *string   `gorm:"size:64;uniqueIndex" json:"public_share_token,omitempty"`
	// IsUpdated distinguishes "never edited since creation" from "edited".
	IsUpdated    bool       `gorm:"default:false" json:"is_updated"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastAutosave *time.Time `json:"last_autosave"`
}

func (Note) TableName() string { return "posts" }
