package models

import "time"

// User mirrors an identity-authority principal into the local store.
// Rows are created lazily on first authenticated request and never
// updated afterwards; the authority stays the source of truth for
// profile data.
type User struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email         string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Name          string    `gorm:"size:255" json:"name"`
	EmailVerified bool      `gorm:"default:false" json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}
