package models

import "time"

type Label struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_labels_user_name" json:"-"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:idx_labels_user_name" json:"name"`
	Color     string    `gorm:"size:10" json:"color"`
	CreatedAt time.Time `json:"created_at"`
}
