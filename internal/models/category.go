package models

import "time"

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name" json:"-"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:idx_categories_user_name" json:"name"`
	Color     string    `gorm:"size:10" json:"color"`
	Icon      string    `gorm:"size:50" json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}
