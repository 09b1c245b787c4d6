package models

import "time"

// CategoryNameMaxLength is the maximum length of a trimmed category name.
const CategoryNameMaxLength = 50

// Category groups a user's tools. Names are unique per owner.
type Category struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:50;not null;uniqueIndex:idx_categories_user_name,priority:2" json:"name"`
	UserID uint   `gorm:"not null;index;uniqueIndex:idx_categories_user_name,priority:1" json:"user_id"`
	// ToolCount is not persisted; computed at query time
	ToolCount int64     `gorm:"->;-:migration" json:"tool_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategorySummary is the resolved category reference embedded in tool responses.
type CategorySummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
