package models

import "time"

// Field limits for tools, measured in characters after trimming.
const (
	ToolTitleMaxLength       = 100
	ToolDescriptionMaxLength = 500
	ToolURLMaxLength         = 2000
)

// Tool is a bookmarked link owned by one user.
type Tool struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:100;not null" json:"title"`
	Description    string    `gorm:"size:500;not null" json:"description"`
	URL            string    `gorm:"size:2000;not null" json:"url"`
	CategoryID     *uint     `gorm:"index" json:"-"`
	Category       *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	FavoritesCount int       `gorm:"not null;default:0" json:"favorites_count"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToolFavorite marks that a user favorited a tool. One row per (tool, user).
type ToolFavorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ToolID    uint      `gorm:"not null;uniqueIndex:idx_tool_favorites_tool_user,priority:1" json:"tool_id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_tool_favorites_tool_user,priority:2" json:"user_id"`
	Tool      *Tool     `gorm:"foreignKey:ToolID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteStatus is the caller's view of a tool's favorites.
type FavoriteStatus struct {
	IsFavorited    bool `json:"is_favorited"`
	FavoritesCount int  `json:"favorites_count"`
}

// ToolResponse is the API representation of a tool with its category resolved.
type ToolResponse struct {
	ID             uint             `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	URL            string           `json:"url"`
	Category       *CategorySummary `json:"category"`
	UserID         uint             `json:"user_id"`
	FavoritesCount int              `json:"favorites_count"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// NewToolResponse converts a tool, resolving its category when it was preloaded.
func NewToolResponse(t *Tool) ToolResponse {
	resp := ToolResponse{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		URL:            t.URL,
		UserID:         t.UserID,
		FavoritesCount: t.FavoritesCount,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if t.CategoryID != nil && t.Category != nil {
		resp.Category = &CategorySummary{ID: t.Category.ID, Name: t.Category.Name}
	}
	return resp
}

// NewToolResponses converts a slice of tools.
func NewToolResponses(tools []*Tool) []ToolResponse {
	out := make([]ToolResponse, 0, len(tools))
	for _, t := range tools {
		out = append(out, NewToolResponse(t))
	}
	return out
}
