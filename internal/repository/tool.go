package repository

import (
	"context"
	"time"

	"toolnest/internal/models"
	"toolnest/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ToolFilter narrows an owner's tool list. The zero value matches every tool.
type ToolFilter struct {
	Uncategorized bool
	CategoryID    uint
}

// ToggleResult is the outcome of a favorite toggle.
type ToggleResult struct {
	Status  models.FavoriteStatus
	OwnerID uint
}

// ToolRepository defines persistence operations for tools and their favorites.
type ToolRepository interface {
	Create(ctx context.Context, tool *models.Tool) error
	GetOwned(ctx context.Context, id, ownerID uint) (*models.Tool, error)
	ListByOwner(ctx context.Context, ownerID uint, filter ToolFilter) ([]*models.Tool, error)
	Update(ctx context.Context, tool *models.Tool) error
	Delete(ctx context.Context, id, ownerID uint) error
	ToggleFavorite(ctx context.Context, toolID, userID uint) (*ToggleResult, error)
	FavoriteStatus(ctx context.Context, toolID, userID uint) (*models.FavoriteStatus, error)
}

type toolRepository struct {
	db *gorm.DB
}

// NewToolRepository creates a new tool repository
func NewToolRepository(db *gorm.DB) ToolRepository {
	return &toolRepository{db: db}
}

func selectCategorySummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name")
}

func (r *toolRepository) Create(ctx context.Context, tool *models.Tool) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(tool).Error
}

func (r *toolRepository) GetOwned(ctx context.Context, id, ownerID uint) (*models.Tool, error) {
	var tool models.Tool
	err := r.db.WithContext(ctx).
		Preload("Category", selectCategorySummary).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&tool).Error
	if err != nil {
		return nil, translateError(err, "Tool", id)
	}
	return &tool, nil
}

func (r *toolRepository) ListByOwner(ctx context.Context, ownerID uint, filter ToolFilter) ([]*models.Tool, error) {
	ctx, span := observability.StartRepositorySpan(ctx, "ToolRepository.ListByOwner", "tools")
	var err error
	defer func() { observability.EndSpan(span, err) }()

	query := r.db.WithContext(ctx).
		Preload("Category", selectCategorySummary).
		Where("user_id = ?", ownerID)

	switch {
	case filter.Uncategorized:
		query = query.Where("category_id IS NULL")
	case filter.CategoryID != 0:
		query = query.Where("category_id = ?", filter.CategoryID)
	}

	tools := make([]*models.Tool, 0)
	err = query.Order("created_at DESC").Order("id DESC").Find(&tools).Error
	if err != nil {
		return nil, err
	}
	return tools, nil
}

// Update writes the editable columns only. The owner and favorite counter are never touched.
func (r *toolRepository) Update(ctx context.Context, tool *models.Tool) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Tool{}).
		Where("id = ? AND user_id = ?", tool.ID, tool.UserID).
		Updates(map[string]any{
			"title":       tool.Title,
			"description": tool.Description,
			"url":         tool.URL,
			"category_id": tool.CategoryID,
			"updated_at":  now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Tool", tool.ID)
	}
	tool.UpdatedAt = now
	return nil
}

// Delete removes an owned tool together with its favorite rows.
func (r *toolRepository) Delete(ctx context.Context, id, ownerID uint) error {
	ctx, span := observability.StartRepositorySpan(ctx, "ToolRepository.Delete", "tools")
	var err error
	defer func() { observability.EndSpan(span, err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findOwned[models.Tool](ctx, tx, id, ownerID, "Tool"); err != nil {
			return err
		}
		if err := tx.Where("tool_id = ?", id).Delete(&models.ToolFavorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tool{}, id).Error
	})
	return err
}

// ToggleFavorite flips userID's membership in the tool's favorites.
// The counter only moves when a row was actually removed or inserted, and every
// change is a single UPDATE expression so concurrent togglers never lose a count.
func (r *toolRepository) ToggleFavorite(ctx context.Context, toolID, userID uint) (*ToggleResult, error) {
	ctx, span := observability.StartRepositorySpan(ctx, "ToolRepository.ToggleFavorite", "tool_favorites")
	var err error
	defer func() { observability.EndSpan(span, err) }()

	var result ToggleResult
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tool models.Tool
		if err := tx.Select("id", "user_id").First(&tool, toolID).Error; err != nil {
			return translateError(err, "Tool", toolID)
		}
		result.OwnerID = tool.UserID

		removed := tx.Where("tool_id = ? AND user_id = ?", toolID, userID).Delete(&models.ToolFavorite{})
		if removed.Error != nil {
			return removed.Error
		}

		if removed.RowsAffected > 0 {
			if err := tx.Model(&models.Tool{}).Where("id = ?", toolID).
				UpdateColumn("favorites_count", gorm.Expr("CASE WHEN favorites_count > 0 THEN favorites_count - 1 ELSE 0 END")).Error; err != nil {
				return err
			}
		} else {
			inserted := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.ToolFavorite{ToolID: toolID, UserID: userID})
			if inserted.Error != nil {
				return inserted.Error
			}
			if inserted.RowsAffected > 0 {
				if err := tx.Model(&models.Tool{}).Where("id = ?", toolID).
					UpdateColumn("favorites_count", gorm.Expr("favorites_count + ?", 1)).Error; err != nil {
					return err
				}
			}
			result.Status.IsFavorited = true
		}

		var counts []int
		if err := tx.Model(&models.Tool{}).Where("id = ?", toolID).Pluck("favorites_count", &counts).Error; err != nil {
			return err
		}
		if len(counts) > 0 {
			result.Status.FavoritesCount = counts[0]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *toolRepository) FavoriteStatus(ctx context.Context, toolID, userID uint) (*models.FavoriteStatus, error) {
	var tool models.Tool
	if err := r.db.WithContext(ctx).Select("id", "favorites_count").First(&tool, toolID).Error; err != nil {
		return nil, translateError(err, "Tool", toolID)
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ToolFavorite{}).
		Where("tool_id = ? AND user_id = ?", toolID, userID).
		Count(&count).Error; err != nil {
		return nil, err
	}

	return &models.FavoriteStatus{
		IsFavorited:    count > 0,
		FavoritesCount: tool.FavoritesCount,
	}, nil
}
