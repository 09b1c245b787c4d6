package repository

import (
	"context"

	"toolnest/internal/models"
	"toolnest/internal/observability"

	"gorm.io/gorm"
)

// CategoryOrder selects how category lists are sorted.
type CategoryOrder int

const (
	// OrderByName sorts by name ascending, for pickers.
	OrderByName CategoryOrder = iota
	// OrderByNewest sorts by creation time descending, newest id first on ties.
	OrderByNewest
)

const toolCountColumn = "(SELECT COUNT(*) FROM tools WHERE tools.category_id = categories.id) AS tool_count"

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetOwned(ctx context.Context, id, ownerID uint) (*models.Category, error)
	ExistsByName(ctx context.Context, ownerID uint, name string) (bool, error)
	List(ctx context.Context, ownerID uint, order CategoryOrder) ([]*models.Category, error)
	Rename(ctx context.Context, category *models.Category, name string) error
	Delete(ctx context.Context, id, ownerID uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return translateError(err, "Category", category.Name)
	}
	return nil
}

func (r *categoryRepository) GetOwned(ctx context.Context, id, ownerID uint) (*models.Category, error) {
	return findOwned[models.Category](ctx, r.db, id, ownerID, "Category")
}

func (r *categoryRepository) ExistsByName(ctx context.Context, ownerID uint, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("user_id = ? AND name = ?", ownerID, name).
		Count(&count).Error
	return count > 0, err
}

// List returns the owner's categories annotated with how many tools reference each.
func (r *categoryRepository) List(ctx context.Context, ownerID uint, order CategoryOrder) ([]*models.Category, error) {
	ctx, span := observability.StartRepositorySpan(ctx, "CategoryRepository.List", "categories")
	var err error
	defer func() { observability.EndSpan(span, err) }()

	query := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Select("categories.*", toolCountColumn).
		Where("categories.user_id = ?", ownerID)

	switch order {
	case OrderByNewest:
		query = query.Order("categories.created_at DESC").Order("categories.id DESC")
	default:
		query = query.Order("categories.name ASC")
	}

	categories := make([]*models.Category, 0)
	err = query.Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Rename persists a new name. The per-owner unique index turns a sibling clash into a conflict.
func (r *categoryRepository) Rename(ctx context.Context, category *models.Category, name string) error {
	err := r.db.WithContext(ctx).Model(category).Update("name", name).Error
	if err != nil {
		return translateError(err, "Category", name)
	}
	return nil
}

// Delete removes an owned category after detaching every tool that references it.
// Both steps share one transaction.
func (r *categoryRepository) Delete(ctx context.Context, id, ownerID uint) error {
	ctx, span := observability.StartRepositorySpan(ctx, "CategoryRepository.Delete", "categories")
	var err error
	defer func() { observability.EndSpan(span, err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findOwned[models.Category](ctx, tx, id, ownerID, "Category"); err != nil {
			return err
		}
		if err := tx.Model(&models.Tool{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, id).Error
	})
	return err
}
