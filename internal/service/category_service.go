package service

import (
	"context"

	"toolnest/internal/models"
	"toolnest/internal/repository"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

type CreateCategoryInput struct {
	UserID uint
	Name   string
}

type RenameCategoryInput struct {
	UserID     uint
	CategoryID uint
	Name       string
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// ListForDisplay returns the caller's categories by name, with tool counts.
func (s *CategoryService) ListForDisplay(ctx context.Context, userID uint) ([]*models.Category, error) {
	return s.list(ctx, userID, repository.OrderByName)
}

// ListWithCounts returns the caller's categories newest first, with tool counts.
func (s *CategoryService) ListWithCounts(ctx context.Context, userID uint) ([]*models.Category, error) {
	return s.list(ctx, userID, repository.OrderByNewest)
}

func (s *CategoryService) list(ctx context.Context, userID uint, order repository.CategoryOrder) ([]*models.Category, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.List(ctx, userID, order)
	if err != nil {
		return nil, serviceError(err)
	}
	return categories, nil
}

func (s *CategoryService) Create(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	if err := requireUser(in.UserID); err != nil {
		return nil, err
	}
	name, err := requiredText(in.Name, "Category name", models.CategoryNameMaxLength)
	if err != nil {
		return nil, err
	}

	exists, err := s.categoryRepo.ExistsByName(ctx, in.UserID, name)
	if err != nil {
		return nil, serviceError(err)
	}
	if exists {
		return nil, models.NewConflictError("Category already exists")
	}

	category := &models.Category{Name: name, UserID: in.UserID}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, serviceError(err)
	}
	return category, nil
}

// Rename does not look for a sibling with the same name first; the store's
// unique index reports that case as a conflict.
func (s *CategoryService) Rename(ctx context.Context, in RenameCategoryInput) (*models.Category, error) {
	if err := requireUser(in.UserID); err != nil {
		return nil, err
	}
	name, err := requiredText(in.Name, "Category name", models.CategoryNameMaxLength)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetOwned(ctx, in.CategoryID, in.UserID)
	if err != nil {
		return nil, serviceError(err)
	}
	if err := s.categoryRepo.Rename(ctx, category, name); err != nil {
		return nil, serviceError(err)
	}
	category.Name = name
	return category, nil
}

// Delete removes the category and leaves its tools uncategorized.
func (s *CategoryService) Delete(ctx context.Context, userID, categoryID uint) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	return serviceError(s.categoryRepo.Delete(ctx, categoryID, userID))
}
