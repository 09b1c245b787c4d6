// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"toolnest/internal/models"

	"gorm.io/gorm"
)

// findOwned loads a record by id only when it belongs to ownerID.
// Records owned by someone else are reported as not found.
func findOwned[T any](ctx context.Context, db *gorm.DB, id, ownerID uint, resource string) (*T, error) {
	var record T
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&record).Error
	if err != nil {
		return nil, translateError(err, resource, id)
	}
	return &record, nil
}

// translateError maps GORM's translated errors onto AppErrors.
func translateError(err error, resource string, id any) error {
	var appErr *models.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &models.AppError{Code: models.CodeConflict, Message: resource + " already exists", Err: err}
	default:
		return err
	}
}
