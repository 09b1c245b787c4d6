// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"toolnest/internal/database"
	"toolnest/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory sqlite database with the full schema.
// The pool is pinned to one connection so every query sees the same database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=1"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateUser inserts a user with a unique email.
func CreateUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)

	user := &models.User{
		Name:     name,
		Email:    fmt.Sprintf("user%d@example.com", count+1),
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.WithContext(context.Background()).Create(user).Error)
	return user
}
