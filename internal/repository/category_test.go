package repository

import (
	"context"
	"testing"
	"time"

	"toolnest/internal/models"
	"toolnest/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository_ListWithToolCounts(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	other := testutil.CreateUser(t, db, "other")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	beta := &models.Category{Name: "Beta", UserID: owner.ID, CreatedAt: base}
	alpha := &models.Category{Name: "Alpha", UserID: owner.ID, CreatedAt: base.Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, beta))
	require.NoError(t, repo.Create(ctx, alpha))
	require.NoError(t, repo.Create(ctx, &models.Category{Name: "Foreign", UserID: other.ID}))

	for i := 0; i < 2; i++ {
		require.NoError(t, db.Create(&models.Tool{
			Title: "t", Description: "d", URL: "https://example.com",
			UserID: owner.ID, CategoryID: &beta.ID,
		}).Error)
	}

	byName, err := repo.List(ctx, owner.ID, OrderByName)
	require.NoError(t, err)
	require.Len(t, byName, 2)
	assert.Equal(t, "Alpha", byName[0].Name)
	assert.Equal(t, int64(0), byName[0].ToolCount)
	assert.Equal(t, "Beta", byName[1].Name)
	assert.Equal(t, int64(2), byName[1].ToolCount)

	newest, err := repo.List(ctx, owner.ID, OrderByNewest)
	require.NoError(t, err)
	require.Len(t, newest, 2)
	assert.Equal(t, "Alpha", newest[0].Name)
	assert.Equal(t, "Beta", newest[1].Name)
}

func TestCategoryRepository_UniquePerOwner(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	other := testutil.CreateUser(t, db, "other")

	require.NoError(t, repo.Create(ctx, &models.Category{Name: "Dev", UserID: owner.ID}))
	require.NoError(t, repo.Create(ctx, &models.Category{Name: "Dev", UserID: other.ID}))

	err := repo.Create(ctx, &models.Category{Name: "Dev", UserID: owner.ID})
	assert.True(t, models.IsCode(err, models.CodeConflict), "got %v", err)

	exists, err := repo.ExistsByName(ctx, owner.ID, "Dev")
	require.NoError(t, err)
	assert.True(t, exists)

	ops := &models.Category{Name: "Ops", UserID: owner.ID}
	require.NoError(t, repo.Create(ctx, ops))
	err = repo.Rename(ctx, ops, "Dev")
	assert.True(t, models.IsCode(err, models.CodeConflict), "got %v", err)
}

func TestCategoryRepository_GetOwned(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	other := testutil.CreateUser(t, db, "other")

	cat := &models.Category{Name: "Dev", UserID: owner.ID}
	require.NoError(t, repo.Create(ctx, cat))

	got, err := repo.GetOwned(ctx, cat.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dev", got.Name)

	_, err = repo.GetOwned(ctx, cat.ID, other.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestCategoryRepository_DeleteDetachesTools(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	other := testutil.CreateUser(t, db, "other")

	cat := &models.Category{Name: "Dev", UserID: owner.ID}
	require.NoError(t, repo.Create(ctx, cat))
	tool := &models.Tool{Title: "t", Description: "d", URL: "https://example.com", UserID: owner.ID, CategoryID: &cat.ID}
	require.NoError(t, db.Create(tool).Error)

	err := repo.Delete(ctx, cat.ID, other.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	require.NoError(t, repo.Delete(ctx, cat.ID, owner.ID))

	var reloaded models.Tool
	require.NoError(t, db.First(&reloaded, tool.ID).Error)
	assert.Nil(t, reloaded.CategoryID)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Where("id = ?", cat.ID).Count(&count).Error)
	assert.Zero(t, count)
}
