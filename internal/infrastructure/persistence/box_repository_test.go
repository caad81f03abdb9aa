package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/domain/workflow"
)

func setupBoxTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&workflow.Box{}, &workflow.BoxItem{}))
	return db
}

func TestBoxRepositorySaveWithItems(t *testing.T) {
	repo := NewGormBoxRepository(setupBoxTestDB(t))
	ctx := context.Background()
	workspaceID := uuid.New()

	box, err := workflow.NewBox(workspaceID, "12")
	require.NoError(t, err)
	require.NoError(t, box.MergeItem(111222, "M", "4606224236582", 3))
	require.NoError(t, box.MergeItem(111222, "m", "", 2))
	require.NoError(t, repo.Save(ctx, box))

	found, err := repo.FindByNumber(ctx, workspaceID, "12")
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 5, found.Items[0].Quantity)
	assert.Equal(t, "4606224236582", found.Items[0].Barcode)
	assert.Equal(t, 5, found.TotalQuantity())
}

func TestBoxRepositoryFindByNumberScopedToWorkspace(t *testing.T) {
	repo := NewGormBoxRepository(setupBoxTestDB(t))
	ctx := context.Background()

	box, err := workflow.NewBox(uuid.New(), "7")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, box))

	_, err = repo.FindByNumber(ctx, uuid.New(), "7")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestBoxRepositoryDeleteRemovesItems(t *testing.T) {
	db := setupBoxTestDB(t)
	repo := NewGormBoxRepository(db)
	ctx := context.Background()
	workspaceID := uuid.New()

	box, err := workflow.NewBox(workspaceID, "3")
	require.NoError(t, err)
	require.NoError(t, box.MergeItem(555, "L", "", 1))
	require.NoError(t, repo.Save(ctx, box))

	require.NoError(t, repo.Delete(ctx, workspaceID, box.ID))

	_, err = repo.FindByID(ctx, workspaceID, box.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&workflow.BoxItem{}).Where("box_id = ?", box.ID).Count(&count).Error)
	assert.Zero(t, count)
}
