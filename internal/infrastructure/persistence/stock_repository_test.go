package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/domain/stock"
)

func setupStockTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&stock.MaterialLedger{}, &stock.FinishedGood{}, &stock.UsageEntry{}))
	return db
}

func TestMaterialLedgerRepositoryFindOrCreate(t *testing.T) {
	repo := NewGormMaterialLedgerRepository(setupStockTestDB(t))
	ctx := context.Background()
	workspaceID := uuid.New()

	_, err := repo.FindForWorkspace(ctx, workspaceID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	ledger, err := repo.FindOrCreateForWorkspace(ctx, workspaceID)
	require.NoError(t, err)
	assert.Zero(t, ledger.Boxes)

	again, err := repo.FindOrCreateForWorkspace(ctx, workspaceID)
	require.NoError(t, err)
	assert.Equal(t, ledger.ID, again.ID)
}

func TestMaterialLedgerRepositorySaveRoundTrip(t *testing.T) {
	repo := NewGormMaterialLedgerRepository(setupStockTestDB(t))
	ctx := context.Background()
	workspaceID := uuid.New()

	ledger, err := repo.FindOrCreateForWorkspace(ctx, workspaceID)
	require.NoError(t, err)

	ledger.Boxes = 40
	ledger.Bags = 500
	ledger.FilmMeters = decimal.NewFromFloat(12.5)
	ledger.IncrementVersion()
	require.NoError(t, repo.Save(ctx, ledger))

	found, err := repo.FindForWorkspace(ctx, workspaceID)
	require.NoError(t, err)
	assert.Equal(t, 40, found.Boxes)
	assert.Equal(t, 500, found.Bags)
	assert.True(t, found.FilmMeters.Equal(decimal.NewFromFloat(12.5)))
}

func TestMaterialLedgerRepositorySaveConflict(t *testing.T) {
	repo := NewGormMaterialLedgerRepository(setupStockTestDB(t))
	ctx := context.Background()
	workspaceID := uuid.New()

	ledger, err := repo.FindOrCreateForWorkspace(ctx, workspaceID)
	require.NoError(t, err)

	stale, err := repo.FindForWorkspace(ctx, workspaceID)
	require.NoError(t, err)

	ledger.Bags = 10
	ledger.IncrementVersion()
	require.NoError(t, repo.Save(ctx, ledger))

	stale.Bags = 99
	stale.IncrementVersion()
	err = repo.Save(ctx, stale)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestFinishedGoodsRepositoryFindByNameAndColor(t *testing.T) {
	repo := NewGormFinishedGoodsRepository(setupStockTestDB(t))
	ctx := context.Background()
	workspaceID := uuid.New()

	good, err := stock.NewFinishedGood(workspaceID, "Футболка базовая", "черный")
	require.NoError(t, err)
	good.SetStock("M", 12)
	good.SetStock("L", 7)
	require.NoError(t, repo.Save(ctx, good))

	found, err := repo.FindByNameAndColor(ctx, workspaceID, "Футболка базовая", "черный")
	require.NoError(t, err)
	assert.Equal(t, 12, found.Stock["M"])
	assert.Equal(t, 7, found.Stock["L"])

	_, err = repo.FindByNameAndColor(ctx, workspaceID, "Футболка базовая", "белый")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUsageRepositoryFindByKey(t *testing.T) {
	repo := NewGormUsageRepository(setupStockTestDB(t))
	ctx := context.Background()
	workspaceID := uuid.New()
	day := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	entry := stock.NewUsageEntry(workspaceID, day, "Бренд", "Футболка", "черный")
	entry.AddUnits("M", 5)
	entry.AddBags(5)
	require.NoError(t, repo.Save(ctx, entry))

	found, err := repo.FindByKey(ctx, workspaceID, day, "Бренд", "Футболка", "черный")
	require.NoError(t, err)
	assert.Equal(t, 5, found.Sizes["M"])
	assert.Equal(t, 5, found.BagsUsed)

	sameDay, err := repo.FindByDate(ctx, workspaceID, day)
	require.NoError(t, err)
	assert.Len(t, sameDay, 1)
}
