package stock

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewflow/backend/internal/domain/shared"
)

func TestMaterialLedgerDeductFilm(t *testing.T) {
	ledger := NewMaterialLedger(uuid.New())
	ledger.FilmMeters = decimal.NewFromFloat(10.5)

	t.Run("deducts fractional meters", func(t *testing.T) {
		require.NoError(t, ledger.DeductFilm(decimal.NewFromFloat(2.25)))
		assert.True(t, ledger.FilmMeters.Equal(decimal.NewFromFloat(8.25)))
	})

	t.Run("shortfall reports required vs available", func(t *testing.T) {
		err := ledger.DeductFilm(decimal.NewFromFloat(20))
		require.Error(t, err)
		var stockErr *shared.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "film", stockErr.Resource)
		assert.Equal(t, "20", stockErr.Required)
		assert.Equal(t, "8.25", stockErr.Available)
		assert.True(t, ledger.FilmMeters.Equal(decimal.NewFromFloat(8.25)))
	})

	t.Run("rejects negative usage", func(t *testing.T) {
		assert.Error(t, ledger.DeductFilm(decimal.NewFromFloat(-1)))
	})
}

func TestMaterialLedgerDeductPacking(t *testing.T) {
	ledger := NewMaterialLedger(uuid.New())
	ledger.Bags = 10
	ledger.Boxes = 2

	t.Run("deducts both counters", func(t *testing.T) {
		require.NoError(t, ledger.DeductPacking(5, 1))
		assert.Equal(t, 5, ledger.Bags)
		assert.Equal(t, 1, ledger.Boxes)
	})

	t.Run("box shortfall leaves bags untouched", func(t *testing.T) {
		err := ledger.DeductPacking(3, 5)
		require.Error(t, err)
		assert.Equal(t, 5, ledger.Bags)
		assert.Equal(t, 1, ledger.Boxes)
	})

	t.Run("bag shortfall leaves boxes untouched", func(t *testing.T) {
		err := ledger.DeductPacking(9, 0)
		require.Error(t, err)
		assert.Equal(t, 5, ledger.Bags)
	})
}

func TestMaterialLedgerRestorePacking(t *testing.T) {
	ledger := NewMaterialLedger(uuid.New())
	ledger.Bags = 1
	ledger.Boxes = 0

	ledger.RestorePacking(4, 1)
	assert.Equal(t, 5, ledger.Bags)
	assert.Equal(t, 1, ledger.Boxes)
}

func TestMaterialLedgerDeductBags(t *testing.T) {
	ledger := NewMaterialLedger(uuid.New())
	ledger.Bags = 3

	require.NoError(t, ledger.DeductBags(3))
	assert.Equal(t, 0, ledger.Bags)

	err := ledger.DeductBags(1)
	var stockErr *shared.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "bags", stockErr.Resource)
}
