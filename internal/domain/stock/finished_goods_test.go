package stock

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFinishedGood(t *testing.T) {
	good, err := NewFinishedGood(uuid.New(), "Футболка", "белый")
	require.NoError(t, err)
	assert.Equal(t, 0, good.Stock.Total())
	assert.Len(t, good.Stock, len(CanonicalSizes))

	_, err = NewFinishedGood(uuid.New(), "", "белый")
	assert.Error(t, err)
}

func TestFinishedGoodDeductStock(t *testing.T) {
	good, err := NewFinishedGood(uuid.New(), "Худи", "чёрный")
	require.NoError(t, err)
	require.NoError(t, good.SetStock("M", 5))

	t.Run("deducts when fully covered", func(t *testing.T) {
		assert.True(t, good.DeductStock("M", 3))
		assert.Equal(t, 2, good.Stock["M"])
	})

	t.Run("normalizes size case", func(t *testing.T) {
		assert.True(t, good.DeductStock("m", 1))
		assert.Equal(t, 1, good.Stock["M"])
	})

	t.Run("shortfall deducts nothing", func(t *testing.T) {
		assert.False(t, good.DeductStock("M", 10))
		assert.Equal(t, 1, good.Stock["M"])
	})

	t.Run("empty size yields nothing", func(t *testing.T) {
		assert.False(t, good.DeductStock("S", 4))
	})
}

func TestFinishedGoodApplyDefects(t *testing.T) {
	good, err := NewFinishedGood(uuid.New(), "Свитшот", "серый")
	require.NoError(t, err)
	require.NoError(t, good.SetStock("S", 10))
	require.NoError(t, good.SetStock("M", 2))
	require.NoError(t, good.StageDefect("S", 3))
	require.NoError(t, good.StageDefect("M", 5))

	good.ApplyDefects()

	assert.Equal(t, 7, good.Stock["S"])
	assert.Equal(t, 0, good.Stock["M"], "defect beyond stock floors at zero")
	assert.Equal(t, 0, good.Defects.Total(), "staging is cleared")
}

func TestFinishedGoodMatchesProduct(t *testing.T) {
	good, err := NewFinishedGood(uuid.New(), "Футболка базовая", "Белый")
	require.NoError(t, err)

	assert.True(t, good.MatchesProduct("футболка", "белый"))
	assert.True(t, good.MatchesProduct("Футболка", "БЕЛЫЙ"))
	assert.False(t, good.MatchesProduct("худи", "белый"))
	assert.False(t, good.MatchesProduct("футболка", "чёрный"))
	assert.False(t, good.MatchesProduct("", "белый"))
	assert.False(t, good.MatchesProduct("футболка", ""))
}
