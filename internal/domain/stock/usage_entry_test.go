package stock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeUsageKey(t *testing.T) {
	brand, name, color := NormalizeUsageKey("", "", "")
	assert.Equal(t, FallbackBrand, brand)
	assert.Equal(t, FallbackProductName, name)
	assert.Equal(t, FallbackColor, color)

	brand, name, color = NormalizeUsageKey("Bask", "Куртка", "синий")
	assert.Equal(t, "Bask", brand)
	assert.Equal(t, "Куртка", name)
	assert.Equal(t, "синий", color)
}

func TestNewUsageEntryNormalizesKey(t *testing.T) {
	entry := NewUsageEntry(uuid.New(), time.Now(), "", "Футболка", "")
	assert.Equal(t, FallbackBrand, entry.Brand)
	assert.Equal(t, "Футболка", entry.ProductName)
	assert.Equal(t, FallbackColor, entry.Color)
}

func TestUsageEntryAccumulators(t *testing.T) {
	entry := NewUsageEntry(uuid.New(), time.Now(), "Bask", "Куртка", "синий")

	entry.AddUnits("M", 3)
	entry.AddUnits("M", 2)
	entry.AddUnits("L", -1)
	assert.Equal(t, 5, entry.Sizes["M"])
	assert.Equal(t, 5, entry.TotalQuantity())

	entry.AddBags(5)
	entry.AddBoxes(1)
	entry.AddFilm(decimal.NewFromFloat(2.5))
	entry.AddFilm(decimal.NewFromFloat(-1))
	assert.Equal(t, 5, entry.BagsUsed)
	assert.Equal(t, 1, entry.BoxesUsed)
	assert.True(t, entry.FilmUsed.Equal(decimal.NewFromFloat(2.5)))
}
