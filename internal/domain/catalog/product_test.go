package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct(uuid.New(), 12345678, "Футболка оверсайз хлопок")
	require.NoError(t, err)
	p.VendorCode = "TSH-001"
	p.Category = "Футболки женские"
	p.Sizes = []SizeVariant{
		{TechSize: "M", Barcodes: []string{"4006381333931", "2000000000015"}},
		{TechSize: "L", Barcodes: []string{"4006381333948"}},
		{TechSize: "XL", Barcodes: nil},
	}
	p.Characteristics = []Characteristic{
		{Name: "Состав", Value: "хлопок 95%, эластан 5%"},
		{Name: "Страна производства", Value: "Россия"},
		{Name: "Цвет", Value: "чёрный"},
		{Name: "Пол", Value: "Женский"},
	}
	return p
}

func TestNewProduct(t *testing.T) {
	t.Run("requires external ID", func(t *testing.T) {
		_, err := NewProduct(uuid.New(), 0, "title")
		assert.Error(t, err)
	})

	t.Run("requires title", func(t *testing.T) {
		_, err := NewProduct(uuid.New(), 1, "")
		assert.Error(t, err)
	})
}

func TestProductBarcodeForSize(t *testing.T) {
	p := newTestProduct(t)

	t.Run("returns first barcode of the size", func(t *testing.T) {
		assert.Equal(t, "4006381333931", p.BarcodeForSize("M"))
	})

	t.Run("matches size case-insensitively", func(t *testing.T) {
		assert.Equal(t, "4006381333948", p.BarcodeForSize("l"))
	})

	t.Run("empty for size without barcodes", func(t *testing.T) {
		assert.Equal(t, "", p.BarcodeForSize("XL"))
	})

	t.Run("empty for unknown size", func(t *testing.T) {
		assert.Equal(t, "", p.BarcodeForSize("XXL"))
	})
}

func TestProductMetadataForLabels(t *testing.T) {
	p := newTestProduct(t)
	meta := p.MetadataForLabels("M")

	assert.Equal(t, "Футболка оверсайз хлопок", meta.Title)
	assert.Equal(t, "M", meta.Size)
	assert.Equal(t, "TSH-001", meta.Article)
	assert.Equal(t, "4006381333931", meta.Barcode)
	assert.Equal(t, "хлопок 95%, эластан 5%", meta.Material)
	assert.Equal(t, "Россия", meta.Country)
	assert.Equal(t, "чёрный", meta.Color)
}

func TestProductMetadataForLabelsMissingAttributes(t *testing.T) {
	p, err := NewProduct(uuid.New(), 42, "Лонгслив")
	require.NoError(t, err)
	meta := p.MetadataForLabels("S")

	assert.Equal(t, "Лонгслив", meta.Title)
	assert.Empty(t, meta.Material)
	assert.Empty(t, meta.Country)
	assert.Empty(t, meta.Color)
	assert.Empty(t, meta.Barcode)
}

func TestProductCategoryKeyword(t *testing.T) {
	p := newTestProduct(t)
	assert.Equal(t, "Футболки", p.CategoryKeyword())

	p.Category = ""
	assert.Equal(t, "", p.CategoryKeyword())
}
