package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sewflow/backend/internal/domain/shared"
)

// UsageEntry is one append-only row of the production usage ledger: units
// produced per size for a (date, brand, product, color) key, plus the
// materials consumed producing and packing them.
type UsageEntry struct {
	shared.WorkspaceAggregateRoot
	Date        time.Time       `gorm:"type:date;not null;index"`
	Brand       string          `gorm:"size:255;not null"`
	ProductName string          `gorm:"size:500;not null"`
	Color       string          `gorm:"size:255"`
	Sizes       SizeMap         `gorm:"serializer:json"`
	BagsUsed    int             `gorm:"not null;default:0"`
	BoxesUsed   int             `gorm:"not null;default:0"`
	FilmUsed    decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0"`
}

// TableName specifies the table name for GORM
func (UsageEntry) TableName() string {
	return "usage_entries"
}

// Fallback labels for ledger rows whose item lacks a key attribute.
const (
	FallbackBrand       = "Без бренда"
	FallbackProductName = "Без названия"
	FallbackColor       = "Без цвета"
)

// NormalizeUsageKey substitutes the fallback labels for missing key parts.
// Lookups and new rows must run through the same normalization or a
// brandless item would open a fresh row on every move.
func NormalizeUsageKey(brand, productName, color string) (string, string, string) {
	if brand == "" {
		brand = FallbackBrand
	}
	if productName == "" {
		productName = FallbackProductName
	}
	if color == "" {
		color = FallbackColor
	}
	return brand, productName, color
}

// NewUsageEntry creates a ledger row for one day/brand/product/color key
func NewUsageEntry(workspaceID uuid.UUID, day time.Time, brand, productName, color string) *UsageEntry {
	brand, productName, color = NormalizeUsageKey(brand, productName, color)
	return &UsageEntry{
		WorkspaceAggregateRoot: shared.NewWorkspaceAggregateRoot(workspaceID),
		Date:                   day.Truncate(24 * time.Hour),
		Brand:                  brand,
		ProductName:            productName,
		Color:                  color,
		Sizes:                  SizeMap{},
		FilmUsed:               decimal.Zero,
	}
}

// AddUnits accumulates produced units for a size
func (e *UsageEntry) AddUnits(size string, qty int) {
	if qty <= 0 {
		return
	}
	if e.Sizes == nil {
		e.Sizes = SizeMap{}
	}
	e.Sizes[size] += qty
	e.IncrementVersion()
}

// AddBags accumulates packing bag usage
func (e *UsageEntry) AddBags(n int) {
	if n > 0 {
		e.BagsUsed += n
		e.IncrementVersion()
	}
}

// AddBoxes accumulates box usage
func (e *UsageEntry) AddBoxes(n int) {
	if n > 0 {
		e.BoxesUsed += n
		e.IncrementVersion()
	}
}

// AddFilm accumulates print film usage in meters
func (e *UsageEntry) AddFilm(meters decimal.Decimal) {
	if meters.IsPositive() {
		e.FilmUsed = e.FilmUsed.Add(meters)
		e.IncrementVersion()
	}
}

// TotalQuantity sums the produced units across sizes
func (e *UsageEntry) TotalQuantity() int {
	return e.Sizes.Total()
}
