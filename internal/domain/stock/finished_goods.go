package stock

import (
	"strings"

	"github.com/google/uuid"

	"github.com/sewflow/backend/internal/domain/shared"
)

// FinishedGood is sewn stock for one (product name, color) pair, counted per
// size. Defects are staged alongside and only hit the stock when applied.
type FinishedGood struct {
	shared.WorkspaceAggregateRoot
	ProductName string  `gorm:"size:500;not null"`
	Color       string  `gorm:"size:255"`
	Stock       SizeMap `gorm:"serializer:json"`
	Defects     SizeMap `gorm:"serializer:json"`
}

// TableName specifies the table name for GORM
func (FinishedGood) TableName() string {
	return "finished_goods"
}

// NewFinishedGood creates a zeroed stock row
func NewFinishedGood(workspaceID uuid.UUID, productName, color string) (*FinishedGood, error) {
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "product name is required")
	}
	return &FinishedGood{
		WorkspaceAggregateRoot: shared.NewWorkspaceAggregateRoot(workspaceID),
		ProductName:            productName,
		Color:                  color,
		Stock:                  NewSizeMap(),
		Defects:                NewSizeMap(),
	}, nil
}

// SetStock overwrites the quantity for one size
func (g *FinishedGood) SetStock(size string, qty int) error {
	if qty < 0 {
		return shared.NewDomainError("INVALID_INPUT", "stock quantity must be non-negative")
	}
	if g.Stock == nil {
		g.Stock = NewSizeMap()
	}
	g.Stock[size] = qty
	g.IncrementVersion()
	return nil
}

// DeductStock removes qty units of a size only when the full quantity is in
// stock; on a shortfall or unknown size nothing changes and false is
// returned. Boxing treats a false result as a warning, not a failure.
func (g *FinishedGood) DeductStock(size string, qty int) bool {
	if qty <= 0 || g.Stock == nil {
		return false
	}
	size = strings.ToUpper(size)
	have, ok := g.Stock[size]
	if !ok || have < qty {
		return false
	}
	g.Stock[size] = have - qty
	g.IncrementVersion()
	return true
}

// StageDefect records defective units for one size without touching stock
func (g *FinishedGood) StageDefect(size string, qty int) error {
	if qty < 0 {
		return shared.NewDomainError("INVALID_INPUT", "defect quantity must be non-negative")
	}
	if g.Defects == nil {
		g.Defects = NewSizeMap()
	}
	g.Defects[size] = qty
	g.IncrementVersion()
	return nil
}

// ApplyDefects deducts every staged defect quantity from stock, flooring each
// size at zero, then clears the staging. This is irreversible.
func (g *FinishedGood) ApplyDefects() {
	if g.Stock == nil {
		g.Stock = NewSizeMap()
	}
	for size, qty := range g.Defects {
		if qty <= 0 {
			continue
		}
		have := g.Stock[size]
		if qty > have {
			g.Stock[size] = 0
		} else {
			g.Stock[size] = have - qty
		}
	}
	g.Defects = NewSizeMap()
	g.IncrementVersion()
}

// MatchesProduct reports whether this stock row covers the given category
// keyword and color. Stock rows are named by hand ("Футболки оверсайз"), so
// the product name match is a case-insensitive prefix on the category's
// first word, and the color must match exactly ignoring case.
func (g *FinishedGood) MatchesProduct(categoryKeyword, color string) bool {
	if categoryKeyword == "" || color == "" || g.ProductName == "" || g.Color == "" {
		return false
	}
	if !strings.HasPrefix(strings.ToLower(g.ProductName), strings.ToLower(categoryKeyword)) {
		return false
	}
	return strings.EqualFold(g.Color, color)
}
