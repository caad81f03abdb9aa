package stock

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sewflow/backend/internal/domain/shared"
)

// MaterialLedger tracks consumable supplies for one workspace. Counters never
// go negative: every deduction checks availability first, and check plus
// deduct run inside one locked transaction.
type MaterialLedger struct {
	shared.WorkspaceAggregateRoot
	Boxes       int             `gorm:"not null;default:0"`
	Bags        int             `gorm:"not null;default:0"`
	FilmMeters  decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0"`
	PaintWhite  int             `gorm:"not null;default:0"`
	PaintBlack  int             `gorm:"not null;default:0"`
	PaintRed    int             `gorm:"not null;default:0"`
	PaintYellow int             `gorm:"not null;default:0"`
	PaintBlue   int             `gorm:"not null;default:0"`
	Glue        int             `gorm:"not null;default:0"`
	LabelRolls  int             `gorm:"not null;default:0"`
}

// TableName specifies the table name for GORM
func (MaterialLedger) TableName() string {
	return "material_ledgers"
}

// NewMaterialLedger creates an empty ledger for a workspace
func NewMaterialLedger(workspaceID uuid.UUID) *MaterialLedger {
	return &MaterialLedger{
		WorkspaceAggregateRoot: shared.NewWorkspaceAggregateRoot(workspaceID),
		FilmMeters:             decimal.Zero,
	}
}

// DeductFilm removes print film meters, failing with the exact shortfall
func (l *MaterialLedger) DeductFilm(meters decimal.Decimal) error {
	if meters.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "film usage must be non-negative")
	}
	if l.FilmMeters.LessThan(meters) {
		return shared.NewInsufficientStockError("film", meters.String(), l.FilmMeters.String())
	}
	l.FilmMeters = l.FilmMeters.Sub(meters)
	l.IncrementVersion()
	return nil
}

// DeductBags removes packing bags, all-or-nothing
func (l *MaterialLedger) DeductBags(n int) error {
	if n < 0 {
		return shared.NewDomainError("INVALID_INPUT", "bag count must be non-negative")
	}
	if l.Bags < n {
		return shared.NewInsufficientStockError("bags", strconv.Itoa(n), strconv.Itoa(l.Bags))
	}
	l.Bags -= n
	l.IncrementVersion()
	return nil
}

// DeductPacking removes bags and boxes together; if either is short, nothing
// is deducted.
func (l *MaterialLedger) DeductPacking(bags, boxes int) error {
	if bags < 0 || boxes < 0 {
		return shared.NewDomainError("INVALID_INPUT", "packing counts must be non-negative")
	}
	if l.Bags < bags {
		return shared.NewInsufficientStockError("bags", strconv.Itoa(bags), strconv.Itoa(l.Bags))
	}
	if l.Boxes < boxes {
		return shared.NewInsufficientStockError("boxes", strconv.Itoa(boxes), strconv.Itoa(l.Boxes))
	}
	l.Bags -= bags
	l.Boxes -= boxes
	l.IncrementVersion()
	return nil
}

// RestorePacking returns bags and boxes to the ledger, used when a box row
// is deleted before delivery.
func (l *MaterialLedger) RestorePacking(bags, boxes int) {
	if bags > 0 {
		l.Bags += bags
	}
	if boxes > 0 {
		l.Boxes += boxes
	}
	l.IncrementVersion()
}
