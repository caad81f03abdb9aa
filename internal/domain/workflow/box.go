package workflow

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sewflow/backend/internal/domain/shared"
)

// Box is a packed carton awaiting delivery. The external box ID comes from
// the marketplace once the box is registered there; boxes without one are
// skipped when the box barcode document is built.
type Box struct {
	shared.WorkspaceAggregateRoot
	Number         string    `gorm:"size:100;not null;index"`
	ExternalBoxID  string    `gorm:"size:255"`
	Selected       bool      `gorm:"not null;default:false"`
	DeliveryNumber string    `gorm:"size:255"`
	Warehouse      string    `gorm:"size:255"`
	DeliveryDate   string    `gorm:"size:50"`
	Items          []BoxItem `gorm:"foreignKey:BoxID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (Box) TableName() string {
	return "boxes"
}

// NewBox creates an empty box with an operator-assigned number
func NewBox(workspaceID uuid.UUID, number string) (*Box, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "box number is required")
	}
	return &Box{
		WorkspaceAggregateRoot: shared.NewWorkspaceAggregateRoot(workspaceID),
		Number:                 strings.TrimSpace(number),
	}, nil
}

// MergeItem adds quantity for a (product, size) pair, folding into an
// existing line when one matches.
func (b *Box) MergeItem(productExternalID int64, techSize, barcode string, quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "quantity must be positive")
	}
	for i := range b.Items {
		it := &b.Items[i]
		if it.ProductExternalID == productExternalID && strings.EqualFold(it.TechSize, techSize) {
			it.Quantity += quantity
			if it.Barcode == "" {
				it.Barcode = barcode
			}
			it.UpdatedAt = time.Now()
			b.IncrementVersion()
			return nil
		}
	}
	now := time.Now()
	b.Items = append(b.Items, BoxItem{
		ID:                uuid.New(),
		BoxID:             b.ID,
		ProductExternalID: productExternalID,
		TechSize:          techSize,
		Barcode:           barcode,
		Quantity:          quantity,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	b.IncrementVersion()
	return nil
}

// TotalQuantity sums the units across all lines
func (b *Box) TotalQuantity() int {
	total := 0
	for _, it := range b.Items {
		total += it.Quantity
	}
	return total
}

// SetDeliveryInfo fills the fields a delivery hand-off requires
func (b *Box) SetDeliveryInfo(date, number, warehouse string) {
	b.DeliveryDate = strings.TrimSpace(date)
	b.DeliveryNumber = strings.TrimSpace(number)
	b.Warehouse = strings.TrimSpace(warehouse)
	b.IncrementVersion()
}

// MissingDeliveryFields lists which delivery fields are still empty. A box
// can only join a delivery when the list is empty.
func (b *Box) MissingDeliveryFields() []string {
	var missing []string
	if strings.TrimSpace(b.DeliveryDate) == "" {
		missing = append(missing, "дата поставки")
	}
	if strings.TrimSpace(b.DeliveryNumber) == "" {
		missing = append(missing, "номер поставки")
	}
	if strings.TrimSpace(b.Warehouse) == "" {
		missing = append(missing, "склад")
	}
	return missing
}

// DeliveryKey groups boxes heading into the same delivery
func (b *Box) DeliveryKey() string {
	return b.DeliveryDate + "|" + b.DeliveryNumber + "|" + b.Warehouse
}

// BoxItem is one (product, size) line inside a box
type BoxItem struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	BoxID             uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductExternalID int64     `gorm:"not null;index"`
	TechSize          string    `gorm:"size:100"`
	Barcode           string    `gorm:"size:255"`
	Quantity          int       `gorm:"not null;default:1"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName specifies the table name for GORM
func (BoxItem) TableName() string {
	return "box_items"
}
