package workflow

import (
	"github.com/google/uuid"

	"github.com/sewflow/backend/internal/domain/shared"
)

// ProductionItem is a unit batch on the sewing floor. It carries the label
// artifact generated when it left the print-done stage and the box number an
// operator assigns before boxing.
type ProductionItem struct {
	shared.WorkspaceAggregateRoot
	OrderID           *uuid.UUID `gorm:"type:uuid;index"`
	OrderItemID       *uuid.UUID `gorm:"type:uuid"`
	ProductExternalID int64      `gorm:"not null;index"`
	VendorCode        string     `gorm:"size:255"`
	Brand             string     `gorm:"size:255"`
	Title             string     `gorm:"size:500"`
	PhotoURL          string     `gorm:"size:1000"`
	TechSize          string     `gorm:"size:100"`
	Color             string     `gorm:"size:255"`
	Quantity          int        `gorm:"not null;default:1"`
	PrintLink         string     `gorm:"size:1000"`
	PrintStatus       string     `gorm:"size:255"`
	Priority          string     `gorm:"size:100"`
	LabelsPath        string     `gorm:"size:1000"`
	BoxNumber         string     `gorm:"size:100"`
	Selected          bool       `gorm:"not null;default:false"`
}

// TableName specifies the table name for GORM
func (ProductionItem) TableName() string {
	return "production_items"
}

// NewProductionItemFromOrderItem snapshots an order line into production,
// referencing the generated label artifact.
func NewProductionItemFromOrderItem(workspaceID uuid.UUID, item *OrderItem, labelsPath string) (*ProductionItem, error) {
	if item == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "order item is required")
	}
	orderID := item.OrderID
	itemID := item.ID
	return &ProductionItem{
		WorkspaceAggregateRoot: shared.NewWorkspaceAggregateRoot(workspaceID),
		OrderID:                &orderID,
		OrderItemID:            &itemID,
		ProductExternalID:      item.ProductExternalID,
		VendorCode:             item.VendorCode,
		Brand:                  item.Brand,
		Title:                  item.Title,
		PhotoURL:               item.PhotoURL,
		TechSize:               item.TechSize,
		Color:                  item.Color,
		Quantity:               item.Quantity,
		PrintLink:              item.PrintLink,
		PrintStatus:            item.PrintStatus,
		Priority:               item.Priority,
		LabelsPath:             labelsPath,
	}, nil
}

// AssignBox sets the box number an operator routed the batch to
func (p *ProductionItem) AssignBox(boxNumber string) {
	p.BoxNumber = boxNumber
	p.IncrementVersion()
}

// HasBox reports whether the batch has been routed to a box
func (p *ProductionItem) HasBox() bool {
	return p.BoxNumber != ""
}
