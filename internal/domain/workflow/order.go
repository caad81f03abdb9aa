package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/sewflow/backend/internal/domain/shared"
)

// Order is a batch of units pulled from marketplace demand. Items are
// denormalized product snapshots so later stages survive catalog re-syncs.
type Order struct {
	shared.WorkspaceAggregateRoot
	Name  string      `gorm:"size:255;not null"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a named order
func NewOrder(workspaceID uuid.UUID, name string) (*Order, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "order name is required")
	}
	return &Order{
		WorkspaceAggregateRoot: shared.NewWorkspaceAggregateRoot(workspaceID),
		Name:                   name,
	}, nil
}

// OrderItem is one (product, size, color) line of an order
type OrderItem struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductExternalID int64     `gorm:"not null;index"`
	VendorCode        string    `gorm:"size:255"`
	Brand             string    `gorm:"size:255"`
	Title             string    `gorm:"size:500"`
	PhotoURL          string    `gorm:"size:1000"`
	TechSize          string    `gorm:"size:100"`
	Color             string    `gorm:"size:255"`
	Quantity          int       `gorm:"not null;default:1"`
	PrintLink         string    `gorm:"size:1000"`
	PrintStatus       string    `gorm:"size:255"`
	Priority          string    `gorm:"size:100"`
	Selected          bool      `gorm:"not null;default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName specifies the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates an order line for a product size
func NewOrderItem(orderID uuid.UUID, productExternalID int64, techSize string, quantity int) (*OrderItem, error) {
	if productExternalID == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "external product ID is required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "quantity must be positive")
	}
	now := time.Now()
	return &OrderItem{
		ID:                uuid.New(),
		OrderID:           orderID,
		ProductExternalID: productExternalID,
		TechSize:          techSize,
		Quantity:          quantity,
		Priority:          PriorityNormal,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// IsPrintDone reports whether printing already finished for this line
func (i *OrderItem) IsPrintDone() bool {
	return i.PrintStatus == PrintStatusDone
}

// MarkPrintInWork flags the line as queued for printing
func (i *OrderItem) MarkPrintInWork() {
	i.PrintStatus = PrintStatusInWork
	i.UpdatedAt = time.Now()
}

// MarkPrintDone flags the line as printed
func (i *OrderItem) MarkPrintDone() {
	i.PrintStatus = PrintStatusDone
	i.UpdatedAt = time.Now()
}
