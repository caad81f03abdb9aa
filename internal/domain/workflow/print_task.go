package workflow

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sewflow/backend/internal/domain/shared"
)

// UUIDList is stored as a JSON array column
type UUIDList []uuid.UUID

// Contains reports whether the list holds the given ID
func (l UUIDList) Contains(id uuid.UUID) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// PrintTask is one queued print job, keyed by (product, size, color).
// Copying the same order line again merges into the existing task instead of
// duplicating it: quantities sum and the linked order-item set grows.
type PrintTask struct {
	shared.WorkspaceAggregateRoot
	ProductExternalID int64           `gorm:"not null;index"`
	VendorCode        string          `gorm:"size:255"`
	Brand             string          `gorm:"size:255"`
	Title             string          `gorm:"size:500"`
	PhotoURL          string          `gorm:"size:1000"`
	TechSize          string          `gorm:"size:100"`
	Color             string          `gorm:"size:255"`
	Quantity          int             `gorm:"not null;default:0"`
	FilmUsage         decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0"`
	PrintLink         string          `gorm:"size:1000"`
	PrintStatus       string          `gorm:"size:255"`
	Priority          string          `gorm:"size:100"`
	Selected          bool            `gorm:"not null;default:false"`
	OrderItemIDs      UUIDList        `gorm:"serializer:json"`
}

// TableName specifies the table name for GORM
func (PrintTask) TableName() string {
	return "print_tasks"
}

// NewPrintTaskFromOrderItem creates a print task seeded from an order line
func NewPrintTaskFromOrderItem(workspaceID uuid.UUID, item *OrderItem) (*PrintTask, error) {
	if item == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "order item is required")
	}
	if item.IsPrintDone() {
		return nil, shared.NewDomainError("INVALID_STATE", "order item is already printed")
	}
	return &PrintTask{
		WorkspaceAggregateRoot: shared.NewWorkspaceAggregateRoot(workspaceID),
		ProductExternalID:      item.ProductExternalID,
		VendorCode:             item.VendorCode,
		Brand:                  item.Brand,
		Title:                  item.Title,
		PhotoURL:               item.PhotoURL,
		TechSize:               item.TechSize,
		Color:                  item.Color,
		Quantity:               item.Quantity,
		FilmUsage:              decimal.Zero,
		PrintLink:              item.PrintLink,
		PrintStatus:            PrintStatusInWork,
		Priority:               item.Priority,
		OrderItemIDs:           UUIDList{item.ID},
	}, nil
}

// MatchesKey reports whether the task covers the same (product, size, color)
func (t *PrintTask) MatchesKey(productExternalID int64, techSize, color string) bool {
	return t.ProductExternalID == productExternalID &&
		strings.EqualFold(t.TechSize, techSize) &&
		strings.EqualFold(t.Color, color)
}

// MergeOrderItem folds another order line into this task: the quantity sums
// and the order-item link set unions. Freshest link and priority win.
func (t *PrintTask) MergeOrderItem(item *OrderItem) error {
	if item == nil {
		return shared.NewDomainError("INVALID_INPUT", "order item is required")
	}
	if item.IsPrintDone() {
		return shared.NewDomainError("INVALID_STATE", "order item is already printed")
	}
	t.Quantity += item.Quantity
	if !t.OrderItemIDs.Contains(item.ID) {
		t.OrderItemIDs = append(t.OrderItemIDs, item.ID)
	}
	if item.PrintLink != "" {
		t.PrintLink = item.PrintLink
	}
	if item.Priority != "" {
		t.Priority = item.Priority
	}
	t.PrintStatus = PrintStatusInWork
	t.IncrementVersion()
	return nil
}
