package workflow

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sewflow/backend/internal/domain/shared"
)

// Delivery statuses shown to operators
const (
	DeliveryStatusReady    = "ГОТОВ"
	DeliveryStatusArchived = "В АРХИВЕ"
)

// Delivery is a shipment of boxes handed to the marketplace warehouse. Boxes
// are snapshotted into it and the live box rows are deleted; deleting a
// delivery restores nothing.
type Delivery struct {
	shared.WorkspaceAggregateRoot
	DeliveryDate    string        `gorm:"size:50"`
	Number          string        `gorm:"size:255"`
	Warehouse       string        `gorm:"size:255"`
	Status          string        `gorm:"size:50;not null"`
	BoxDocPath      string        `gorm:"size:1000"`
	ShipmentDocPath string        `gorm:"size:1000"`
	Boxes           []DeliveryBox `gorm:"foreignKey:DeliveryID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (Delivery) TableName() string {
	return "deliveries"
}

// NewDelivery creates a ready delivery for one (date, number, warehouse) key
func NewDelivery(workspaceID uuid.UUID, date, number, warehouse string) (*Delivery, error) {
	if strings.TrimSpace(date) == "" || strings.TrimSpace(number) == "" || strings.TrimSpace(warehouse) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "delivery date, number and warehouse are required")
	}
	return &Delivery{
		WorkspaceAggregateRoot: shared.NewWorkspaceAggregateRoot(workspaceID),
		DeliveryDate:           strings.TrimSpace(date),
		Number:                 strings.TrimSpace(number),
		Warehouse:              strings.TrimSpace(warehouse),
		Status:                 DeliveryStatusReady,
	}, nil
}

// AddBoxSnapshot folds a packed box into the delivery as an immutable copy
func (d *Delivery) AddBoxSnapshot(box *Box) {
	items := make([]SnapshotItem, 0, len(box.Items))
	for _, it := range box.Items {
		items = append(items, SnapshotItem{
			ProductExternalID: it.ProductExternalID,
			TechSize:          it.TechSize,
			Barcode:           it.Barcode,
			Quantity:          it.Quantity,
		})
	}
	d.Boxes = append(d.Boxes, DeliveryBox{
		ID:            uuid.New(),
		DeliveryID:    d.ID,
		BoxNumber:     box.Number,
		ExternalBoxID: box.ExternalBoxID,
		Items:         items,
		CreatedAt:     time.Now(),
	})
	d.IncrementVersion()
}

// Archive moves the delivery to the archive status
func (d *Delivery) Archive() {
	d.Status = DeliveryStatusArchived
	d.IncrementVersion()
}

// SetBarcodeDocs records the generated barcode document paths
func (d *Delivery) SetBarcodeDocs(boxDocPath, shipmentDocPath string) {
	d.BoxDocPath = boxDocPath
	d.ShipmentDocPath = shipmentDocPath
	d.IncrementVersion()
}

// DeliveryBox is an immutable snapshot of a box at hand-off time
type DeliveryBox struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	DeliveryID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	BoxNumber     string         `gorm:"size:100"`
	ExternalBoxID string         `gorm:"size:255"`
	Items         []SnapshotItem `gorm:"serializer:json"`
	CreatedAt     time.Time
}

// TableName specifies the table name for GORM
func (DeliveryBox) TableName() string {
	return "delivery_boxes"
}

// SnapshotItem is one frozen box line inside a delivery snapshot
type SnapshotItem struct {
	ProductExternalID int64  `json:"product_external_id"`
	TechSize          string `json:"tech_size"`
	Barcode           string `json:"barcode"`
	Quantity          int    `json:"quantity"`
}

var (
	shipmentBadRunsRe  = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)
	shipmentDashRunsRe = regexp.MustCompile(`-{2,}`)
)

// SanitizeShipmentNumber turns an operator-entered shipment number into a
// filename- and barcode-safe token: runs of other characters collapse to a
// single hyphen and edge hyphens are trimmed. An empty result is invalid.
func SanitizeShipmentNumber(number string) (string, error) {
	s := shipmentBadRunsRe.ReplaceAllString(number, "-")
	s = shipmentDashRunsRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "", shared.NewDomainError("INVALID_INPUT", "shipment number has no usable characters")
	}
	return s, nil
}
