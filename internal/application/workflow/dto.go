package workflow

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sewflow/backend/internal/domain/workflow"
)

// CreateOrderRequest creates a named order
type CreateOrderRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddOrderItemRequest adds one product-size line to an order. Color defaults
// to the color attribute of the synced product card.
type AddOrderItemRequest struct {
	ProductExternalID int64  `json:"product_external_id" binding:"required"`
	TechSize          string `json:"tech_size" binding:"required"`
	Color             string `json:"color"`
	Quantity          int    `json:"quantity" binding:"required,min=1"`
}

// UpdateOrderItemRequest patches an order line; nil fields are left as-is
type UpdateOrderItemRequest struct {
	Quantity    *int    `json:"quantity"`
	PrintLink   *string `json:"print_link"`
	PrintStatus *string `json:"print_status"`
	Priority    *string `json:"priority"`
	Selected    *bool   `json:"selected"`
}

// CopyToPrintRequest sends order lines to the print queue. An empty ItemIDs
// list copies every line of the order.
type CopyToPrintRequest struct {
	OrderID uuid.UUID   `json:"order_id" binding:"required"`
	ItemIDs []uuid.UUID `json:"item_ids"`
}

// UpdatePrintTaskRequest patches a print task; nil fields are left as-is
type UpdatePrintTaskRequest struct {
	Quantity    *int             `json:"quantity"`
	FilmUsage   *decimal.Decimal `json:"film_usage"`
	PrintLink   *string          `json:"print_link"`
	PrintStatus *string          `json:"print_status"`
	Priority    *string          `json:"priority"`
	Selected    *bool            `json:"selected"`
}

// MoveToProductionRequest moves printed order lines onto the sewing floor
type MoveToProductionRequest struct {
	OrderID uuid.UUID   `json:"order_id" binding:"required"`
	ItemIDs []uuid.UUID `json:"item_ids" binding:"required,min=1"`
}

// MoveToBoxesRequest packs in-production batches into their assigned boxes
type MoveToBoxesRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids" binding:"required,min=1"`
}

// UpdateBoxRequest patches a box; nil fields are left as-is
type UpdateBoxRequest struct {
	ExternalBoxID *string `json:"external_box_id"`
	Selected      *bool   `json:"selected"`
}

// SetDeliveryInfoRequest stamps delivery fields onto a set of boxes
type SetDeliveryInfoRequest struct {
	BoxIDs         []uuid.UUID `json:"box_ids" binding:"required,min=1"`
	DeliveryDate   string      `json:"delivery_date" binding:"required"`
	DeliveryNumber string      `json:"delivery_number" binding:"required"`
	Warehouse      string      `json:"warehouse" binding:"required"`
}

// MoveToDeliveriesRequest hands packed boxes off as deliveries
type MoveToDeliveriesRequest struct {
	BoxIDs []uuid.UUID `json:"box_ids" binding:"required,min=1"`
}

// OrderItemResponse is the API shape of one order line
type OrderItemResponse struct {
	ID                uuid.UUID `json:"id"`
	OrderID           uuid.UUID `json:"order_id"`
	ProductExternalID int64     `json:"product_external_id"`
	VendorCode        string    `json:"vendor_code"`
	Brand             string    `json:"brand"`
	Title             string    `json:"title"`
	PhotoURL          string    `json:"photo_url"`
	TechSize          string    `json:"tech_size"`
	Color             string    `json:"color"`
	Quantity          int       `json:"quantity"`
	PrintLink         string    `json:"print_link"`
	PrintStatus       string    `json:"print_status"`
	Priority          string    `json:"priority"`
	Selected          bool      `json:"selected"`
	CreatedAt         time.Time `json:"created_at"`
}

// OrderResponse is the API shape of an order
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	Name          string              `json:"name"`
	Items         []OrderItemResponse `json:"items"`
	TotalQuantity int                 `json:"total_quantity"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// PrintTaskResponse is the API shape of a queued print job
type PrintTaskResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductExternalID int64           `json:"product_external_id"`
	VendorCode        string          `json:"vendor_code"`
	Brand             string          `json:"brand"`
	Title             string          `json:"title"`
	PhotoURL          string          `json:"photo_url"`
	TechSize          string          `json:"tech_size"`
	Color             string          `json:"color"`
	Quantity          int             `json:"quantity"`
	FilmUsage         decimal.Decimal `json:"film_usage"`
	PrintLink         string          `json:"print_link"`
	PrintStatus       string          `json:"print_status"`
	Priority          string          `json:"priority"`
	Selected          bool            `json:"selected"`
	OrderItemIDs      []uuid.UUID     `json:"order_item_ids"`
	CreatedAt         time.Time       `json:"created_at"`
}

// CopyToPrintResponse reports how many lines landed in the queue
type CopyToPrintResponse struct {
	CopiedItems int `json:"copied_items"`
	CopiedUnits int `json:"copied_units"`
}

// ProductionItemResponse is the API shape of an in-production batch
type ProductionItemResponse struct {
	ID                uuid.UUID `json:"id"`
	ProductExternalID int64     `json:"product_external_id"`
	VendorCode        string    `json:"vendor_code"`
	Brand             string    `json:"brand"`
	Title             string    `json:"title"`
	PhotoURL          string    `json:"photo_url"`
	TechSize          string    `json:"tech_size"`
	Color             string    `json:"color"`
	Quantity          int       `json:"quantity"`
	PrintLink         string    `json:"print_link"`
	Priority          string    `json:"priority"`
	LabelsPath        string    `json:"labels_path"`
	BoxNumber         string    `json:"box_number"`
	Selected          bool      `json:"selected"`
	CreatedAt         time.Time `json:"created_at"`
}

// MoveToProductionResponse reports a completed production move
type MoveToProductionResponse struct {
	MovedItems     int      `json:"moved_items"`
	MovedUnits     int      `json:"moved_units"`
	LabelArtifacts []string `json:"label_artifacts"`
}

// BoxItemResponse is one line inside a box
type BoxItemResponse struct {
	ID                uuid.UUID `json:"id"`
	ProductExternalID int64     `json:"product_external_id"`
	TechSize          string    `json:"tech_size"`
	Barcode           string    `json:"barcode"`
	Quantity          int       `json:"quantity"`
}

// BoxResponse is the API shape of a packed box
type BoxResponse struct {
	ID             uuid.UUID         `json:"id"`
	Number         string            `json:"number"`
	ExternalBoxID  string            `json:"external_box_id"`
	DeliveryDate   string            `json:"delivery_date"`
	DeliveryNumber string            `json:"delivery_number"`
	Warehouse      string            `json:"warehouse"`
	Selected       bool              `json:"selected"`
	TotalQuantity  int               `json:"total_quantity"`
	Items          []BoxItemResponse `json:"items"`
	CreatedAt      time.Time         `json:"created_at"`
}

// MoveToBoxesResponse reports a completed boxing move
type MoveToBoxesResponse struct {
	BoxesCreated int `json:"boxes_created"`
	BoxesReused  int `json:"boxes_reused"`
	MovedUnits   int `json:"moved_units"`
}

// DeliveryBoxResponse is a frozen box inside a delivery
type DeliveryBoxResponse struct {
	ID            uuid.UUID               `json:"id"`
	BoxNumber     string                  `json:"box_number"`
	ExternalBoxID string                  `json:"external_box_id"`
	Items         []workflow.SnapshotItem `json:"items"`
}

// DeliveryResponse is the API shape of a delivery
type DeliveryResponse struct {
	ID              uuid.UUID             `json:"id"`
	DeliveryDate    string                `json:"delivery_date"`
	Number          string                `json:"number"`
	Warehouse       string                `json:"warehouse"`
	Status          string                `json:"status"`
	BoxDocPath      string                `json:"box_doc_path"`
	ShipmentDocPath string                `json:"shipment_doc_path"`
	BoxCount        int                   `json:"box_count"`
	TotalQuantity   int                   `json:"total_quantity"`
	Boxes           []DeliveryBoxResponse `json:"boxes"`
	CreatedAt       time.Time             `json:"created_at"`
}

func toOrderItemResponse(item *workflow.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:                item.ID,
		OrderID:           item.OrderID,
		ProductExternalID: item.ProductExternalID,
		VendorCode:        item.VendorCode,
		Brand:             item.Brand,
		Title:             item.Title,
		PhotoURL:          item.PhotoURL,
		TechSize:          item.TechSize,
		Color:             item.Color,
		Quantity:          item.Quantity,
		PrintLink:         item.PrintLink,
		PrintStatus:       item.PrintStatus,
		Priority:          item.Priority,
		Selected:          item.Selected,
		CreatedAt:         item.CreatedAt,
	}
}

func toOrderResponse(order *workflow.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	total := 0
	for i := range order.Items {
		items[i] = toOrderItemResponse(&order.Items[i])
		total += order.Items[i].Quantity
	}
	return &OrderResponse{
		ID:            order.ID,
		Name:          order.Name,
		Items:         items,
		TotalQuantity: total,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func toPrintTaskResponse(task *workflow.PrintTask) *PrintTaskResponse {
	return &PrintTaskResponse{
		ID:                task.ID,
		ProductExternalID: task.ProductExternalID,
		VendorCode:        task.VendorCode,
		Brand:             task.Brand,
		Title:             task.Title,
		PhotoURL:          task.PhotoURL,
		TechSize:          task.TechSize,
		Color:             task.Color,
		Quantity:          task.Quantity,
		FilmUsage:         task.FilmUsage,
		PrintLink:         task.PrintLink,
		PrintStatus:       task.PrintStatus,
		Priority:          task.Priority,
		Selected:          task.Selected,
		OrderItemIDs:      task.OrderItemIDs,
		CreatedAt:         task.CreatedAt,
	}
}

func toProductionItemResponse(item *workflow.ProductionItem) *ProductionItemResponse {
	return &ProductionItemResponse{
		ID:                item.ID,
		ProductExternalID: item.ProductExternalID,
		VendorCode:        item.VendorCode,
		Brand:             item.Brand,
		Title:             item.Title,
		PhotoURL:          item.PhotoURL,
		TechSize:          item.TechSize,
		Color:             item.Color,
		Quantity:          item.Quantity,
		PrintLink:         item.PrintLink,
		Priority:          item.Priority,
		LabelsPath:        item.LabelsPath,
		BoxNumber:         item.BoxNumber,
		Selected:          item.Selected,
		CreatedAt:         item.CreatedAt,
	}
}

func toBoxResponse(box *workflow.Box) *BoxResponse {
	items := make([]BoxItemResponse, len(box.Items))
	for i, it := range box.Items {
		items[i] = BoxItemResponse{
			ID:                it.ID,
			ProductExternalID: it.ProductExternalID,
			TechSize:          it.TechSize,
			Barcode:           it.Barcode,
			Quantity:          it.Quantity,
		}
	}
	return &BoxResponse{
		ID:             box.ID,
		Number:         box.Number,
		ExternalBoxID:  box.ExternalBoxID,
		DeliveryDate:   box.DeliveryDate,
		DeliveryNumber: box.DeliveryNumber,
		Warehouse:      box.Warehouse,
		Selected:       box.Selected,
		TotalQuantity:  box.TotalQuantity(),
		Items:          items,
		CreatedAt:      box.CreatedAt,
	}
}

func toDeliveryResponse(delivery *workflow.Delivery) *DeliveryResponse {
	boxes := make([]DeliveryBoxResponse, len(delivery.Boxes))
	total := 0
	for i, b := range delivery.Boxes {
		boxes[i] = DeliveryBoxResponse{
			ID:            b.ID,
			BoxNumber:     b.BoxNumber,
			ExternalBoxID: b.ExternalBoxID,
			Items:         b.Items,
		}
		for _, it := range b.Items {
			total += it.Quantity
		}
	}
	return &DeliveryResponse{
		ID:              delivery.ID,
		DeliveryDate:    delivery.DeliveryDate,
		Number:          delivery.Number,
		Warehouse:       delivery.Warehouse,
		Status:          delivery.Status,
		BoxDocPath:      delivery.BoxDocPath,
		ShipmentDocPath: delivery.ShipmentDocPath,
		BoxCount:        len(delivery.Boxes),
		TotalQuantity:   total,
		Boxes:           boxes,
		CreatedAt:       delivery.CreatedAt,
	}
}
