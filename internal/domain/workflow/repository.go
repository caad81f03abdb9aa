package workflow

import (
	"context"

	"github.com/google/uuid"

	"github.com/sewflow/backend/internal/domain/shared"
)

// OrderRepository defines persistence for orders and their lines
type OrderRepository interface {
	FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*Order, error)
	FindAllForWorkspace(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]Order, error)
	Save(ctx context.Context, order *Order) error
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
	FindItemByID(ctx context.Context, workspaceID, itemID uuid.UUID) (*OrderItem, error)
	FindItemsByIDs(ctx context.Context, workspaceID uuid.UUID, itemIDs []uuid.UUID) ([]OrderItem, error)
	SaveItem(ctx context.Context, item *OrderItem) error
	DeleteItem(ctx context.Context, workspaceID, itemID uuid.UUID) error
}

// PrintTaskRepository defines persistence for the print queue
type PrintTaskRepository interface {
	FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*PrintTask, error)
	FindByKey(ctx context.Context, workspaceID uuid.UUID, productExternalID int64, techSize, color string) (*PrintTask, error)
	FindAllForWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]PrintTask, error)
	Save(ctx context.Context, task *PrintTask) error
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
	DeleteAllForWorkspace(ctx context.Context, workspaceID uuid.UUID) (int64, error)
}

// ProductionRepository defines persistence for in-production batches
type ProductionRepository interface {
	FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*ProductionItem, error)
	FindByIDs(ctx context.Context, workspaceID uuid.UUID, ids []uuid.UUID) ([]ProductionItem, error)
	FindAllForWorkspace(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]ProductionItem, error)
	Save(ctx context.Context, item *ProductionItem) error
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
}

// BoxRepository defines persistence for packed boxes
type BoxRepository interface {
	FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*Box, error)
	FindByIDs(ctx context.Context, workspaceID uuid.UUID, ids []uuid.UUID) ([]Box, error)
	FindByNumber(ctx context.Context, workspaceID uuid.UUID, number string) (*Box, error)
	FindAllForWorkspace(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]Box, error)
	Save(ctx context.Context, box *Box) error
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
}

// DeliveryRepository defines persistence for deliveries
type DeliveryRepository interface {
	FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*Delivery, error)
	FindAllForWorkspace(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]Delivery, error)
	Save(ctx context.Context, delivery *Delivery) error
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
}
