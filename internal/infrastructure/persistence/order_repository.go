package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/domain/workflow"
)

// GormOrderRepository implements workflow.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its lines within a workspace
func (r *GormOrderRepository) FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*workflow.Order, error) {
	var order workflow.Order
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAllForWorkspace finds all orders for a workspace, lines included
func (r *GormOrderRepository) FindAllForWorkspace(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]workflow.Order, error) {
	var orders []workflow.Order
	query := r.db.WithContext(ctx).Model(&workflow.Order{}).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("workspace_id = ?", workspaceID)
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	query = applyFilter(query, filter, "created_at DESC")
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save persists an order together with its lines
func (r *GormOrderRepository) Save(ctx context.Context, order *workflow.Order) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
}

// Delete removes an order; lines go with it via the cascade constraint
func (r *GormOrderRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&workflow.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Where("workspace_id = ? AND id = ?", workspaceID, id).
			Delete(&workflow.Order{}).Error
	})
}

// FindItemByID finds one order line, checking workspace ownership through
// the parent order
func (r *GormOrderRepository) FindItemByID(ctx context.Context, workspaceID, itemID uuid.UUID) (*workflow.OrderItem, error) {
	var item workflow.OrderItem
	if err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.workspace_id = ? AND order_items.id = ?", workspaceID, itemID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindItemsByIDs finds order lines by IDs within a workspace
func (r *GormOrderRepository) FindItemsByIDs(ctx context.Context, workspaceID uuid.UUID, itemIDs []uuid.UUID) ([]workflow.OrderItem, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var items []workflow.OrderItem
	if err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.workspace_id = ? AND order_items.id IN ?", workspaceID, itemIDs).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SaveItem persists one order line
func (r *GormOrderRepository) SaveItem(ctx context.Context, item *workflow.OrderItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem removes one order line within a workspace
func (r *GormOrderRepository) DeleteItem(ctx context.Context, workspaceID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND order_id IN (?)", itemID,
			r.db.Model(&workflow.Order{}).Select("id").Where("workspace_id = ?", workspaceID)).
		Delete(&workflow.OrderItem{}).Error
}

var _ workflow.OrderRepository = (*GormOrderRepository)(nil)
