package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/domain/workflow"
)

// GormDeliveryRepository implements workflow.DeliveryRepository using GORM
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// FindByID finds a delivery with its box snapshots within a workspace
func (r *GormDeliveryRepository) FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*workflow.Delivery, error) {
	var delivery workflow.Delivery
	if err := r.db.WithContext(ctx).
		Preload("Boxes").
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		First(&delivery).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &delivery, nil
}

// FindAllForWorkspace finds all deliveries for a workspace
func (r *GormDeliveryRepository) FindAllForWorkspace(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]workflow.Delivery, error) {
	var deliveries []workflow.Delivery
	query := r.db.WithContext(ctx).Model(&workflow.Delivery{}).
		Preload("Boxes").
		Where("workspace_id = ?", workspaceID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number LIKE ? OR warehouse LIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	query = applyFilter(query, filter, "created_at DESC")
	if err := query.Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// Save persists a delivery together with its box snapshots
func (r *GormDeliveryRepository) Save(ctx context.Context, delivery *workflow.Delivery) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(delivery).Error
}

// Delete removes a delivery and its box snapshots
func (r *GormDeliveryRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("delivery_id = ?", id).Delete(&workflow.DeliveryBox{}).Error; err != nil {
			return err
		}
		return tx.Where("workspace_id = ? AND id = ?", workspaceID, id).
			Delete(&workflow.Delivery{}).Error
	})
}

var _ workflow.DeliveryRepository = (*GormDeliveryRepository)(nil)
