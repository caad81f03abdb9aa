package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/domain/workflow"
)

// GormProductionRepository implements workflow.ProductionRepository using GORM
type GormProductionRepository struct {
	db *gorm.DB
}

// NewGormProductionRepository creates a new GormProductionRepository
func NewGormProductionRepository(db *gorm.DB) *GormProductionRepository {
	return &GormProductionRepository{db: db}
}

// FindByID finds an in-production row by ID within a workspace
func (r *GormProductionRepository) FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*workflow.ProductionItem, error) {
	var item workflow.ProductionItem
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDs finds in-production rows by IDs within a workspace
func (r *GormProductionRepository) FindByIDs(ctx context.Context, workspaceID uuid.UUID, ids []uuid.UUID) ([]workflow.ProductionItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []workflow.ProductionItem
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND id IN ?", workspaceID, ids).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindAllForWorkspace finds all in-production rows for a workspace
func (r *GormProductionRepository) FindAllForWorkspace(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]workflow.ProductionItem, error) {
	var items []workflow.ProductionItem
	query := r.db.WithContext(ctx).Model(&workflow.ProductionItem{}).Where("workspace_id = ?", workspaceID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR vendor_code LIKE ?", pattern, pattern)
	}
	if boxed, ok := filter.Filters["boxed"]; ok {
		if boxed == true {
			query = query.Where("box_number <> ''")
		} else {
			query = query.Where("box_number = ''")
		}
	}
	query = applyFilter(query, filter, "created_at ASC")
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save persists an in-production row
func (r *GormProductionRepository) Save(ctx context.Context, item *workflow.ProductionItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes an in-production row
func (r *GormProductionRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		Delete(&workflow.ProductionItem{}).Error
}

var _ workflow.ProductionRepository = (*GormProductionRepository)(nil)
