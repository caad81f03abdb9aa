package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/domain/workflow"
)

// GormBoxRepository implements workflow.BoxRepository using GORM
type GormBoxRepository struct {
	db *gorm.DB
}

// NewGormBoxRepository creates a new GormBoxRepository
func NewGormBoxRepository(db *gorm.DB) *GormBoxRepository {
	return &GormBoxRepository{db: db}
}

// FindByID finds a box with its lines within a workspace
func (r *GormBoxRepository) FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*workflow.Box, error) {
	var box workflow.Box
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		First(&box).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &box, nil
}

// FindByIDs finds boxes by IDs within a workspace
func (r *GormBoxRepository) FindByIDs(ctx context.Context, workspaceID uuid.UUID, ids []uuid.UUID) ([]workflow.Box, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var boxes []workflow.Box
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("workspace_id = ? AND id IN ?", workspaceID, ids).
		Find(&boxes).Error; err != nil {
		return nil, err
	}
	return boxes, nil
}

// FindByNumber finds the box with the operator-assigned number
func (r *GormBoxRepository) FindByNumber(ctx context.Context, workspaceID uuid.UUID, number string) (*workflow.Box, error) {
	var box workflow.Box
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("workspace_id = ? AND number = ?", workspaceID, number).
		First(&box).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &box, nil
}

// FindAllForWorkspace finds all boxes for a workspace, lines included
func (r *GormBoxRepository) FindAllForWorkspace(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]workflow.Box, error) {
	var boxes []workflow.Box
	query := r.db.WithContext(ctx).Model(&workflow.Box{}).
		Preload("Items").
		Where("workspace_id = ?", workspaceID)
	if filter.Search != "" {
		query = query.Where("number LIKE ?", "%"+filter.Search+"%")
	}
	query = applyFilter(query, filter, "created_at ASC")
	if err := query.Find(&boxes).Error; err != nil {
		return nil, err
	}
	return boxes, nil
}

// Save persists a box together with its lines
func (r *GormBoxRepository) Save(ctx context.Context, box *workflow.Box) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(box).Error
}

// Delete removes a box and its lines
func (r *GormBoxRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("box_id = ?", id).Delete(&workflow.BoxItem{}).Error; err != nil {
			return err
		}
		return tx.Where("workspace_id = ? AND id = ?", workspaceID, id).
			Delete(&workflow.Box{}).Error
	})
}

var _ workflow.BoxRepository = (*GormBoxRepository)(nil)
