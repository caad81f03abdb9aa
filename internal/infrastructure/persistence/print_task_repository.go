package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/domain/workflow"
)

// GormPrintTaskRepository implements workflow.PrintTaskRepository using GORM
type GormPrintTaskRepository struct {
	db *gorm.DB
}

// NewGormPrintTaskRepository creates a new GormPrintTaskRepository
func NewGormPrintTaskRepository(db *gorm.DB) *GormPrintTaskRepository {
	return &GormPrintTaskRepository{db: db}
}

// FindByID finds a print task by ID within a workspace
func (r *GormPrintTaskRepository) FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*workflow.PrintTask, error) {
	var task workflow.PrintTask
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindByKey finds the queue row for a (product, size, color) combination.
// Size and color compare case-insensitively, matching the merge rule.
func (r *GormPrintTaskRepository) FindByKey(ctx context.Context, workspaceID uuid.UUID, productExternalID int64, techSize, color string) (*workflow.PrintTask, error) {
	var task workflow.PrintTask
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND product_external_id = ? AND LOWER(tech_size) = LOWER(?) AND LOWER(color) = LOWER(?)",
			workspaceID, productExternalID, techSize, color).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindAllForWorkspace returns the whole print queue of a workspace
func (r *GormPrintTaskRepository) FindAllForWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]workflow.PrintTask, error) {
	var tasks []workflow.PrintTask
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Save persists a print task
func (r *GormPrintTaskRepository) Save(ctx context.Context, task *workflow.PrintTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// Delete removes a print task
func (r *GormPrintTaskRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		Delete(&workflow.PrintTask{}).Error
}

// DeleteAllForWorkspace clears the print queue and reports how many rows went
func (r *GormPrintTaskRepository) DeleteAllForWorkspace(ctx context.Context, workspaceID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Delete(&workflow.PrintTask{})
	return res.RowsAffected, res.Error
}

var _ workflow.PrintTaskRepository = (*GormPrintTaskRepository)(nil)
