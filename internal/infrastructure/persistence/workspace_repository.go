package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sewflow/backend/internal/domain/identity"
	"github.com/sewflow/backend/internal/domain/shared"
)

// GormWorkspaceRepository implements identity.WorkspaceRepository using GORM
type GormWorkspaceRepository struct {
	db *gorm.DB
}

// NewGormWorkspaceRepository creates a new GormWorkspaceRepository
func NewGormWorkspaceRepository(db *gorm.DB) *GormWorkspaceRepository {
	return &GormWorkspaceRepository{db: db}
}

// FindByID finds a workspace by its ID
func (r *GormWorkspaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Workspace, error) {
	var workspace identity.Workspace
	if err := r.db.WithContext(ctx).First(&workspace, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &workspace, nil
}

// FindByName finds a workspace by its unique name
func (r *GormWorkspaceRepository) FindByName(ctx context.Context, name string) (*identity.Workspace, error) {
	var workspace identity.Workspace
	if err := r.db.WithContext(ctx).First(&workspace, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &workspace, nil
}

// FindAll returns all workspaces
func (r *GormWorkspaceRepository) FindAll(ctx context.Context) ([]identity.Workspace, error) {
	var workspaces []identity.Workspace
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&workspaces).Error; err != nil {
		return nil, err
	}
	return workspaces, nil
}

// Save persists a workspace
func (r *GormWorkspaceRepository) Save(ctx context.Context, workspace *identity.Workspace) error {
	return r.db.WithContext(ctx).Save(workspace).Error
}

// Delete removes a workspace
func (r *GormWorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&identity.Workspace{}, "id = ?", id).Error
}

var _ identity.WorkspaceRepository = (*GormWorkspaceRepository)(nil)
