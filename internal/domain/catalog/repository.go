package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/sewflow/backend/internal/domain/shared"
)

// ProductRepository defines persistence for synced product cards
type ProductRepository interface {
	FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*Product, error)
	FindByExternalID(ctx context.Context, workspaceID uuid.UUID, externalID int64) (*Product, error)
	FindByExternalIDs(ctx context.Context, workspaceID uuid.UUID, externalIDs []int64) ([]Product, error)
	FindAllForWorkspace(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]Product, error)
	CountForWorkspace(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error
	// Upsert inserts or overwrites by (workspace, external ID), keeping row IDs stable
	Upsert(ctx context.Context, product *Product) error
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
}

// ProductGroupRepository defines persistence for product groups
type ProductGroupRepository interface {
	FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*ProductGroup, error)
	FindByExternalID(ctx context.Context, workspaceID uuid.UUID, externalID int64) (*ProductGroup, error)
	FindAllForWorkspace(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]ProductGroup, error)
	Upsert(ctx context.Context, group *ProductGroup) error
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
}
