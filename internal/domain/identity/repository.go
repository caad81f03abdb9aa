package identity

import (
	"context"

	"github.com/google/uuid"
)

// WorkspaceRepository defines persistence for workspaces
type WorkspaceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Workspace, error)
	FindByName(ctx context.Context, name string) (*Workspace, error)
	FindAll(ctx context.Context) ([]Workspace, error)
	Save(ctx context.Context, workspace *Workspace) error
	Delete(ctx context.Context, id uuid.UUID) error
}
