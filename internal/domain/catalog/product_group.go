package catalog

import (
	"github.com/google/uuid"

	"github.com/sewflow/backend/internal/domain/shared"
)

// ProductGroup bundles marketplace cards that share one imt group. Label
// source documents are uploaded against a group member product.
type ProductGroup struct {
	shared.WorkspaceAggregateRoot
	ExternalID int64  `gorm:"not null;index:idx_group_ws_ext"`
	Title      string `gorm:"size:500"`
}

// TableName specifies the table name for GORM
func (ProductGroup) TableName() string {
	return "product_groups"
}

// NewProductGroup creates a group synced from the marketplace
func NewProductGroup(workspaceID uuid.UUID, externalID int64, title string) (*ProductGroup, error) {
	if externalID == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "external group ID is required")
	}
	return &ProductGroup{
		WorkspaceAggregateRoot: shared.NewWorkspaceAggregateRoot(workspaceID),
		ExternalID:             externalID,
		Title:                  title,
	}, nil
}
