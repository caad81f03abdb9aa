package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// WorkspaceAggregateRoot extends BaseAggregateRoot with workspace scoping.
// Every record belonging to a seller workspace embeds it.
type WorkspaceAggregateRoot struct {
	BaseAggregateRoot
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// NewWorkspaceAggregateRoot creates a new workspace-scoped aggregate root
func NewWorkspaceAggregateRoot(workspaceID uuid.UUID) WorkspaceAggregateRoot {
	return WorkspaceAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		WorkspaceID:       workspaceID,
	}
}
