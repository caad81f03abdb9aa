package workflow

import "github.com/sewflow/backend/internal/domain/shared"

// Stage is the production lifecycle stage of an apparel unit. Movement is
// one-directional; going back means deleting the row and restoring stock.
type Stage string

const (
	StageOrdered          Stage = "ORDERED"
	StagePrintQueued      Stage = "PRINT_QUEUED"
	StagePrintDone        Stage = "PRINT_DONE"
	StageProductionQueued Stage = "PRODUCTION_QUEUED"
	StageInProduction     Stage = "IN_PRODUCTION"
	StageBoxed            Stage = "BOXED"
	StageDelivered        Stage = "DELIVERED"
	StageArchived         Stage = "ARCHIVED"
)

var stageOrder = map[Stage]int{
	StageOrdered:          0,
	StagePrintQueued:      1,
	StagePrintDone:        2,
	StageProductionQueued: 3,
	StageInProduction:     4,
	StageBoxed:            5,
	StageDelivered:        6,
	StageArchived:         7,
}

// IsValid reports whether the stage is a known lifecycle stage
func (s Stage) IsValid() bool {
	_, ok := stageOrder[s]
	return ok
}

// CanAdvanceTo reports whether moving to the target stage is a forward step
func (s Stage) CanAdvanceTo(target Stage) bool {
	from, ok := stageOrder[s]
	if !ok {
		return false
	}
	to, ok := stageOrder[target]
	if !ok {
		return false
	}
	return to > from
}

// Advance validates a forward transition and returns the target stage
func (s Stage) Advance(target Stage) (Stage, error) {
	if !s.CanAdvanceTo(target) {
		return s, shared.NewDomainError("INVALID_STATE",
			"stage can only move forward: "+string(s)+" -> "+string(target))
	}
	return target, nil
}

// Print statuses carried on order items and print tasks. The values are what
// operators see in the workflow tables.
const (
	PrintStatusInWork = "В РАБОТЕ"
	PrintStatusDone   = "ГОТОВ"
)

// PriorityNormal is the default item priority
const PriorityNormal = "НОРМАЛЬНЫЙ"
