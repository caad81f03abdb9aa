package stock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sewflow/backend/internal/domain/shared"
)

// MaterialLedgerRepository defines persistence for the per-workspace supply
// counters. FindOrCreateForWorkspace inside a transaction scope takes a row
// lock so check-and-deduct is atomic.
type MaterialLedgerRepository interface {
	FindForWorkspace(ctx context.Context, workspaceID uuid.UUID) (*MaterialLedger, error)
	FindOrCreateForWorkspace(ctx context.Context, workspaceID uuid.UUID) (*MaterialLedger, error)
	Save(ctx context.Context, ledger *MaterialLedger) error
}

// FinishedGoodsRepository defines persistence for finished-goods stock rows
type FinishedGoodsRepository interface {
	FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*FinishedGood, error)
	FindByNameAndColor(ctx context.Context, workspaceID uuid.UUID, productName, color string) (*FinishedGood, error)
	FindAllForWorkspace(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]FinishedGood, error)
	Save(ctx context.Context, good *FinishedGood) error
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
}

// UsageRepository defines persistence for the production usage ledger
type UsageRepository interface {
	FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*UsageEntry, error)
	FindByKey(ctx context.Context, workspaceID uuid.UUID, day time.Time, brand, productName, color string) (*UsageEntry, error)
	FindByDate(ctx context.Context, workspaceID uuid.UUID, day time.Time) ([]UsageEntry, error)
	FindAllForWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]UsageEntry, error)
	Save(ctx context.Context, entry *UsageEntry) error
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
}
