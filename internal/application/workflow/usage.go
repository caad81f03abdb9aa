package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/domain/stock"
)

// loadUsageEntry returns today's usage ledger row for a product key, fresh
// when no row exists yet. The key is normalized so lookups and new rows
// always agree on the fallback labels.
func loadUsageEntry(ctx context.Context, repos TransactionalRepositories, workspaceID uuid.UUID, brand, name, color string) (*stock.UsageEntry, error) {
	day := time.Now()
	brand, name, color = stock.NormalizeUsageKey(brand, name, color)
	entry, err := repos.Usage().FindByKey(ctx, workspaceID, day, brand, name, color)
	if errors.Is(err, shared.ErrNotFound) {
		return stock.NewUsageEntry(workspaceID, day, brand, name, color), nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}
