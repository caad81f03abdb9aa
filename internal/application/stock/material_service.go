// Package stock implements material supplies, finished-goods stock and the
// production usage ledger.
package stock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/domain/stock"
)

// MaterialService reads and edits the per-workspace supply counters. The
// workflow moves deduct from these counters themselves; this service is the
// manual receiving side.
type MaterialService struct {
	ledgers stock.MaterialLedgerRepository
	logger  *zap.Logger
}

// NewMaterialService creates a new MaterialService
func NewMaterialService(ledgers stock.MaterialLedgerRepository, logger *zap.Logger) *MaterialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaterialService{ledgers: ledgers, logger: logger}
}

// GetLedger returns the supply counters, creating a zeroed ledger on first use
func (s *MaterialService) GetLedger(ctx context.Context, workspaceID uuid.UUID) (*MaterialLedgerResponse, error) {
	ledger, err := s.ledgers.FindOrCreateForWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load material ledger: %w", err)
	}
	return toMaterialLedgerResponse(ledger), nil
}

// UpdateLedger overwrites the counters present in the request. Counters are
// absolute values entered after a physical count, so they replace rather than
// add.
func (s *MaterialService) UpdateLedger(ctx context.Context, workspaceID uuid.UUID, req UpdateMaterialsRequest) (*MaterialLedgerResponse, error) {
	ledger, err := s.ledgers.FindOrCreateForWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load material ledger: %w", err)
	}

	counters := []struct {
		value *int
		dst   *int
	}{
		{req.Boxes, &ledger.Boxes},
		{req.Bags, &ledger.Bags},
		{req.PaintWhite, &ledger.PaintWhite},
		{req.PaintBlack, &ledger.PaintBlack},
		{req.PaintRed, &ledger.PaintRed},
		{req.PaintYellow, &ledger.PaintYellow},
		{req.PaintBlue, &ledger.PaintBlue},
		{req.Glue, &ledger.Glue},
		{req.LabelRolls, &ledger.LabelRolls},
	}
	for _, c := range counters {
		if c.value == nil {
			continue
		}
		if *c.value < 0 {
			return nil, shared.NewDomainError("INVALID_INPUT", "material counters must be non-negative")
		}
		*c.dst = *c.value
	}
	if req.FilmMeters != nil {
		if req.FilmMeters.IsNegative() {
			return nil, shared.NewDomainError("INVALID_INPUT", "material counters must be non-negative")
		}
		ledger.FilmMeters = *req.FilmMeters
	}
	ledger.IncrementVersion()

	if err := s.ledgers.Save(ctx, ledger); err != nil {
		return nil, fmt.Errorf("failed to save material ledger: %w", err)
	}

	s.logger.Info("material ledger updated", zap.String("workspace_id", workspaceID.String()))
	return toMaterialLedgerResponse(ledger), nil
}
