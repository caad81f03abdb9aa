package stock

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/domain/stock"
)

// UsageService reads the production usage ledger the workflow moves append to
type UsageService struct {
	usage  stock.UsageRepository
	logger *zap.Logger
}

// NewUsageService creates a new UsageService
func NewUsageService(usage stock.UsageRepository, logger *zap.Logger) *UsageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsageService{usage: usage, logger: logger}
}

// ListByDay returns the ledger grouped by production day, newest day first,
// with per-day totals.
func (s *UsageService) ListByDay(ctx context.Context, workspaceID uuid.UUID) ([]UsageDayResponse, error) {
	entries, err := s.usage.FindAllForWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage entries: %w", err)
	}

	var days []UsageDayResponse
	index := make(map[int64]int)
	for i := range entries {
		e := &entries[i]
		key := e.Date.Unix()
		idx, ok := index[key]
		if !ok {
			idx = len(days)
			index[key] = idx
			days = append(days, UsageDayResponse{Date: e.Date, TotalFilm: decimal.Zero})
		}
		day := &days[idx]
		day.Entries = append(day.Entries, toUsageEntryResponse(e))
		day.TotalQuantity += e.TotalQuantity()
		day.TotalBags += e.BagsUsed
		day.TotalBoxes += e.BoxesUsed
		day.TotalFilm = day.TotalFilm.Add(e.FilmUsed)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date.After(days[j].Date) })
	return days, nil
}

// Summary aggregates the whole ledger of a workspace
func (s *UsageService) Summary(ctx context.Context, workspaceID uuid.UUID) (*UsageSummaryResponse, error) {
	entries, err := s.usage.FindAllForWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage entries: %w", err)
	}

	summary := &UsageSummaryResponse{TotalFilm: decimal.Zero}
	seenDays := make(map[int64]struct{})
	for i := range entries {
		e := &entries[i]
		seenDays[e.Date.Unix()] = struct{}{}
		summary.TotalQuantity += e.TotalQuantity()
		summary.TotalBags += e.BagsUsed
		summary.TotalBoxes += e.BoxesUsed
		summary.TotalFilm = summary.TotalFilm.Add(e.FilmUsed)
	}
	summary.Days = len(seenDays)
	return summary, nil
}

// DeleteEntry removes one ledger row
func (s *UsageService) DeleteEntry(ctx context.Context, workspaceID, entryID uuid.UUID) error {
	if _, err := s.usage.FindByID(ctx, workspaceID, entryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Usage entry not found")
		}
		return fmt.Errorf("failed to load usage entry: %w", err)
	}
	return s.usage.Delete(ctx, workspaceID, entryID)
}
