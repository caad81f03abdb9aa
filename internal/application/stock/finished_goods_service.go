package stock

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/domain/stock"
)

// FinishedGoodsService manages sewn stock rows and their staged defects
type FinishedGoodsService struct {
	goods  stock.FinishedGoodsRepository
	logger *zap.Logger
}

// NewFinishedGoodsService creates a new FinishedGoodsService
func NewFinishedGoodsService(goods stock.FinishedGoodsRepository, logger *zap.Logger) *FinishedGoodsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinishedGoodsService{goods: goods, logger: logger}
}

// Create adds a stock row for a (product name, color) pair
func (s *FinishedGoodsService) Create(ctx context.Context, workspaceID uuid.UUID, req CreateFinishedGoodRequest) (*FinishedGoodResponse, error) {
	name := strings.TrimSpace(req.ProductName)
	color := strings.TrimSpace(req.Color)

	if _, err := s.goods.FindByNameAndColor(ctx, workspaceID, name, color); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Stock row for this product and color already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing stock: %w", err)
	}

	good, err := stock.NewFinishedGood(workspaceID, name, color)
	if err != nil {
		return nil, err
	}
	for size, qty := range req.Stock {
		if err := good.SetStock(strings.ToUpper(size), qty); err != nil {
			return nil, err
		}
	}

	if err := s.goods.Save(ctx, good); err != nil {
		return nil, fmt.Errorf("failed to save stock row: %w", err)
	}

	s.logger.Info("finished goods row created",
		zap.String("product_name", good.ProductName),
		zap.String("color", good.Color))

	return toFinishedGoodResponse(good), nil
}

// List returns the stock rows of a workspace
func (s *FinishedGoodsService) List(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]FinishedGoodResponse, error) {
	goods, err := s.goods.FindAllForWorkspace(ctx, workspaceID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock rows: %w", err)
	}
	out := make([]FinishedGoodResponse, len(goods))
	for i := range goods {
		out[i] = *toFinishedGoodResponse(&goods[i])
	}
	return out, nil
}

// Get returns one stock row
func (s *FinishedGoodsService) Get(ctx context.Context, workspaceID, goodID uuid.UUID) (*FinishedGoodResponse, error) {
	good, err := s.find(ctx, workspaceID, goodID)
	if err != nil {
		return nil, err
	}
	return toFinishedGoodResponse(good), nil
}

// SetStock overwrites the quantity of one size
func (s *FinishedGoodsService) SetStock(ctx context.Context, workspaceID, goodID uuid.UUID, req SetStockRequest) (*FinishedGoodResponse, error) {
	good, err := s.find(ctx, workspaceID, goodID)
	if err != nil {
		return nil, err
	}
	if err := good.SetStock(strings.ToUpper(req.Size), req.Quantity); err != nil {
		return nil, err
	}
	if err := s.goods.Save(ctx, good); err != nil {
		return nil, fmt.Errorf("failed to save stock row: %w", err)
	}
	return toFinishedGoodResponse(good), nil
}

// StageDefect records defective units for one size without touching stock
func (s *FinishedGoodsService) StageDefect(ctx context.Context, workspaceID, goodID uuid.UUID, req StageDefectRequest) (*FinishedGoodResponse, error) {
	good, err := s.find(ctx, workspaceID, goodID)
	if err != nil {
		return nil, err
	}
	if err := good.StageDefect(strings.ToUpper(req.Size), req.Quantity); err != nil {
		return nil, err
	}
	if err := s.goods.Save(ctx, good); err != nil {
		return nil, fmt.Errorf("failed to save stock row: %w", err)
	}
	return toFinishedGoodResponse(good), nil
}

// ApplyDefects deducts every staged defect from stock and clears the staging.
// There is no undo.
func (s *FinishedGoodsService) ApplyDefects(ctx context.Context, workspaceID, goodID uuid.UUID) (*FinishedGoodResponse, error) {
	good, err := s.find(ctx, workspaceID, goodID)
	if err != nil {
		return nil, err
	}
	good.ApplyDefects()
	if err := s.goods.Save(ctx, good); err != nil {
		return nil, fmt.Errorf("failed to save stock row: %w", err)
	}

	s.logger.Info("defects applied",
		zap.String("product_name", good.ProductName),
		zap.String("color", good.Color))

	return toFinishedGoodResponse(good), nil
}

// Delete removes a stock row
func (s *FinishedGoodsService) Delete(ctx context.Context, workspaceID, goodID uuid.UUID) error {
	if _, err := s.find(ctx, workspaceID, goodID); err != nil {
		return err
	}
	return s.goods.Delete(ctx, workspaceID, goodID)
}

func (s *FinishedGoodsService) find(ctx context.Context, workspaceID, goodID uuid.UUID) (*stock.FinishedGood, error) {
	good, err := s.goods.FindByID(ctx, workspaceID, goodID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Stock row not found")
		}
		return nil, fmt.Errorf("failed to load stock row: %w", err)
	}
	return good, nil
}
