package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sewflow/backend/internal/domain/catalog"
	"github.com/sewflow/backend/internal/domain/identity"
	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/domain/workflow"
	"github.com/sewflow/backend/internal/infrastructure/marketplace"
	"github.com/sewflow/backend/internal/infrastructure/secrets"
)

// finishedGoodsPageSize bounds the stock scan during boxing
const finishedGoodsPageSize = 1000

// BoxService packs in-production batches into boxes. Barcodes come from the
// local catalog with a live marketplace fallback, finished-goods stock is
// deducted best-effort, and bags plus boxes are deducted all-or-nothing.
type BoxService struct {
	scope      TransactionScope
	boxes      workflow.BoxRepository
	production workflow.ProductionRepository
	products   catalog.ProductRepository
	workspaces identity.WorkspaceRepository
	market     marketplace.Client
	sealer     *secrets.Sealer
	logger     *zap.Logger
}

// NewBoxService creates a new BoxService. Market and sealer may be nil, which
// disables the live barcode fallback.
func NewBoxService(
	scope TransactionScope,
	boxes workflow.BoxRepository,
	production workflow.ProductionRepository,
	products catalog.ProductRepository,
	workspaces identity.WorkspaceRepository,
	market marketplace.Client,
	sealer *secrets.Sealer,
	logger *zap.Logger,
) *BoxService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoxService{
		scope:      scope,
		boxes:      boxes,
		production: production,
		products:   products,
		workspaces: workspaces,
		market:     market,
		sealer:     sealer,
		logger:     logger,
	}
}

// ListBoxes returns the packed boxes of a workspace
func (s *BoxService) ListBoxes(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]BoxResponse, error) {
	boxes, err := s.boxes.FindAllForWorkspace(ctx, workspaceID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list boxes: %w", err)
	}
	out := make([]BoxResponse, len(boxes))
	for i := range boxes {
		out[i] = *toBoxResponse(&boxes[i])
	}
	return out, nil
}

// GetBox returns one box with its lines
func (s *BoxService) GetBox(ctx context.Context, workspaceID, boxID uuid.UUID) (*BoxResponse, error) {
	box, err := s.boxes.FindByID(ctx, workspaceID, boxID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Box not found")
		}
		return nil, fmt.Errorf("failed to load box: %w", err)
	}
	return toBoxResponse(box), nil
}

// MoveToBoxes packs batches into the boxes their numbers point at. Existing
// box rows with a matching number are reused, identical (product, size) lines
// merge, finished-goods stock is reduced best-effort, and the material ledger
// gives up one bag per unit plus one box per newly created box row; a bag or
// box shortfall fails the whole move.
func (s *BoxService) MoveToBoxes(ctx context.Context, workspaceID uuid.UUID, req MoveToBoxesRequest) (*MoveToBoxesResponse, error) {
	items, err := s.production.FindByIDs(ctx, workspaceID, req.ItemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load production items: %w", err)
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NOT_FOUND", "Production items not found")
	}

	verrs := &shared.ValidationErrors{}
	for i := range items {
		if !items[i].HasBox() {
			verrs.Add("%s (%s): no box number assigned", items[i].Title, items[i].TechSize)
		}
	}
	if verrs.HasErrors() {
		return nil, verrs
	}

	productByExt, barcodeFor := s.resolveBarcodes(ctx, workspaceID, items)

	resp := &MoveToBoxesResponse{}
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		groups, numbers := groupByBoxNumber(items)
		totalUnits := 0
		newBoxes := 0

		for _, number := range numbers {
			box, err := repos.Boxes().FindByNumber(ctx, workspaceID, number)
			created := false
			if errors.Is(err, shared.ErrNotFound) {
				box, err = workflow.NewBox(workspaceID, number)
				if err != nil {
					return err
				}
				newBoxes++
				created = true
			} else if err != nil {
				return fmt.Errorf("failed to load box: %w", err)
			} else {
				resp.BoxesReused++
			}

			for _, item := range groups[number] {
				barcode := barcodeFor(item.ProductExternalID, item.TechSize)
				if err := box.MergeItem(item.ProductExternalID, item.TechSize, barcode, item.Quantity); err != nil {
					return err
				}
				totalUnits += item.Quantity

				s.deductFinishedGoods(ctx, repos, workspaceID, productByExt[item.ProductExternalID], item)

				if err := repos.Production().Delete(ctx, workspaceID, item.ID); err != nil {
					return fmt.Errorf("failed to delete production item: %w", err)
				}
			}

			if err := repos.Boxes().Save(ctx, box); err != nil {
				return fmt.Errorf("failed to save box: %w", err)
			}
			if created {
				s.recordBoxUsage(ctx, repos, workspaceID, groups[number][0])
			}
		}

		ledger, err := repos.MaterialLedgers().FindOrCreateForWorkspace(ctx, workspaceID)
		if err != nil {
			return fmt.Errorf("failed to load material ledger: %w", err)
		}
		if err := ledger.DeductPacking(totalUnits, newBoxes); err != nil {
			return err
		}
		if err := repos.MaterialLedgers().Save(ctx, ledger); err != nil {
			return fmt.Errorf("failed to save material ledger: %w", err)
		}

		resp.BoxesCreated = newBoxes
		resp.MovedUnits = totalUnits
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("production items boxed",
		zap.Int("boxes_created", resp.BoxesCreated),
		zap.Int("boxes_reused", resp.BoxesReused),
		zap.Int("units", resp.MovedUnits))

	return resp, nil
}

// resolveBarcodes maps every moved (product, size) pair to a barcode using
// the local catalog first and a live marketplace batch lookup for products
// the catalog cannot answer. The fallback is best-effort: network trouble
// leaves barcodes empty rather than failing the move.
func (s *BoxService) resolveBarcodes(ctx context.Context, workspaceID uuid.UUID, items []workflow.ProductionItem) (map[int64]*catalog.Product, func(int64, string) string) {
	extIDs := make([]int64, 0, len(items))
	seen := make(map[int64]struct{})
	for i := range items {
		if _, ok := seen[items[i].ProductExternalID]; !ok {
			seen[items[i].ProductExternalID] = struct{}{}
			extIDs = append(extIDs, items[i].ProductExternalID)
		}
	}

	productByExt := make(map[int64]*catalog.Product)
	products, err := s.products.FindByExternalIDs(ctx, workspaceID, extIDs)
	if err != nil {
		s.logger.Warn("catalog lookup failed during boxing", zap.Error(err))
	}
	for i := range products {
		productByExt[products[i].ExternalID] = &products[i]
	}

	var missing []int64
	for i := range items {
		p := productByExt[items[i].ProductExternalID]
		if p == nil || p.BarcodeForSize(items[i].TechSize) == "" {
			missing = append(missing, items[i].ProductExternalID)
		}
	}

	cards := s.fetchCards(ctx, workspaceID, missing)

	barcodeFor := func(externalID int64, size string) string {
		if p := productByExt[externalID]; p != nil {
			if code := p.BarcodeForSize(size); code != "" {
				return code
			}
		}
		card := cards[externalID]
		if card == nil {
			return ""
		}
		for _, v := range card.Sizes {
			if strings.EqualFold(v.TechSize, size) && len(v.Skus) > 0 {
				return v.Skus[0]
			}
		}
		return ""
	}
	return productByExt, barcodeFor
}

// fetchCards pulls marketplace cards for products the catalog has no barcode
// for, when the workspace carries an API token.
func (s *BoxService) fetchCards(ctx context.Context, workspaceID uuid.UUID, externalIDs []int64) map[int64]*marketplace.ProductCard {
	if len(externalIDs) == 0 || s.market == nil || s.sealer == nil {
		return nil
	}
	workspace, err := s.workspaces.FindByID(ctx, workspaceID)
	if err != nil || !workspace.HasToken() {
		return nil
	}
	token, err := s.sealer.Open(workspace.EncryptedToken)
	if err != nil {
		s.logger.Warn("marketplace token unseal failed", zap.Error(err))
		return nil
	}
	cards, err := s.market.ProductCardsByExternalIDs(ctx, token, externalIDs)
	if err != nil {
		s.logger.Warn("marketplace barcode fallback failed", zap.Error(err))
		return nil
	}
	return cards
}

// recordBoxUsage books one new box on the day's usage row for the line it
// was opened for. Reporting data, logged but never fatal to the move.
func (s *BoxService) recordBoxUsage(ctx context.Context, repos TransactionalRepositories, workspaceID uuid.UUID, item *workflow.ProductionItem) {
	entry, err := loadUsageEntry(ctx, repos, workspaceID, item.Brand, item.Title, item.Color)
	if err != nil {
		s.logger.Warn("usage ledger lookup failed", zap.Error(err))
		return
	}
	entry.AddBoxes(1)
	if err := repos.Usage().Save(ctx, entry); err != nil {
		s.logger.Warn("usage ledger save failed", zap.Error(err))
	}
}

// deductFinishedGoods reduces the sewn stock a boxed batch came from. Stock
// rows are matched by category keyword and color; a miss or shortfall only
// logs a warning since stock rows are maintained by hand.
func (s *BoxService) deductFinishedGoods(ctx context.Context, repos TransactionalRepositories, workspaceID uuid.UUID, product *catalog.Product, item *workflow.ProductionItem) {
	if product == nil || item.Color == "" {
		return
	}
	keyword := product.CategoryKeyword()
	if keyword == "" {
		return
	}

	goods, err := repos.FinishedGoods().FindAllForWorkspace(ctx, workspaceID, shared.Filter{Page: 1, PageSize: finishedGoodsPageSize})
	if err != nil {
		s.logger.Warn("finished goods lookup failed", zap.Error(err))
		return
	}
	for i := range goods {
		good := &goods[i]
		if !good.MatchesProduct(keyword, item.Color) {
			continue
		}
		if !good.DeductStock(item.TechSize, item.Quantity) {
			s.logger.Warn("finished goods shortfall",
				zap.String("product_name", good.ProductName),
				zap.String("size", item.TechSize),
				zap.Int("quantity", item.Quantity))
			return
		}
		if err := repos.FinishedGoods().Save(ctx, good); err != nil {
			s.logger.Warn("finished goods save failed", zap.Error(err))
		}
		return
	}
	s.logger.Warn("no finished goods row matches boxed item",
		zap.String("category", keyword),
		zap.String("color", item.Color))
}

// UpdateBox patches a box
func (s *BoxService) UpdateBox(ctx context.Context, workspaceID, boxID uuid.UUID, req UpdateBoxRequest) (*BoxResponse, error) {
	box, err := s.boxes.FindByID(ctx, workspaceID, boxID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Box not found")
		}
		return nil, fmt.Errorf("failed to load box: %w", err)
	}
	if req.ExternalBoxID != nil {
		box.ExternalBoxID = strings.TrimSpace(*req.ExternalBoxID)
	}
	if req.Selected != nil {
		box.Selected = *req.Selected
	}
	box.IncrementVersion()
	if err := s.boxes.Save(ctx, box); err != nil {
		return nil, fmt.Errorf("failed to save box: %w", err)
	}
	return toBoxResponse(box), nil
}

// SetDeliveryInfo stamps the delivery date, number and warehouse onto a set
// of boxes in one transaction.
func (s *BoxService) SetDeliveryInfo(ctx context.Context, workspaceID uuid.UUID, req SetDeliveryInfoRequest) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		boxes, err := repos.Boxes().FindByIDs(ctx, workspaceID, req.BoxIDs)
		if err != nil {
			return fmt.Errorf("failed to load boxes: %w", err)
		}
		if len(boxes) == 0 {
			return shared.NewDomainError("NOT_FOUND", "Boxes not found")
		}
		for i := range boxes {
			boxes[i].SetDeliveryInfo(req.DeliveryDate, req.DeliveryNumber, req.Warehouse)
			if err := repos.Boxes().Save(ctx, &boxes[i]); err != nil {
				return fmt.Errorf("failed to save box: %w", err)
			}
		}
		return nil
	})
}

// DeleteBox removes a box and returns its packing to the material ledger:
// one bag per unit and the box itself.
func (s *BoxService) DeleteBox(ctx context.Context, workspaceID, boxID uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		box, err := repos.Boxes().FindByID(ctx, workspaceID, boxID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("NOT_FOUND", "Box not found")
			}
			return fmt.Errorf("failed to load box: %w", err)
		}

		ledger, err := repos.MaterialLedgers().FindOrCreateForWorkspace(ctx, workspaceID)
		if err != nil {
			return fmt.Errorf("failed to load material ledger: %w", err)
		}
		ledger.RestorePacking(box.TotalQuantity(), 1)
		if err := repos.MaterialLedgers().Save(ctx, ledger); err != nil {
			return fmt.Errorf("failed to save material ledger: %w", err)
		}

		return repos.Boxes().Delete(ctx, workspaceID, box.ID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("box deleted", zap.String("box_id", boxID.String()))
	return nil
}

// groupByBoxNumber buckets batches by their assigned box number, preserving
// first-seen order of the numbers.
func groupByBoxNumber(items []workflow.ProductionItem) (map[string][]*workflow.ProductionItem, []string) {
	groups := make(map[string][]*workflow.ProductionItem)
	var numbers []string
	for i := range items {
		number := items[i].BoxNumber
		if _, ok := groups[number]; !ok {
			numbers = append(numbers, number)
		}
		groups[number] = append(groups[number], &items[i])
	}
	return groups, numbers
}
