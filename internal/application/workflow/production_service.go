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
	"github.com/sewflow/backend/internal/domain/labeling"
	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/domain/workflow"
	"github.com/sewflow/backend/internal/infrastructure/storage"
)

// LabelComposer renders label pages for a production move
type LabelComposer interface {
	Compose(pages []labeling.SourcePage, meta labeling.Metadata, settings labeling.Settings) ([]byte, error)
}

// ProductionService moves printed order lines onto the sewing floor. The
// move generates the label artifacts, consumes label source pages, records
// usage and deducts packing bags, all in one transaction.
type ProductionService struct {
	scope      TransactionScope
	orders     workflow.OrderRepository
	production workflow.ProductionRepository
	products   catalog.ProductRepository
	docs       labeling.SourceDocumentRepository
	workspaces identity.WorkspaceRepository
	composer   LabelComposer
	store      storage.ArtifactStore
	logger     *zap.Logger
}

// NewProductionService creates a new ProductionService
func NewProductionService(
	scope TransactionScope,
	orders workflow.OrderRepository,
	production workflow.ProductionRepository,
	products catalog.ProductRepository,
	docs labeling.SourceDocumentRepository,
	workspaces identity.WorkspaceRepository,
	composer LabelComposer,
	store storage.ArtifactStore,
	logger *zap.Logger,
) *ProductionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductionService{
		scope:      scope,
		orders:     orders,
		production: production,
		products:   products,
		docs:       docs,
		workspaces: workspaces,
		composer:   composer,
		store:      store,
		logger:     logger,
	}
}

// ListProduction returns the in-production batches of a workspace
func (s *ProductionService) ListProduction(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]ProductionItemResponse, error) {
	items, err := s.production.FindAllForWorkspace(ctx, workspaceID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list production items: %w", err)
	}
	out := make([]ProductionItemResponse, len(items))
	for i := range items {
		out[i] = *toProductionItemResponse(&items[i])
	}
	return out, nil
}

// productionGroup is one (product, size) batch of a move, with the catalog
// and label source rows Phase 1 resolved for it.
type productionGroup struct {
	externalID int64
	techSize   string
	items      []*workflow.OrderItem
	quantity   int

	product *catalog.Product
	doc     *labeling.SourceDocument
}

// MoveToProduction runs the print-done to in-production transition in two
// phases. Phase 1 validates every (product, size) group: the card must be in
// the catalog, carry a barcode for the size, have a label source with enough
// pages left. Any failure aborts the whole move with the full list of
// problems. Phase 2 generates labels per group, consumes the used source
// pages, creates the in-production rows, deletes the originating order lines,
// bumps the usage ledger and finally deducts one packing bag per unit. A
// failure anywhere in phase 2 rolls everything back, including label
// artifacts already written.
func (s *ProductionService) MoveToProduction(ctx context.Context, workspaceID uuid.UUID, req MoveToProductionRequest) (*MoveToProductionResponse, error) {
	workspace, err := s.workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}

	order, err := s.orders.FindByID(ctx, workspaceID, req.OrderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Order not found")
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	items := selectOrderItems(order, req.ItemIDs)
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "no order items to move")
	}

	var notPrinted []string
	for _, item := range items {
		if !item.IsPrintDone() {
			notPrinted = append(notPrinted, itemDisplayName(item))
		}
	}
	if len(notPrinted) > 0 {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("items must be printed before moving to production: %s", summarizeNames(notPrinted)))
	}

	groups := groupForProduction(items)

	verrs := &shared.ValidationErrors{}
	for _, g := range groups {
		label := fmt.Sprintf("%d / %s", g.externalID, g.techSize)

		product, err := s.products.FindByExternalID(ctx, workspaceID, g.externalID)
		if errors.Is(err, shared.ErrNotFound) {
			verrs.Add("%s: product is missing from the catalog", label)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load product: %w", err)
		}
		g.product = product

		if product.BarcodeForSize(g.techSize) == "" {
			verrs.Add("%s: no barcode registered for this size", label)
		}

		doc, err := s.docs.FindByProductAndSize(ctx, workspaceID, product.ID, g.techSize)
		if errors.Is(err, shared.ErrNotFound) {
			verrs.Add("%s: no label source uploaded", label)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load label source: %w", err)
		}
		g.doc = doc

		if doc.PageCount < g.quantity {
			verrs.Add("%s: %d label pages left, %d needed", label, doc.PageCount, g.quantity)
		}
	}
	if verrs.HasErrors() {
		return nil, verrs
	}

	resp := &MoveToProductionResponse{}
	var writtenKeys []string
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		totalUnits := 0
		for _, g := range groups {
			pages, err := repos.LabelSources().TailPages(ctx, g.doc.ID, g.quantity)
			if err != nil {
				return fmt.Errorf("failed to load label pages: %w", err)
			}

			meta := g.product.MetadataForLabels(g.techSize)
			data, err := s.composer.Compose(pages, meta, workspace.LabelSettings())
			if err != nil {
				return err
			}

			key := fmt.Sprintf("labels/%s.pdf", uuid.New())
			path, err := s.store.Write(ctx, key, data)
			if err != nil {
				return fmt.Errorf("failed to store label artifact: %w", err)
			}
			writtenKeys = append(writtenKeys, key)
			resp.LabelArtifacts = append(resp.LabelArtifacts, path)

			if err := repos.LabelSources().ConsumeTail(ctx, g.doc, g.quantity); err != nil {
				return err
			}

			for _, item := range g.items {
				prod, err := workflow.NewProductionItemFromOrderItem(workspaceID, item, path)
				if err != nil {
					return err
				}
				if err := repos.Production().Save(ctx, prod); err != nil {
					return fmt.Errorf("failed to save production item: %w", err)
				}
				if err := repos.Orders().DeleteItem(ctx, workspaceID, item.ID); err != nil {
					return fmt.Errorf("failed to delete order item: %w", err)
				}

				s.recordUsage(ctx, repos, workspaceID, item)

				resp.MovedItems++
				resp.MovedUnits += item.Quantity
				totalUnits += item.Quantity
			}
		}

		ledger, err := repos.MaterialLedgers().FindOrCreateForWorkspace(ctx, workspaceID)
		if err != nil {
			return fmt.Errorf("failed to load material ledger: %w", err)
		}
		if err := ledger.DeductBags(totalUnits); err != nil {
			return err
		}
		return repos.MaterialLedgers().Save(ctx, ledger)
	})
	if err != nil {
		s.discardArtifacts(ctx, writtenKeys)
		return nil, err
	}

	s.logger.Info("order items moved to production",
		zap.String("order_id", order.ID.String()),
		zap.Int("items", resp.MovedItems),
		zap.Int("units", resp.MovedUnits),
		zap.Int("label_artifacts", len(resp.LabelArtifacts)))

	return resp, nil
}

// recordUsage upserts the per-day usage ledger row for one moved line. The
// ledger is reporting data, so a failure here is logged but never aborts the
// move.
func (s *ProductionService) recordUsage(ctx context.Context, repos TransactionalRepositories, workspaceID uuid.UUID, item *workflow.OrderItem) {
	entry, err := loadUsageEntry(ctx, repos, workspaceID, item.Brand, item.Title, item.Color)
	if err != nil {
		s.logger.Warn("usage ledger lookup failed", zap.Error(err))
		return
	}
	entry.AddUnits(item.TechSize, item.Quantity)
	entry.AddBags(item.Quantity)
	if err := repos.Usage().Save(ctx, entry); err != nil {
		s.logger.Warn("usage ledger save failed", zap.Error(err))
	}
}

// discardArtifacts deletes label files written before a rolled-back move
func (s *ProductionService) discardArtifacts(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn("orphaned label artifact", zap.String("key", key), zap.Error(err))
		}
	}
}

// AssignBox routes a batch to a box number ahead of the boxing move
func (s *ProductionService) AssignBox(ctx context.Context, workspaceID, itemID uuid.UUID, boxNumber string) (*ProductionItemResponse, error) {
	item, err := s.production.FindByID(ctx, workspaceID, itemID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Production item not found")
		}
		return nil, fmt.Errorf("failed to load production item: %w", err)
	}
	item.AssignBox(strings.TrimSpace(boxNumber))
	if err := s.production.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save production item: %w", err)
	}
	return toProductionItemResponse(item), nil
}

// SetSelected toggles the selection flag on a batch
func (s *ProductionService) SetSelected(ctx context.Context, workspaceID, itemID uuid.UUID, selected bool) (*ProductionItemResponse, error) {
	item, err := s.production.FindByID(ctx, workspaceID, itemID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Production item not found")
		}
		return nil, fmt.Errorf("failed to load production item: %w", err)
	}
	item.Selected = selected
	item.IncrementVersion()
	if err := s.production.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save production item: %w", err)
	}
	return toProductionItemResponse(item), nil
}

// DeleteItem removes a batch from the floor without restoring anything
func (s *ProductionService) DeleteItem(ctx context.Context, workspaceID, itemID uuid.UUID) error {
	if _, err := s.production.FindByID(ctx, workspaceID, itemID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Production item not found")
		}
		return fmt.Errorf("failed to load production item: %w", err)
	}
	return s.production.Delete(ctx, workspaceID, itemID)
}

// groupForProduction buckets order lines by (product, size), ignoring size
// case, preserving first-seen order.
func groupForProduction(items []*workflow.OrderItem) []*productionGroup {
	var groups []*productionGroup
	index := make(map[string]*productionGroup)
	for _, item := range items {
		key := fmt.Sprintf("%d|%s", item.ProductExternalID, strings.ToLower(item.TechSize))
		g, ok := index[key]
		if !ok {
			g = &productionGroup{externalID: item.ProductExternalID, techSize: item.TechSize}
			index[key] = g
			groups = append(groups, g)
		}
		g.items = append(g.items, item)
		g.quantity += item.Quantity
	}
	return groups
}
