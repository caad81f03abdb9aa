// Package catalog syncs marketplace product cards into the local catalog
// and serves product listings off it.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sewflow/backend/internal/domain/catalog"
	"github.com/sewflow/backend/internal/domain/identity"
	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/infrastructure/marketplace"
	"github.com/sewflow/backend/internal/infrastructure/secrets"
)

// Service handles catalog sync and product listings
type Service struct {
	workspaces identity.WorkspaceRepository
	products   catalog.ProductRepository
	groups     catalog.ProductGroupRepository
	market     marketplace.Client
	sealer     *secrets.Sealer
	logger     *zap.Logger
}

// NewService creates a new catalog Service
func NewService(
	workspaces identity.WorkspaceRepository,
	products catalog.ProductRepository,
	groups catalog.ProductGroupRepository,
	market marketplace.Client,
	sealer *secrets.Sealer,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		workspaces: workspaces,
		products:   products,
		groups:     groups,
		market:     market,
		sealer:     sealer,
		logger:     logger,
	}
}

// Sync pulls every product card of the workspace's marketplace account and
// upserts it into the local catalog. Existing rows keep their IDs so order
// lines and label sources stay attached across syncs.
func (s *Service) Sync(ctx context.Context, workspaceID uuid.UUID) (*SyncResponse, error) {
	workspace, err := s.workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	if !workspace.HasToken() {
		return nil, shared.NewDomainError("TOKEN_REQUIRED", "Marketplace API token is not configured")
	}
	token, err := s.sealer.Open(workspace.EncryptedToken)
	if err != nil {
		return nil, fmt.Errorf("failed to unseal marketplace token: %w", err)
	}

	cards, pages, err := s.market.FetchAllCards(ctx, token)
	if err != nil {
		return nil, err
	}

	resp := &SyncResponse{Pages: pages}
	groupIDs := make(map[int64]uuid.UUID)
	for i := range cards {
		card := &cards[i]

		var groupID *uuid.UUID
		if card.IMTID != 0 {
			id, ok := groupIDs[card.IMTID]
			if !ok {
				var err error
				if id, err = s.upsertGroup(ctx, workspaceID, card); err != nil {
					return nil, err
				}
				groupIDs[card.IMTID] = id
				resp.Groups++
			}
			groupID = &id
		}

		if err := s.upsertProduct(ctx, workspaceID, groupID, card); err != nil {
			return nil, err
		}
		resp.Products++
	}

	s.logger.Info("catalog synced",
		zap.String("workspace_id", workspaceID.String()),
		zap.Int("products", resp.Products),
		zap.Int("groups", resp.Groups),
		zap.Int("pages", resp.Pages))

	return resp, nil
}

func (s *Service) upsertGroup(ctx context.Context, workspaceID uuid.UUID, card *marketplace.ProductCard) (uuid.UUID, error) {
	group, err := catalog.NewProductGroup(workspaceID, card.IMTID, card.Title)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.groups.Upsert(ctx, group); err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert product group: %w", err)
	}
	return group.ID, nil
}

func (s *Service) upsertProduct(ctx context.Context, workspaceID uuid.UUID, groupID *uuid.UUID, card *marketplace.ProductCard) error {
	product, err := catalog.NewProduct(workspaceID, card.NmID, card.Title)
	if err != nil {
		return err
	}
	product.GroupID = groupID
	product.Brand = card.Brand
	product.VendorCode = card.VendorCode
	product.Category = card.SubjectName
	product.PhotoURL = card.FirstPhotoURL()

	product.Sizes = make([]catalog.SizeVariant, 0, len(card.Sizes))
	for _, size := range card.Sizes {
		product.Sizes = append(product.Sizes, catalog.SizeVariant{
			TechSize: size.TechSize,
			Barcodes: size.Skus,
		})
	}

	product.Characteristics = make([]catalog.Characteristic, 0, len(card.Characteristics))
	for _, c := range card.Characteristics {
		if value := c.ValueString(); value != "" {
			product.Characteristics = append(product.Characteristics, catalog.Characteristic{
				Name:  c.Name,
				Value: value,
			})
		}
	}

	if err := s.products.Upsert(ctx, product); err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}
	return nil
}

// ListProducts returns a paginated product listing with the total row count
func (s *Service) ListProducts(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) (*ProductListResponse, error) {
	products, err := s.products.FindAllForWorkspace(ctx, workspaceID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	total, err := s.products.CountForWorkspace(ctx, workspaceID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	resp := &ProductListResponse{Total: total, Products: make([]ProductResponse, len(products))}
	for i := range products {
		resp.Products[i] = toProductResponse(&products[i])
	}
	return resp, nil
}

// GetProduct returns one product card
func (s *Service) GetProduct(ctx context.Context, workspaceID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, workspaceID, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	resp := toProductResponse(product)
	return &resp, nil
}

// ListGroups returns the product groups of a workspace
func (s *Service) ListGroups(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]ProductGroupResponse, error) {
	groups, err := s.groups.FindAllForWorkspace(ctx, workspaceID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list product groups: %w", err)
	}
	out := make([]ProductGroupResponse, len(groups))
	for i := range groups {
		out[i] = toProductGroupResponse(&groups[i])
	}
	return out, nil
}
