package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sewflow/backend/internal/domain/catalog"
	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/domain/workflow"
)

// OrderService handles order and order line operations
type OrderService struct {
	orders   workflow.OrderRepository
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orders workflow.OrderRepository, products catalog.ProductRepository, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{orders: orders, products: products, logger: logger}
}

// CreateOrder creates an empty named order
func (s *OrderService) CreateOrder(ctx context.Context, workspaceID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	order, err := workflow.NewOrder(workspaceID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("name", order.Name))

	return toOrderResponse(order), nil
}

// ListOrders returns the orders of a workspace with their lines
func (s *OrderService) ListOrders(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]OrderResponse, error) {
	orders, err := s.orders.FindAllForWorkspace(ctx, workspaceID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = *toOrderResponse(&orders[i])
	}
	return out, nil
}

// GetOrder returns one order with its lines
func (s *OrderService) GetOrder(ctx context.Context, workspaceID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, workspaceID, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Order not found")
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return toOrderResponse(order), nil
}

// RenameOrder changes the order name
func (s *OrderService) RenameOrder(ctx context.Context, workspaceID, orderID uuid.UUID, name string) (*OrderResponse, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "order name is required")
	}
	order, err := s.orders.FindByID(ctx, workspaceID, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Order not found")
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	order.Name = name
	order.IncrementVersion()
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	return toOrderResponse(order), nil
}

// DeleteOrder removes an order and all its lines
func (s *OrderService) DeleteOrder(ctx context.Context, workspaceID, orderID uuid.UUID) error {
	if _, err := s.orders.FindByID(ctx, workspaceID, orderID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Order not found")
		}
		return fmt.Errorf("failed to load order: %w", err)
	}
	if err := s.orders.Delete(ctx, workspaceID, orderID); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	s.logger.Info("order deleted", zap.String("order_id", orderID.String()))
	return nil
}

// AddItem adds a product-size line to an order, snapshotting the card fields
// so the line survives later catalog re-syncs.
func (s *OrderService) AddItem(ctx context.Context, workspaceID, orderID uuid.UUID, req AddOrderItemRequest) (*OrderItemResponse, error) {
	order, err := s.orders.FindByID(ctx, workspaceID, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Order not found")
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	product, err := s.products.FindByExternalID(ctx, workspaceID, req.ProductExternalID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found in catalog")
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	item, err := workflow.NewOrderItem(order.ID, product.ExternalID, req.TechSize, req.Quantity)
	if err != nil {
		return nil, err
	}
	item.VendorCode = product.VendorCode
	item.Brand = product.Brand
	item.Title = product.Title
	item.PhotoURL = product.PhotoURL
	item.Color = req.Color
	if item.Color == "" {
		item.Color = product.MetadataForLabels(req.TechSize).Color
	}

	if err := s.orders.SaveItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save order item: %w", err)
	}

	s.logger.Info("order item added",
		zap.String("order_id", order.ID.String()),
		zap.Int64("product_external_id", item.ProductExternalID),
		zap.String("size", item.TechSize),
		zap.Int("quantity", item.Quantity))

	resp := toOrderItemResponse(item)
	return &resp, nil
}

// UpdateItem patches an order line
func (s *OrderService) UpdateItem(ctx context.Context, workspaceID, itemID uuid.UUID, req UpdateOrderItemRequest) (*OrderItemResponse, error) {
	item, err := s.orders.FindItemByID(ctx, workspaceID, itemID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Order item not found")
		}
		return nil, fmt.Errorf("failed to load order item: %w", err)
	}

	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_INPUT", "quantity must be positive")
		}
		item.Quantity = *req.Quantity
	}
	if req.PrintLink != nil {
		item.PrintLink = *req.PrintLink
	}
	if req.PrintStatus != nil {
		item.PrintStatus = *req.PrintStatus
	}
	if req.Priority != nil {
		item.Priority = *req.Priority
	}
	if req.Selected != nil {
		item.Selected = *req.Selected
	}

	if err := s.orders.SaveItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save order item: %w", err)
	}
	resp := toOrderItemResponse(item)
	return &resp, nil
}

// DeleteItem removes one order line
func (s *OrderService) DeleteItem(ctx context.Context, workspaceID, itemID uuid.UUID) error {
	if _, err := s.orders.FindItemByID(ctx, workspaceID, itemID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Order item not found")
		}
		return fmt.Errorf("failed to load order item: %w", err)
	}
	return s.orders.DeleteItem(ctx, workspaceID, itemID)
}
