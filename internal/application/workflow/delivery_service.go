package workflow

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/domain/workflow"
	"github.com/sewflow/backend/internal/infrastructure/storage"
)

// ShipmentComposer renders the barcode documents of a delivery
type ShipmentComposer interface {
	ComposeBoxDoc(externalBoxIDs []string) ([]byte, int, error)
	ComposeShipmentDoc(number string, boxCount int) ([]byte, error)
}

// DeliveryService hands packed boxes off as deliveries. Boxes are frozen
// into snapshots, the live box rows disappear, and barcode documents are
// generated after the hand-off commits.
type DeliveryService struct {
	scope      TransactionScope
	boxes      workflow.BoxRepository
	deliveries workflow.DeliveryRepository
	composer   ShipmentComposer
	store      storage.ArtifactStore
	logger     *zap.Logger
}

// NewDeliveryService creates a new DeliveryService
func NewDeliveryService(
	scope TransactionScope,
	boxes workflow.BoxRepository,
	deliveries workflow.DeliveryRepository,
	composer ShipmentComposer,
	store storage.ArtifactStore,
	logger *zap.Logger,
) *DeliveryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeliveryService{
		scope:      scope,
		boxes:      boxes,
		deliveries: deliveries,
		composer:   composer,
		store:      store,
		logger:     logger,
	}
}

// ListDeliveries returns the deliveries of a workspace
func (s *DeliveryService) ListDeliveries(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]DeliveryResponse, error) {
	deliveries, err := s.deliveries.FindAllForWorkspace(ctx, workspaceID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	out := make([]DeliveryResponse, len(deliveries))
	for i := range deliveries {
		out[i] = *toDeliveryResponse(&deliveries[i])
	}
	return out, nil
}

// GetDelivery returns one delivery with its box snapshots
func (s *DeliveryService) GetDelivery(ctx context.Context, workspaceID, deliveryID uuid.UUID) (*DeliveryResponse, error) {
	delivery, err := s.deliveries.FindByID(ctx, workspaceID, deliveryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Delivery not found")
		}
		return nil, fmt.Errorf("failed to load delivery: %w", err)
	}
	return toDeliveryResponse(delivery), nil
}

// MoveToDeliveries turns packed boxes into deliveries. Every box must carry
// a delivery date, number and warehouse; boxes missing any of them fail the
// whole move with one message per box. Boxes sharing the same (date, number,
// warehouse) merge into one delivery. Barcode documents are generated after
// the hand-off commits; a rendering failure leaves the delivery without
// documents rather than undoing it.
func (s *DeliveryService) MoveToDeliveries(ctx context.Context, workspaceID uuid.UUID, req MoveToDeliveriesRequest) ([]DeliveryResponse, error) {
	boxes, err := s.boxes.FindByIDs(ctx, workspaceID, req.BoxIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load boxes: %w", err)
	}
	if len(boxes) == 0 {
		return nil, shared.NewDomainError("NOT_FOUND", "Boxes not found")
	}

	verrs := &shared.ValidationErrors{}
	for i := range boxes {
		if missing := boxes[i].MissingDeliveryFields(); len(missing) > 0 {
			verrs.Add("box %s: missing %s", boxes[i].Number, strings.Join(missing, ", "))
		}
	}
	if verrs.HasErrors() {
		return nil, verrs
	}

	var created []*workflow.Delivery
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		groups, keys := groupByDeliveryKey(boxes)
		for _, key := range keys {
			group := groups[key]
			first := group[0]
			delivery, err := workflow.NewDelivery(workspaceID, first.DeliveryDate, first.DeliveryNumber, first.Warehouse)
			if err != nil {
				return err
			}
			for _, box := range group {
				delivery.AddBoxSnapshot(box)
				if err := repos.Boxes().Delete(ctx, workspaceID, box.ID); err != nil {
					return fmt.Errorf("failed to delete box: %w", err)
				}
			}
			if err := repos.Deliveries().Save(ctx, delivery); err != nil {
				return fmt.Errorf("failed to save delivery: %w", err)
			}
			created = append(created, delivery)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]DeliveryResponse, len(created))
	for i, delivery := range created {
		s.generateDocuments(ctx, delivery)
		out[i] = *toDeliveryResponse(delivery)
	}

	s.logger.Info("boxes handed off as deliveries",
		zap.Int("boxes", len(boxes)),
		zap.Int("deliveries", len(created)))

	return out, nil
}

// generateDocuments renders and stores the box and shipment barcode PDFs for
// a committed delivery. Failures are logged and skipped.
func (s *DeliveryService) generateDocuments(ctx context.Context, delivery *workflow.Delivery) {
	var boxDocPath, shipmentDocPath string

	extIDs := make([]string, 0, len(delivery.Boxes))
	for _, b := range delivery.Boxes {
		extIDs = append(extIDs, b.ExternalBoxID)
	}
	data, rendered, err := s.composer.ComposeBoxDoc(extIDs)
	switch {
	case err != nil:
		s.logger.Warn("box barcode document failed",
			zap.String("delivery_id", delivery.ID.String()), zap.Error(err))
	case rendered == 0:
		s.logger.Info("no boxes with external IDs, skipping box document",
			zap.String("delivery_id", delivery.ID.String()))
	default:
		key := fmt.Sprintf("barcodes/boxes-%s.pdf", delivery.ID)
		if boxDocPath, err = s.store.Write(ctx, key, data); err != nil {
			s.logger.Warn("box barcode document store failed", zap.Error(err))
			boxDocPath = ""
		}
	}

	data, err = s.composer.ComposeShipmentDoc(delivery.Number, len(delivery.Boxes))
	if err != nil {
		s.logger.Warn("shipment barcode document failed",
			zap.String("delivery_id", delivery.ID.String()), zap.Error(err))
	} else {
		key := fmt.Sprintf("barcodes/shipment-%s.pdf", delivery.ID)
		if shipmentDocPath, err = s.store.Write(ctx, key, data); err != nil {
			s.logger.Warn("shipment barcode document store failed", zap.Error(err))
			shipmentDocPath = ""
		}
	}

	if boxDocPath == "" && shipmentDocPath == "" {
		return
	}
	delivery.SetBarcodeDocs(boxDocPath, shipmentDocPath)
	if err := s.deliveries.Save(ctx, delivery); err != nil {
		s.logger.Warn("delivery document paths save failed", zap.Error(err))
	}
}

// DownloadDocument returns a stored barcode document of a delivery. Kind is
// either "boxes" or "shipment".
func (s *DeliveryService) DownloadDocument(ctx context.Context, workspaceID, deliveryID uuid.UUID, kind string) ([]byte, string, error) {
	delivery, err := s.deliveries.FindByID(ctx, workspaceID, deliveryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, "", shared.NewDomainError("NOT_FOUND", "Delivery not found")
		}
		return nil, "", fmt.Errorf("failed to load delivery: %w", err)
	}

	var key string
	switch kind {
	case "boxes":
		key = delivery.BoxDocPath
	case "shipment":
		key = delivery.ShipmentDocPath
	default:
		return nil, "", shared.NewDomainError("INVALID_INPUT", "unknown document kind")
	}
	if key == "" {
		return nil, "", shared.NewDomainError("NOT_FOUND", "Document not generated for this delivery")
	}

	data, err := s.store.Read(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read document: %w", err)
	}
	return data, path.Base(key), nil
}

// ArchiveDelivery moves a delivery to the archive
func (s *DeliveryService) ArchiveDelivery(ctx context.Context, workspaceID, deliveryID uuid.UUID) (*DeliveryResponse, error) {
	delivery, err := s.deliveries.FindByID(ctx, workspaceID, deliveryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Delivery not found")
		}
		return nil, fmt.Errorf("failed to load delivery: %w", err)
	}
	delivery.Archive()
	if err := s.deliveries.Save(ctx, delivery); err != nil {
		return nil, fmt.Errorf("failed to save delivery: %w", err)
	}
	return toDeliveryResponse(delivery), nil
}

// DeleteDelivery removes a delivery and its stored documents. Nothing is
// restored: the boxes left the building.
func (s *DeliveryService) DeleteDelivery(ctx context.Context, workspaceID, deliveryID uuid.UUID) error {
	delivery, err := s.deliveries.FindByID(ctx, workspaceID, deliveryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Delivery not found")
		}
		return fmt.Errorf("failed to load delivery: %w", err)
	}
	for _, key := range []string{delivery.BoxDocPath, delivery.ShipmentDocPath} {
		if key == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn("delivery document cleanup failed", zap.String("key", key), zap.Error(err))
		}
	}
	if err := s.deliveries.Delete(ctx, workspaceID, deliveryID); err != nil {
		return fmt.Errorf("failed to delete delivery: %w", err)
	}
	s.logger.Info("delivery deleted", zap.String("delivery_id", deliveryID.String()))
	return nil
}

// groupByDeliveryKey buckets boxes by their delivery hand-off key, keeping
// first-seen order.
func groupByDeliveryKey(boxes []workflow.Box) (map[string][]*workflow.Box, []string) {
	groups := make(map[string][]*workflow.Box)
	var keys []string
	for i := range boxes {
		key := boxes[i].DeliveryKey()
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], &boxes[i])
	}
	return groups, keys
}
