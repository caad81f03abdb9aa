// Package labeling implements label source ingestion and label generation
// on top of the page-record arena: uploads become ordered page rows, and
// generation consumes them from the tail.
package labeling

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sewflow/backend/internal/domain/catalog"
	"github.com/sewflow/backend/internal/domain/identity"
	"github.com/sewflow/backend/internal/domain/labeling"
	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/infrastructure/storage"
)

// Ingestor turns an uploaded PDF into ordered page records
type Ingestor interface {
	Ingest(data []byte) ([]labeling.SourcePage, error)
}

// Composer renders label pages from page records, metadata and the
// workspace display settings
type Composer interface {
	Compose(pages []labeling.SourcePage, meta labeling.Metadata, settings labeling.Settings) ([]byte, error)
}

// PageSerializer re-serializes page records into a downloadable PDF
type PageSerializer func(pages []labeling.SourcePage) ([]byte, error)

// Service handles label source and generation operations
type Service struct {
	workspaces identity.WorkspaceRepository
	products   catalog.ProductRepository
	docs       labeling.SourceDocumentRepository
	ingestor   Ingestor
	composer   Composer
	serialize  PageSerializer
	store      storage.ArtifactStore
	logger     *zap.Logger
}

// NewService creates a new labeling Service
func NewService(
	workspaces identity.WorkspaceRepository,
	products catalog.ProductRepository,
	docs labeling.SourceDocumentRepository,
	ingestor Ingestor,
	composer Composer,
	serialize PageSerializer,
	store storage.ArtifactStore,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		workspaces: workspaces,
		products:   products,
		docs:       docs,
		ingestor:   ingestor,
		composer:   composer,
		serialize:  serialize,
		store:      store,
		logger:     logger,
	}
}

// UploadSource ingests a label PDF for a (product, size) pair. A re-upload
// replaces the page arena of the existing document.
func (s *Service) UploadSource(ctx context.Context, workspaceID uuid.UUID, req UploadSourceRequest) (*SourceDocumentResponse, error) {
	product, err := s.products.FindByID(ctx, workspaceID, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	pages, err := s.ingestor.Ingest(req.Data)
	if err != nil {
		return nil, err
	}

	doc, err := s.docs.FindByProductAndSize(ctx, workspaceID, product.ID, req.Size)
	if errors.Is(err, shared.ErrNotFound) {
		doc, err = labeling.NewSourceDocument(workspaceID, product.ID, req.Size, req.FileName)
	}
	if err != nil {
		return nil, err
	}
	doc.FileName = req.FileName

	if err := s.docs.SaveWithPages(ctx, doc, pages); err != nil {
		return nil, fmt.Errorf("failed to save source document: %w", err)
	}

	s.logger.Info("label source ingested",
		zap.String("document_id", doc.ID.String()),
		zap.String("size", doc.Size),
		zap.Int("pages", doc.PageCount))

	return toSourceDocumentResponse(doc), nil
}

// ListSources returns the source documents of a workspace
func (s *Service) ListSources(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]SourceDocumentResponse, error) {
	docs, err := s.docs.FindAllForWorkspace(ctx, workspaceID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list source documents: %w", err)
	}
	out := make([]SourceDocumentResponse, len(docs))
	for i := range docs {
		out[i] = *toSourceDocumentResponse(&docs[i])
	}
	return out, nil
}

// GetSource returns one source document
func (s *Service) GetSource(ctx context.Context, workspaceID, docID uuid.UUID) (*SourceDocumentResponse, error) {
	doc, err := s.docs.FindByID(ctx, workspaceID, docID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Source document not found")
		}
		return nil, fmt.Errorf("failed to load source document: %w", err)
	}
	return toSourceDocumentResponse(doc), nil
}

// DownloadSource re-serializes the remaining pages into a PDF
func (s *Service) DownloadSource(ctx context.Context, workspaceID, docID uuid.UUID) ([]byte, string, error) {
	doc, err := s.docs.FindByID(ctx, workspaceID, docID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, "", shared.NewDomainError("NOT_FOUND", "Source document not found")
		}
		return nil, "", fmt.Errorf("failed to load source document: %w", err)
	}
	pages, err := s.docs.Pages(ctx, doc.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load pages: %w", err)
	}
	data, err := s.serialize(pages)
	if err != nil {
		return nil, "", err
	}
	return data, doc.FileName, nil
}

// DeleteSource removes a source document and its pages
func (s *Service) DeleteSource(ctx context.Context, workspaceID, docID uuid.UUID) error {
	if _, err := s.docs.FindByID(ctx, workspaceID, docID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Source document not found")
		}
		return fmt.Errorf("failed to load source document: %w", err)
	}
	return s.docs.Delete(ctx, workspaceID, docID)
}

// GenerateLabels renders labels off the tail of the source document and
// consumes the used pages. Asking for more labels than pages remain renders
// what is left and marks the run partial; asking for zero yields an empty
// artifact and touches nothing.
func (s *Service) GenerateLabels(ctx context.Context, workspaceID uuid.UUID, req GenerateLabelsRequest) (*GenerateLabelsResponse, error) {
	if req.Quantity < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "quantity must be non-negative")
	}

	workspace, err := s.workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	product, err := s.products.FindByID(ctx, workspaceID, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	doc, err := s.docs.FindByProductAndSize(ctx, workspaceID, product.ID, req.Size)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NO_LABEL_SOURCE", "No label source uploaded for this product and size")
		}
		return nil, fmt.Errorf("failed to load source document: %w", err)
	}

	count := req.Quantity
	if count > doc.PageCount {
		count = doc.PageCount
	}

	var pages []labeling.SourcePage
	if count > 0 {
		pages, err = s.docs.TailPages(ctx, doc.ID, count)
		if err != nil {
			return nil, fmt.Errorf("failed to load tail pages: %w", err)
		}
	}

	meta := product.MetadataForLabels(req.Size)
	if req.Barcode != "" {
		meta.Barcode = req.Barcode
	}

	data, err := s.composer.Compose(pages, meta, workspace.LabelSettings())
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("labels/%s.pdf", uuid.New())
	path, err := s.store.Write(ctx, key, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store label artifact: %w", err)
	}

	if err := s.docs.ConsumeTail(ctx, doc, count); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Warn("orphaned label artifact", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("labels generated",
		zap.String("document_id", doc.ID.String()),
		zap.Int("requested", req.Quantity),
		zap.Int("generated", count),
		zap.Int("remaining", doc.PageCount))

	return &GenerateLabelsResponse{
		ArtifactPath:   path,
		Requested:      req.Quantity,
		Generated:      count,
		RemainingPages: doc.PageCount,
		Partial:        count < req.Quantity,
	}, nil
}
