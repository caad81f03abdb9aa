package labeling

import (
	"context"

	"github.com/google/uuid"

	"github.com/sewflow/backend/internal/domain/shared"
)

// SourceDocumentRepository defines persistence for label source documents
// and their ordered page rows.
type SourceDocumentRepository interface {
	FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*SourceDocument, error)
	FindByProductAndSize(ctx context.Context, workspaceID, productID uuid.UUID, size string) (*SourceDocument, error)
	FindAllForWorkspace(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]SourceDocument, error)
	// SaveWithPages persists the document and replaces its page rows in order
	SaveWithPages(ctx context.Context, doc *SourceDocument, pages []SourcePage) error
	Save(ctx context.Context, doc *SourceDocument) error
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
	// Pages returns all page rows ordered by sequence
	Pages(ctx context.Context, documentID uuid.UUID) ([]SourcePage, error)
	// TailPages returns the last n page rows, still in ascending sequence order
	TailPages(ctx context.Context, documentID uuid.UUID, n int) ([]SourcePage, error)
	// ConsumeTail deletes the last n page rows and decrements the page count.
	// The delete and the counter update commit together.
	ConsumeTail(ctx context.Context, doc *SourceDocument, n int) error
}
