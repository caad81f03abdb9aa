package labeling

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/sewflow/backend/internal/domain/shared"
)

// SourceDocument is an ingested label PDF for one (product, size) pair,
// stored as an explicit ordered list of page records. Consumption always
// removes pages from the tail.
type SourceDocument struct {
	shared.WorkspaceAggregateRoot
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_source_doc_product_size"`
	Size      string    `gorm:"size:32;not null;index:idx_source_doc_product_size"`
	FileName  string    `gorm:"size:255;not null"`
	PageCount int       `gorm:"not null;default:0"`
}

// TableName specifies the table name for GORM
func (SourceDocument) TableName() string {
	return "label_source_documents"
}

// NewSourceDocument creates a source document shell; pages are attached by
// the ingestion pipeline.
func NewSourceDocument(workspaceID, productID uuid.UUID, size, fileName string) (*SourceDocument, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "product ID is required")
	}
	if size == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "size is required")
	}
	return &SourceDocument{
		WorkspaceAggregateRoot: shared.NewWorkspaceAggregateRoot(workspaceID),
		ProductID:              productID,
		Size:                   size,
		FileName:               fileName,
	}, nil
}

// Consume reduces the page count after a tail delete of n page rows
func (d *SourceDocument) Consume(n int) error {
	if n < 0 {
		return shared.NewDomainError("INVALID_INPUT", "page count must be non-negative")
	}
	if n > d.PageCount {
		return shared.NewInsufficientStockError("label pages", strconv.Itoa(n), strconv.Itoa(d.PageCount))
	}
	d.PageCount -= n
	d.IncrementVersion()
	return nil
}

// IsExhausted reports whether no pages remain
func (d *SourceDocument) IsExhausted() bool {
	return d.PageCount == 0
}

// SourcePage is one ordered page of a source document: the 1.5x raster used
// for symbol detection plus the GS1 text pulled from the page's text layer.
type SourcePage struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index:idx_source_page_doc_seq"`
	Seq        int       `gorm:"not null;index:idx_source_page_doc_seq"`
	ImagePNG   []byte    `gorm:"not null"`
	GS1Text    string    `gorm:"type:text"`
}

// TableName specifies the table name for GORM
func (SourcePage) TableName() string {
	return "label_source_pages"
}
