package labeling

import (
	"time"

	"github.com/google/uuid"

	"github.com/sewflow/backend/internal/domain/labeling"
)

// UploadSourceRequest carries one uploaded label PDF for a (product, size)
type UploadSourceRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Size      string    `json:"size" binding:"required"`
	FileName  string    `json:"file_name"`
	Data      []byte    `json:"-"`
}

// GenerateLabelsRequest asks for labels off a source document. Barcode, when
// set, overrides the catalog barcode for the size.
type GenerateLabelsRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Size      string    `json:"size" binding:"required"`
	Quantity  int       `json:"quantity"`
	Barcode   string    `json:"barcode"`
}

// SourceDocumentResponse is the API shape of a label source document
type SourceDocumentResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Size      string    `json:"size"`
	FileName  string    `json:"file_name"`
	PageCount int       `json:"page_count"`
	Exhausted bool      `json:"exhausted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GenerateLabelsResponse reports how a generation run went. Generated can be
// below Requested when the source ran out of pages.
type GenerateLabelsResponse struct {
	ArtifactPath   string `json:"artifact_path"`
	Requested      int    `json:"requested"`
	Generated      int    `json:"generated"`
	RemainingPages int    `json:"remaining_pages"`
	Partial        bool   `json:"partial"`
}

func toSourceDocumentResponse(doc *labeling.SourceDocument) *SourceDocumentResponse {
	return &SourceDocumentResponse{
		ID:        doc.ID,
		ProductID: doc.ProductID,
		Size:      doc.Size,
		FileName:  doc.FileName,
		PageCount: doc.PageCount,
		Exhausted: doc.IsExhausted(),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}
