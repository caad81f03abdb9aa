package persistence

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sewflow/backend/internal/domain/labeling"
	"github.com/sewflow/backend/internal/domain/shared"
)

// GormSourceDocumentRepository implements labeling.SourceDocumentRepository
// using GORM. Page rows live in their own table keyed by (document, seq);
// tail consumption deletes the highest sequence numbers.
type GormSourceDocumentRepository struct {
	db *gorm.DB
}

// NewGormSourceDocumentRepository creates a new GormSourceDocumentRepository
func NewGormSourceDocumentRepository(db *gorm.DB) *GormSourceDocumentRepository {
	return &GormSourceDocumentRepository{db: db}
}

// FindByID finds a source document by ID within a workspace
func (r *GormSourceDocumentRepository) FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*labeling.SourceDocument, error) {
	var doc labeling.SourceDocument
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByProductAndSize finds the document uploaded for a (product, size) pair
func (r *GormSourceDocumentRepository) FindByProductAndSize(ctx context.Context, workspaceID, productID uuid.UUID, size string) (*labeling.SourceDocument, error) {
	var doc labeling.SourceDocument
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND product_id = ? AND size = ?", workspaceID, productID, size).
		First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindAllForWorkspace finds all source documents for a workspace
func (r *GormSourceDocumentRepository) FindAllForWorkspace(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]labeling.SourceDocument, error) {
	var docs []labeling.SourceDocument
	query := r.db.WithContext(ctx).Model(&labeling.SourceDocument{}).Where("workspace_id = ?", workspaceID)
	if productID, ok := filter.Filters["product_id"]; ok {
		query = query.Where("product_id = ?", productID)
	}
	query = applyFilter(query, filter, "created_at DESC")
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// SaveWithPages persists the document and replaces its page rows in order.
// A re-upload for the same (product, size) swaps the whole page arena.
func (r *GormSourceDocumentRepository) SaveWithPages(ctx context.Context, doc *labeling.SourceDocument, pages []labeling.SourcePage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc.PageCount = len(pages)
		if err := tx.Save(doc).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", doc.ID).Delete(&labeling.SourcePage{}).Error; err != nil {
			return err
		}
		for i := range pages {
			pages[i].DocumentID = doc.ID
			pages[i].Seq = i
			if pages[i].ID == uuid.Nil {
				pages[i].ID = uuid.New()
			}
			if err := tx.Create(&pages[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Save persists the document row only
func (r *GormSourceDocumentRepository) Save(ctx context.Context, doc *labeling.SourceDocument) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

// Delete removes the document together with its page rows
func (r *GormSourceDocumentRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&labeling.SourcePage{}).Error; err != nil {
			return err
		}
		return tx.Where("workspace_id = ? AND id = ?", workspaceID, id).
			Delete(&labeling.SourceDocument{}).Error
	})
}

// Pages returns all page rows ordered by sequence
func (r *GormSourceDocumentRepository) Pages(ctx context.Context, documentID uuid.UUID) ([]labeling.SourcePage, error) {
	var pages []labeling.SourcePage
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("seq ASC").
		Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// TailPages returns the last n page rows, still in ascending sequence order
func (r *GormSourceDocumentRepository) TailPages(ctx context.Context, documentID uuid.UUID, n int) ([]labeling.SourcePage, error) {
	if n <= 0 {
		return nil, nil
	}
	var pages []labeling.SourcePage
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("seq DESC").
		Limit(n).
		Find(&pages).Error; err != nil {
		return nil, err
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Seq < pages[j].Seq })
	return pages, nil
}

// ConsumeTail deletes the last n page rows and decrements the page count in
// one transaction. A concurrent consumer loses on the version check.
func (r *GormSourceDocumentRepository) ConsumeTail(ctx context.Context, doc *labeling.SourceDocument, n int) error {
	if n == 0 {
		return nil
	}
	if n < 0 {
		return shared.NewDomainError("INVALID_INPUT", "page count must be non-negative")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked labeling.SourceDocument
		if err := lockForUpdate(tx).First(&locked, "id = ?", doc.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		var ids []uuid.UUID
		if err := tx.Model(&labeling.SourcePage{}).
			Where("document_id = ?", doc.ID).
			Order("seq DESC").
			Limit(n).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) < n {
			return shared.NewInsufficientStockError("label pages", strconv.Itoa(n), strconv.Itoa(len(ids)))
		}
		if err := tx.Where("id IN ?", ids).Delete(&labeling.SourcePage{}).Error; err != nil {
			return err
		}

		prevVersion := locked.Version
		if err := locked.Consume(n); err != nil {
			return err
		}
		res := tx.Model(&labeling.SourceDocument{}).
			Where("id = ? AND version = ?", locked.ID, prevVersion).
			Updates(map[string]interface{}{
				"page_count": locked.PageCount,
				"version":    locked.Version,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		*doc = locked
		return nil
	})
}

var _ labeling.SourceDocumentRepository = (*GormSourceDocumentRepository)(nil)
