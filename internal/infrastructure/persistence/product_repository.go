package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sewflow/backend/internal/domain/catalog"
	"github.com/sewflow/backend/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by ID within a workspace
func (r *GormProductRepository) FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByExternalID finds a product by its marketplace ID within a workspace
func (r *GormProductRepository) FindByExternalID(ctx context.Context, workspaceID uuid.UUID, externalID int64) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND external_id = ?", workspaceID, externalID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByExternalIDs finds the products matching any of the marketplace IDs
func (r *GormProductRepository) FindByExternalIDs(ctx context.Context, workspaceID uuid.UUID, externalIDs []int64) ([]catalog.Product, error) {
	if len(externalIDs) == 0 {
		return nil, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND external_id IN ?", workspaceID, externalIDs).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindAllForWorkspace finds all products for a workspace
func (r *GormProductRepository) FindAllForWorkspace(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applySearch(r.db.WithContext(ctx).Model(&catalog.Product{}).Where("workspace_id = ?", workspaceID), filter)
	query = applyFilter(query, filter, "title ASC")
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CountForWorkspace counts products matching the filter
func (r *GormProductRepository) CountForWorkspace(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&catalog.Product{}).Where("workspace_id = ?", workspaceID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormProductRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR vendor_code LIKE ? OR brand LIKE ?", pattern, pattern, pattern)
	}
	if groupID, ok := filter.Filters["group_id"]; ok {
		query = query.Where("group_id = ?", groupID)
	}
	return query
}

// Save persists a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Upsert inserts the product or overwrites the existing row with the same
// (workspace, external ID), keeping the row ID stable across syncs.
func (r *GormProductRepository) Upsert(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing catalog.Product
		err := tx.Where("workspace_id = ? AND external_id = ?", product.WorkspaceID, product.ExternalID).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(product).Error
		}
		if err != nil {
			return err
		}

		product.ID = existing.ID
		product.CreatedAt = existing.CreatedAt
		product.Version = existing.Version
		product.IncrementVersion()
		return tx.Save(product).Error
	})
}

// Delete removes a product from a workspace
func (r *GormProductRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		Delete(&catalog.Product{}).Error
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)

// GormProductGroupRepository implements catalog.ProductGroupRepository using GORM
type GormProductGroupRepository struct {
	db *gorm.DB
}

// NewGormProductGroupRepository creates a new GormProductGroupRepository
func NewGormProductGroupRepository(db *gorm.DB) *GormProductGroupRepository {
	return &GormProductGroupRepository{db: db}
}

// FindByID finds a product group by ID within a workspace
func (r *GormProductGroupRepository) FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*catalog.ProductGroup, error) {
	var group catalog.ProductGroup
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// FindByExternalID finds a group by its marketplace subject ID
func (r *GormProductGroupRepository) FindByExternalID(ctx context.Context, workspaceID uuid.UUID, externalID int64) (*catalog.ProductGroup, error) {
	var group catalog.ProductGroup
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND external_id = ?", workspaceID, externalID).
		First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// FindAllForWorkspace finds all groups for a workspace
func (r *GormProductGroupRepository) FindAllForWorkspace(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]catalog.ProductGroup, error) {
	var groups []catalog.ProductGroup
	query := r.db.WithContext(ctx).Model(&catalog.ProductGroup{}).Where("workspace_id = ?", workspaceID)
	if filter.Search != "" {
		query = query.Where("title LIKE ?", "%"+filter.Search+"%")
	}
	query = applyFilter(query, filter, "title ASC")
	if err := query.Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// Upsert inserts the group or overwrites the row with the same
// (workspace, external ID).
func (r *GormProductGroupRepository) Upsert(ctx context.Context, group *catalog.ProductGroup) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing catalog.ProductGroup
		err := tx.Where("workspace_id = ? AND external_id = ?", group.WorkspaceID, group.ExternalID).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(group).Error
		}
		if err != nil {
			return err
		}

		group.ID = existing.ID
		group.CreatedAt = existing.CreatedAt
		group.Version = existing.Version
		group.IncrementVersion()
		return tx.Save(group).Error
	})
}

// Delete removes a group from a workspace
func (r *GormProductGroupRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		Delete(&catalog.ProductGroup{}).Error
}

var _ catalog.ProductGroupRepository = (*GormProductGroupRepository)(nil)
