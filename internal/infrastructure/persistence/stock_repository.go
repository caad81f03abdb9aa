package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/domain/stock"
)

// GormMaterialLedgerRepository implements stock.MaterialLedgerRepository
// using GORM. One ledger row per workspace.
type GormMaterialLedgerRepository struct {
	db *gorm.DB
}

// NewGormMaterialLedgerRepository creates a new GormMaterialLedgerRepository
func NewGormMaterialLedgerRepository(db *gorm.DB) *GormMaterialLedgerRepository {
	return &GormMaterialLedgerRepository{db: db}
}

// FindForWorkspace returns the workspace ledger row
func (r *GormMaterialLedgerRepository) FindForWorkspace(ctx context.Context, workspaceID uuid.UUID) (*stock.MaterialLedger, error) {
	var ledger stock.MaterialLedger
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		First(&ledger).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ledger, nil
}

// FindOrCreateForWorkspace returns the workspace ledger, creating a zeroed
// row on first touch. Inside a transaction the read takes a row lock so a
// following check-and-deduct is atomic.
func (r *GormMaterialLedgerRepository) FindOrCreateForWorkspace(ctx context.Context, workspaceID uuid.UUID) (*stock.MaterialLedger, error) {
	var ledger stock.MaterialLedger
	err := lockForUpdate(r.db.WithContext(ctx)).
		Where("workspace_id = ?", workspaceID).
		First(&ledger).Error
	if err == nil {
		return &ledger, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := stock.NewMaterialLedger(workspaceID)
	if err := r.db.WithContext(ctx).Create(fresh).Error; err != nil {
		return nil, err
	}
	return fresh, nil
}

// Save persists the ledger with an optimistic version check
func (r *GormMaterialLedgerRepository) Save(ctx context.Context, ledger *stock.MaterialLedger) error {
	if ledger.Version <= 1 {
		return r.db.WithContext(ctx).Save(ledger).Error
	}
	res := r.db.WithContext(ctx).Model(&stock.MaterialLedger{}).
		Where("id = ? AND version = ?", ledger.ID, ledger.Version-1).
		Select("*").Omit("id", "created_at").
		Updates(ledger)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ stock.MaterialLedgerRepository = (*GormMaterialLedgerRepository)(nil)

// GormFinishedGoodsRepository implements stock.FinishedGoodsRepository using GORM
type GormFinishedGoodsRepository struct {
	db *gorm.DB
}

// NewGormFinishedGoodsRepository creates a new GormFinishedGoodsRepository
func NewGormFinishedGoodsRepository(db *gorm.DB) *GormFinishedGoodsRepository {
	return &GormFinishedGoodsRepository{db: db}
}

// FindByID finds a finished-goods row by ID within a workspace
func (r *GormFinishedGoodsRepository) FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*stock.FinishedGood, error) {
	var good stock.FinishedGood
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		First(&good).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &good, nil
}

// FindByNameAndColor finds the stock row for a (product name, color) pair
func (r *GormFinishedGoodsRepository) FindByNameAndColor(ctx context.Context, workspaceID uuid.UUID, productName, color string) (*stock.FinishedGood, error) {
	var good stock.FinishedGood
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND product_name = ? AND color = ?", workspaceID, productName, color).
		First(&good).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &good, nil
}

// FindAllForWorkspace finds all finished-goods rows for a workspace
func (r *GormFinishedGoodsRepository) FindAllForWorkspace(ctx context.Context, workspaceID uuid.UUID, filter shared.Filter) ([]stock.FinishedGood, error) {
	var goods []stock.FinishedGood
	query := r.db.WithContext(ctx).Model(&stock.FinishedGood{}).Where("workspace_id = ?", workspaceID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("product_name LIKE ? OR color LIKE ?", pattern, pattern)
	}
	query = applyFilter(query, filter, "product_name ASC, color ASC")
	if err := query.Find(&goods).Error; err != nil {
		return nil, err
	}
	return goods, nil
}

// Save persists a finished-goods row
func (r *GormFinishedGoodsRepository) Save(ctx context.Context, good *stock.FinishedGood) error {
	return r.db.WithContext(ctx).Save(good).Error
}

// Delete removes a finished-goods row
func (r *GormFinishedGoodsRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		Delete(&stock.FinishedGood{}).Error
}

var _ stock.FinishedGoodsRepository = (*GormFinishedGoodsRepository)(nil)

// GormUsageRepository implements stock.UsageRepository using GORM
type GormUsageRepository struct {
	db *gorm.DB
}

// NewGormUsageRepository creates a new GormUsageRepository
func NewGormUsageRepository(db *gorm.DB) *GormUsageRepository {
	return &GormUsageRepository{db: db}
}

// FindByID finds a usage entry by ID within a workspace
func (r *GormUsageRepository) FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*stock.UsageEntry, error) {
	var entry stock.UsageEntry
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByKey finds the accumulator row for one production day and product line
func (r *GormUsageRepository) FindByKey(ctx context.Context, workspaceID uuid.UUID, day time.Time, brand, productName, color string) (*stock.UsageEntry, error) {
	var entry stock.UsageEntry
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND date = ? AND brand = ? AND product_name = ? AND color = ?",
			workspaceID, day.Truncate(24*time.Hour), brand, productName, color).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByDate finds all usage entries of one day
func (r *GormUsageRepository) FindByDate(ctx context.Context, workspaceID uuid.UUID, day time.Time) ([]stock.UsageEntry, error) {
	var entries []stock.UsageEntry
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND date = ?", workspaceID, day.Truncate(24*time.Hour)).
		Order("brand ASC, product_name ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindAllForWorkspace returns the whole ledger, newest day first
func (r *GormUsageRepository) FindAllForWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]stock.UsageEntry, error) {
	var entries []stock.UsageEntry
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("date DESC, brand ASC, product_name ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Save persists a usage entry
func (r *GormUsageRepository) Save(ctx context.Context, entry *stock.UsageEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Delete removes a usage entry
func (r *GormUsageRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		Delete(&stock.UsageEntry{}).Error
}

var _ stock.UsageRepository = (*GormUsageRepository)(nil)
