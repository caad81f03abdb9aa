package persistence

import (
	"context"

	"gorm.io/gorm"

	appworkflow "github.com/sewflow/backend/internal/application/workflow"
	"github.com/sewflow/backend/internal/domain/catalog"
	"github.com/sewflow/backend/internal/domain/labeling"
	"github.com/sewflow/backend/internal/domain/stock"
	"github.com/sewflow/backend/internal/domain/workflow"
)

// GormTransactionScope implements the application TransactionScope on GORM
// transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside one database transaction. An error from fn rolls
// everything back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appworkflow.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Orders() workflow.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) PrintTasks() workflow.PrintTaskRepository {
	return NewGormPrintTaskRepository(r.tx)
}

func (r *gormTransactionalRepositories) Production() workflow.ProductionRepository {
	return NewGormProductionRepository(r.tx)
}

func (r *gormTransactionalRepositories) Boxes() workflow.BoxRepository {
	return NewGormBoxRepository(r.tx)
}

func (r *gormTransactionalRepositories) Deliveries() workflow.DeliveryRepository {
	return NewGormDeliveryRepository(r.tx)
}

func (r *gormTransactionalRepositories) LabelSources() labeling.SourceDocumentRepository {
	return NewGormSourceDocumentRepository(r.tx)
}

func (r *gormTransactionalRepositories) MaterialLedgers() stock.MaterialLedgerRepository {
	return NewGormMaterialLedgerRepository(r.tx)
}

func (r *gormTransactionalRepositories) FinishedGoods() stock.FinishedGoodsRepository {
	return NewGormFinishedGoodsRepository(r.tx)
}

func (r *gormTransactionalRepositories) Usage() stock.UsageRepository {
	return NewGormUsageRepository(r.tx)
}

func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

var _ appworkflow.TransactionScope = (*GormTransactionScope)(nil)
var _ appworkflow.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
