// Package workflow orchestrates the stage pipeline: orders into the print
// queue, print completion, the production move with label generation,
// boxing and delivery hand-off.
package workflow

import (
	"context"

	"github.com/sewflow/backend/internal/domain/catalog"
	"github.com/sewflow/backend/internal/domain/labeling"
	"github.com/sewflow/backend/internal/domain/stock"
	"github.com/sewflow/backend/internal/domain/workflow"
)

// TransactionalRepositories exposes every repository the stage transitions
// touch, bound to one database transaction.
type TransactionalRepositories interface {
	Orders() workflow.OrderRepository
	PrintTasks() workflow.PrintTaskRepository
	Production() workflow.ProductionRepository
	Boxes() workflow.BoxRepository
	Deliveries() workflow.DeliveryRepository
	LabelSources() labeling.SourceDocumentRepository
	MaterialLedgers() stock.MaterialLedgerRepository
	FinishedGoods() stock.FinishedGoodsRepository
	Usage() stock.UsageRepository
	Products() catalog.ProductRepository
}

// TransactionScope executes a function atomically: every repository write
// inside fn commits together or not at all.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
