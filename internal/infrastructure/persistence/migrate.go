package persistence

import (
	"gorm.io/gorm"

	"github.com/sewflow/backend/internal/domain/catalog"
	"github.com/sewflow/backend/internal/domain/identity"
	"github.com/sewflow/backend/internal/domain/labeling"
	"github.com/sewflow/backend/internal/domain/stock"
	"github.com/sewflow/backend/internal/domain/workflow"
)

// AutoMigrate creates or updates the schema for every persisted entity.
// Order matters for foreign keys: parents before children.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&identity.Workspace{},
		&catalog.ProductGroup{},
		&catalog.Product{},
		&labeling.SourceDocument{},
		&labeling.SourcePage{},
		&stock.MaterialLedger{},
		&stock.FinishedGood{},
		&stock.UsageEntry{},
		&workflow.Order{},
		&workflow.OrderItem{},
		&workflow.PrintTask{},
		&workflow.ProductionItem{},
		&workflow.Box{},
		&workflow.BoxItem{},
		&workflow.Delivery{},
		&workflow.DeliveryBox{},
	)
}
