package workflow_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	workflowapp "github.com/sewflow/backend/internal/application/workflow"
	"github.com/sewflow/backend/internal/domain/catalog"
	"github.com/sewflow/backend/internal/domain/identity"
	"github.com/sewflow/backend/internal/domain/labeling"
	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/domain/stock"
	"github.com/sewflow/backend/internal/domain/workflow"
	"github.com/sewflow/backend/internal/infrastructure/persistence"
)

type fixture struct {
	db         *gorm.DB
	scope      *persistence.GormTransactionScope
	workspaces *persistence.GormWorkspaceRepository
	orders     *persistence.GormOrderRepository
	tasks      *persistence.GormPrintTaskRepository
	production *persistence.GormProductionRepository
	boxes      *persistence.GormBoxRepository
	deliveries *persistence.GormDeliveryRepository
	products   *persistence.GormProductRepository
	docs       *persistence.GormSourceDocumentRepository
	ledgers    *persistence.GormMaterialLedgerRepository
	goods      *persistence.GormFinishedGoodsRepository
	usage      *persistence.GormUsageRepository

	workspaceID uuid.UUID
	store       *memStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&identity.Workspace{},
		&catalog.Product{},
		&labeling.SourceDocument{}, &labeling.SourcePage{},
		&stock.MaterialLedger{}, &stock.FinishedGood{}, &stock.UsageEntry{},
		&workflow.Order{}, &workflow.OrderItem{},
		&workflow.PrintTask{}, &workflow.ProductionItem{},
		&workflow.Box{}, &workflow.BoxItem{},
		&workflow.Delivery{}, &workflow.DeliveryBox{},
	))

	workspace, err := identity.NewWorkspace("test")
	require.NoError(t, err)
	workspaces := persistence.NewGormWorkspaceRepository(db)
	require.NoError(t, workspaces.Save(context.Background(), workspace))

	return &fixture{
		db:          db,
		scope:       persistence.NewGormTransactionScope(db),
		workspaces:  workspaces,
		orders:      persistence.NewGormOrderRepository(db),
		tasks:       persistence.NewGormPrintTaskRepository(db),
		production:  persistence.NewGormProductionRepository(db),
		boxes:       persistence.NewGormBoxRepository(db),
		deliveries:  persistence.NewGormDeliveryRepository(db),
		products:    persistence.NewGormProductRepository(db),
		docs:        persistence.NewGormSourceDocumentRepository(db),
		ledgers:     persistence.NewGormMaterialLedgerRepository(db),
		goods:       persistence.NewGormFinishedGoodsRepository(db),
		usage:       persistence.NewGormUsageRepository(db),
		workspaceID: workspace.ID,
		store:       newMemStore(),
	}
}

// memStore is an in-memory artifact store for service tests
type memStore struct {
	files map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string][]byte)}
}

func (s *memStore) Write(_ context.Context, key string, data []byte) (string, error) {
	s.files[key] = data
	return key, nil
}

func (s *memStore) Read(_ context.Context, key string) ([]byte, error) {
	data, ok := s.files[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return data, nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	delete(s.files, key)
	return nil
}

func (s *memStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := s.files[key]
	return ok, nil
}

// stubComposer returns a fixed blob instead of rendering real pages
type stubComposer struct {
	calls int
}

func (c *stubComposer) Compose([]labeling.SourcePage, labeling.Metadata, labeling.Settings) ([]byte, error) {
	c.calls++
	return []byte("%PDF-stub"), nil
}

type stubShipmentComposer struct{}

func (stubShipmentComposer) ComposeBoxDoc(externalBoxIDs []string) ([]byte, int, error) {
	rendered := 0
	for _, id := range externalBoxIDs {
		if id != "" {
			rendered++
		}
	}
	return []byte("%PDF-boxes"), rendered, nil
}

func (stubShipmentComposer) ComposeShipmentDoc(string, int) ([]byte, error) {
	return []byte("%PDF-shipment"), nil
}

func (f *fixture) seedProduct(t *testing.T, externalID int64, size, barcode string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(f.workspaceID, externalID, "Футболка оверсайз")
	require.NoError(t, err)
	product.Brand = "TestBrand"
	product.VendorCode = fmt.Sprintf("ART-%d", externalID)
	product.Category = "Футболки"
	if barcode != "" {
		product.Sizes = []catalog.SizeVariant{{TechSize: size, Barcodes: []string{barcode}}}
	}
	product.Characteristics = []catalog.Characteristic{{Name: "Цвет", Value: "черный"}}
	require.NoError(t, f.products.Save(context.Background(), product))
	return product
}

func (f *fixture) seedOrderWithItem(t *testing.T, externalID int64, size string, qty int) (*workflow.Order, *workflow.OrderItem) {
	t.Helper()
	ctx := context.Background()
	order, err := workflow.NewOrder(f.workspaceID, "order-1")
	require.NoError(t, err)
	require.NoError(t, f.orders.Save(ctx, order))

	item, err := workflow.NewOrderItem(order.ID, externalID, size, qty)
	require.NoError(t, err)
	item.Title = "Футболка оверсайз"
	item.Brand = "TestBrand"
	item.Color = "черный"
	require.NoError(t, f.orders.SaveItem(ctx, item))

	loaded, err := f.orders.FindByID(ctx, f.workspaceID, order.ID)
	require.NoError(t, err)
	return loaded, &loaded.Items[0]
}

func (f *fixture) seedLabelSource(t *testing.T, productID uuid.UUID, size string, pages int) *labeling.SourceDocument {
	t.Helper()
	doc, err := labeling.NewSourceDocument(f.workspaceID, productID, size, "labels.pdf")
	require.NoError(t, err)
	records := make([]labeling.SourcePage, pages)
	for i := range records {
		records[i] = labeling.SourcePage{ImagePNG: []byte{0x89, 0x50}, GS1Text: fmt.Sprintf("(01)0460622423658%d(21)abc", i)}
	}
	require.NoError(t, f.docs.SaveWithPages(context.Background(), doc, records))
	return doc
}

func (f *fixture) seedLedger(t *testing.T, bags, boxes int, film decimal.Decimal) {
	t.Helper()
	ctx := context.Background()
	ledger, err := f.ledgers.FindOrCreateForWorkspace(ctx, f.workspaceID)
	require.NoError(t, err)
	ledger.Bags = bags
	ledger.Boxes = boxes
	ledger.FilmMeters = film
	ledger.IncrementVersion()
	require.NoError(t, f.ledgers.Save(ctx, ledger))
}

func TestPrintServiceCopyFromOrderMergesByKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := workflowapp.NewPrintService(f.scope, f.tasks, f.orders, nil)

	order, _ := f.seedOrderWithItem(t, 111222, "M", 3)

	resp, err := svc.CopyFromOrder(ctx, f.workspaceID, workflowapp.CopyToPrintRequest{OrderID: order.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.CopiedItems)
	assert.Equal(t, 3, resp.CopiedUnits)

	// a second line for the same product, size and color merges into the task
	item2, err := workflow.NewOrderItem(order.ID, 111222, "m", 2)
	require.NoError(t, err)
	item2.Color = "черный"
	require.NoError(t, f.orders.SaveItem(ctx, item2))

	// first item now carries the in-work status; only copy the new line
	resp, err = svc.CopyFromOrder(ctx, f.workspaceID, workflowapp.CopyToPrintRequest{OrderID: order.ID, ItemIDs: []uuid.UUID{item2.ID}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.CopiedItems)

	tasks, err := svc.ListTasks(ctx, f.workspaceID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 5, tasks[0].Quantity)
	assert.Len(t, tasks[0].OrderItemIDs, 2)
}

func TestPrintServiceCopyRejectsPrintedItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := workflowapp.NewPrintService(f.scope, f.tasks, f.orders, nil)

	order, item := f.seedOrderWithItem(t, 111222, "M", 3)
	item.MarkPrintDone()
	require.NoError(t, f.orders.SaveItem(ctx, item))

	_, err := svc.CopyFromOrder(ctx, f.workspaceID, workflowapp.CopyToPrintRequest{OrderID: order.ID})
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_STATE", derr.Code)
	assert.Contains(t, derr.Message, "Футболка оверсайз")

	tasks, err := svc.ListTasks(ctx, f.workspaceID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestPrintServiceCompleteTaskDeductsFilm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := workflowapp.NewPrintService(f.scope, f.tasks, f.orders, nil)

	order, _ := f.seedOrderWithItem(t, 111222, "M", 3)
	f.seedLedger(t, 0, 0, decimal.NewFromFloat(10))

	_, err := svc.CopyFromOrder(ctx, f.workspaceID, workflowapp.CopyToPrintRequest{OrderID: order.ID})
	require.NoError(t, err)
	tasks, err := svc.ListTasks(ctx, f.workspaceID)
	require.NoError(t, err)

	film := decimal.NewFromFloat(2.5)
	_, err = svc.UpdateTask(ctx, f.workspaceID, tasks[0].ID, workflowapp.UpdatePrintTaskRequest{FilmUsage: &film})
	require.NoError(t, err)

	require.NoError(t, svc.CompleteTask(ctx, f.workspaceID, tasks[0].ID))

	ledger, err := f.ledgers.FindForWorkspace(ctx, f.workspaceID)
	require.NoError(t, err)
	assert.True(t, ledger.FilmMeters.Equal(decimal.NewFromFloat(7.5)))

	// the consumed film is booked on the day's usage row for the line
	entries, err := f.usage.FindAllForWorkspace(ctx, f.workspaceID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "TestBrand", entries[0].Brand)
	assert.True(t, entries[0].FilmUsed.Equal(film))

	// the originating line flipped to printed and the task is gone
	loaded, err := f.orders.FindByID(ctx, f.workspaceID, order.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Items[0].IsPrintDone())
	remaining, err := svc.ListTasks(ctx, f.workspaceID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestPrintServiceCompleteTaskInsufficientFilm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := workflowapp.NewPrintService(f.scope, f.tasks, f.orders, nil)

	order, _ := f.seedOrderWithItem(t, 111222, "M", 3)
	f.seedLedger(t, 0, 0, decimal.NewFromFloat(1))

	_, err := svc.CopyFromOrder(ctx, f.workspaceID, workflowapp.CopyToPrintRequest{OrderID: order.ID})
	require.NoError(t, err)
	tasks, err := svc.ListTasks(ctx, f.workspaceID)
	require.NoError(t, err)

	film := decimal.NewFromFloat(5)
	_, err = svc.UpdateTask(ctx, f.workspaceID, tasks[0].ID, workflowapp.UpdatePrintTaskRequest{FilmUsage: &film})
	require.NoError(t, err)

	err = svc.CompleteTask(ctx, f.workspaceID, tasks[0].ID)
	var serr *shared.InsufficientStockError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "film", serr.Resource)

	// nothing moved: the task survives and the order line is untouched
	remaining, err := svc.ListTasks(ctx, f.workspaceID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
	loaded, err := f.orders.FindByID(ctx, f.workspaceID, order.ID)
	require.NoError(t, err)
	assert.False(t, loaded.Items[0].IsPrintDone())
}

func newProductionService(f *fixture, composer *stubComposer) *workflowapp.ProductionService {
	return workflowapp.NewProductionService(f.scope, f.orders, f.production, f.products, f.docs, f.workspaces, composer, f.store, nil)
}

func TestProductionServiceMoveHappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	composer := &stubComposer{}
	svc := newProductionService(f, composer)

	product := f.seedProduct(t, 111222, "M", "4606224236582")
	order, item := f.seedOrderWithItem(t, 111222, "M", 3)
	item.MarkPrintDone()
	require.NoError(t, f.orders.SaveItem(ctx, item))
	f.seedLabelSource(t, product.ID, "M", 5)
	f.seedLedger(t, 10, 0, decimal.Zero)

	resp, err := svc.MoveToProduction(ctx, f.workspaceID, workflowapp.MoveToProductionRequest{
		OrderID: order.ID,
		ItemIDs: []uuid.UUID{item.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.MovedItems)
	assert.Equal(t, 3, resp.MovedUnits)
	require.Len(t, resp.LabelArtifacts, 1)
	assert.Equal(t, 1, composer.calls)

	// 3 of 5 source pages consumed from the tail
	doc, err := f.docs.FindByProductAndSize(ctx, f.workspaceID, product.ID, "M")
	require.NoError(t, err)
	assert.Equal(t, 2, doc.PageCount)

	// order line left, production row carries the artifact
	loaded, err := f.orders.FindByID(ctx, f.workspaceID, order.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Items)
	items, err := f.production.FindAllForWorkspace(ctx, f.workspaceID, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, resp.LabelArtifacts[0], items[0].LabelsPath)

	// one bag per unit deducted, usage ledger bumped
	ledger, err := f.ledgers.FindForWorkspace(ctx, f.workspaceID)
	require.NoError(t, err)
	assert.Equal(t, 7, ledger.Bags)
	entries, err := f.usage.FindAllForWorkspace(ctx, f.workspaceID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Sizes["M"])
	assert.Equal(t, 3, entries[0].BagsUsed)
}

func TestProductionServiceMoveBrandlessItemsShareUsageRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newProductionService(f, &stubComposer{})

	product := f.seedProduct(t, 111222, "M", "4606224236582")
	order, err := workflow.NewOrder(f.workspaceID, "order-2")
	require.NoError(t, err)
	require.NoError(t, f.orders.Save(ctx, order))

	// two lines without brand or color, moved in separate batches
	var ids []uuid.UUID
	for i := 0; i < 2; i++ {
		item, err := workflow.NewOrderItem(order.ID, 111222, "M", 2)
		require.NoError(t, err)
		item.Title = "Футболка оверсайз"
		item.PrintStatus = workflow.PrintStatusDone
		require.NoError(t, f.orders.SaveItem(ctx, item))
		ids = append(ids, item.ID)
	}
	f.seedLabelSource(t, product.ID, "M", 10)
	f.seedLedger(t, 10, 0, decimal.Zero)

	for _, id := range ids {
		_, err := svc.MoveToProduction(ctx, f.workspaceID, workflowapp.MoveToProductionRequest{
			OrderID: order.ID,
			ItemIDs: []uuid.UUID{id},
		})
		require.NoError(t, err)
	}

	// both moves land on the same day row under the fallback labels
	entries, err := f.usage.FindAllForWorkspace(ctx, f.workspaceID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, stock.FallbackBrand, entries[0].Brand)
	assert.Equal(t, stock.FallbackColor, entries[0].Color)
	assert.Equal(t, 4, entries[0].Sizes["M"])
	assert.Equal(t, 4, entries[0].BagsUsed)
}

func TestProductionServiceMoveAggregatesValidationErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newProductionService(f, &stubComposer{})

	// product 111222 has no barcode for L and no label source; 333444 is not
	// in the catalog at all
	f.seedProduct(t, 111222, "M", "4606224236582")
	order, item := f.seedOrderWithItem(t, 111222, "L", 2)
	item.MarkPrintDone()
	require.NoError(t, f.orders.SaveItem(ctx, item))
	item2, err := workflow.NewOrderItem(order.ID, 333444, "S", 1)
	require.NoError(t, err)
	item2.PrintStatus = workflow.PrintStatusDone
	require.NoError(t, f.orders.SaveItem(ctx, item2))

	_, err = svc.MoveToProduction(ctx, f.workspaceID, workflowapp.MoveToProductionRequest{
		OrderID: order.ID,
		ItemIDs: []uuid.UUID{item.ID, item2.ID},
	})
	var verrs *shared.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs.Items, 3)

	// aborted in full: both lines still on the order
	loaded, err := f.orders.FindByID(ctx, f.workspaceID, order.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Items, 2)
}

func TestProductionServiceMoveRejectsUnprintedItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newProductionService(f, &stubComposer{})

	order, item := f.seedOrderWithItem(t, 111222, "M", 3)

	_, err := svc.MoveToProduction(ctx, f.workspaceID, workflowapp.MoveToProductionRequest{
		OrderID: order.ID,
		ItemIDs: []uuid.UUID{item.ID},
	})
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_STATE", derr.Code)
}

func TestProductionServiceMoveInsufficientBagsRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newProductionService(f, &stubComposer{})

	product := f.seedProduct(t, 111222, "M", "4606224236582")
	order, item := f.seedOrderWithItem(t, 111222, "M", 3)
	item.MarkPrintDone()
	require.NoError(t, f.orders.SaveItem(ctx, item))
	f.seedLabelSource(t, product.ID, "M", 5)
	f.seedLedger(t, 1, 0, decimal.Zero)

	_, err := svc.MoveToProduction(ctx, f.workspaceID, workflowapp.MoveToProductionRequest{
		OrderID: order.ID,
		ItemIDs: []uuid.UUID{item.ID},
	})
	var serr *shared.InsufficientStockError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "bags", serr.Resource)

	// everything rolled back, including the written label artifact
	assert.Empty(t, f.store.files)
	doc, err := f.docs.FindByProductAndSize(ctx, f.workspaceID, product.ID, "M")
	require.NoError(t, err)
	assert.Equal(t, 5, doc.PageCount)
	loaded, err := f.orders.FindByID(ctx, f.workspaceID, order.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Items, 1)
	items, err := f.production.FindAllForWorkspace(ctx, f.workspaceID, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func newBoxService(f *fixture) *workflowapp.BoxService {
	return workflowapp.NewBoxService(f.scope, f.boxes, f.production, f.products, f.workspaces, nil, nil, nil)
}

func (f *fixture) seedProductionItem(t *testing.T, externalID int64, size string, qty int, boxNumber string) *workflow.ProductionItem {
	t.Helper()
	item := &workflow.ProductionItem{
		WorkspaceAggregateRoot: shared.NewWorkspaceAggregateRoot(f.workspaceID),
		ProductExternalID:      externalID,
		Title:                  "Футболка оверсайз",
		TechSize:               size,
		Color:                  "черный",
		Quantity:               qty,
		BoxNumber:              boxNumber,
	}
	require.NoError(t, f.production.Save(context.Background(), item))
	return item
}

func TestBoxServiceMoveToBoxes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newBoxService(f)

	f.seedProduct(t, 111222, "M", "4606224236582")
	p1 := f.seedProductionItem(t, 111222, "M", 3, "7")
	p2 := f.seedProductionItem(t, 111222, "m", 2, "7")
	f.seedLedger(t, 10, 2, decimal.Zero)

	good, err := stock.NewFinishedGood(f.workspaceID, "Футболки оверсайз", "черный")
	require.NoError(t, err)
	require.NoError(t, good.SetStock("M", 10))
	require.NoError(t, f.goods.Save(ctx, good))

	resp, err := svc.MoveToBoxes(ctx, f.workspaceID, workflowapp.MoveToBoxesRequest{ItemIDs: []uuid.UUID{p1.ID, p2.ID}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.BoxesCreated)
	assert.Equal(t, 5, resp.MovedUnits)

	// identical (product, size) lines merged, barcode from the catalog
	box, err := f.boxes.FindByNumber(ctx, f.workspaceID, "7")
	require.NoError(t, err)
	require.Len(t, box.Items, 1)
	assert.Equal(t, 5, box.Items[0].Quantity)
	assert.Equal(t, "4606224236582", box.Items[0].Barcode)

	// 5 bags + 1 box deducted, finished goods reduced
	ledger, err := f.ledgers.FindForWorkspace(ctx, f.workspaceID)
	require.NoError(t, err)
	assert.Equal(t, 5, ledger.Bags)
	assert.Equal(t, 1, ledger.Boxes)
	updated, err := f.goods.FindByID(ctx, f.workspaceID, good.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Stock["M"])

	// the freshly opened box is booked on the day's usage row
	entries, err := f.usage.FindAllForWorkspace(ctx, f.workspaceID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].BoxesUsed)

	// production floor emptied
	items, err := f.production.FindAllForWorkspace(ctx, f.workspaceID, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBoxServiceMoveRequiresBoxNumbers(t *testing.T) {
	f := newFixture(t)
	svc := newBoxService(f)

	p := f.seedProductionItem(t, 111222, "M", 3, "")

	_, err := svc.MoveToBoxes(context.Background(), f.workspaceID, workflowapp.MoveToBoxesRequest{ItemIDs: []uuid.UUID{p.ID}})
	var verrs *shared.ValidationErrors
	require.ErrorAs(t, err, &verrs)
}

func TestBoxServiceMoveInsufficientPacking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newBoxService(f)

	p := f.seedProductionItem(t, 111222, "M", 3, "7")
	f.seedLedger(t, 3, 0, decimal.Zero) // bags fine, no boxes

	_, err := svc.MoveToBoxes(ctx, f.workspaceID, workflowapp.MoveToBoxesRequest{ItemIDs: []uuid.UUID{p.ID}})
	var serr *shared.InsufficientStockError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "boxes", serr.Resource)

	// all-or-nothing: the batch is still on the floor and no box row exists
	items, err := f.production.FindAllForWorkspace(ctx, f.workspaceID, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	_, err = f.boxes.FindByNumber(ctx, f.workspaceID, "7")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestBoxServiceDeleteRestoresPacking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newBoxService(f)

	box, err := workflow.NewBox(f.workspaceID, "7")
	require.NoError(t, err)
	require.NoError(t, box.MergeItem(111222, "M", "", 4))
	require.NoError(t, f.boxes.Save(ctx, box))
	f.seedLedger(t, 1, 0, decimal.Zero)

	require.NoError(t, svc.DeleteBox(ctx, f.workspaceID, box.ID))

	ledger, err := f.ledgers.FindForWorkspace(ctx, f.workspaceID)
	require.NoError(t, err)
	assert.Equal(t, 5, ledger.Bags)
	assert.Equal(t, 1, ledger.Boxes)
}

func newDeliveryService(f *fixture) *workflowapp.DeliveryService {
	return workflowapp.NewDeliveryService(f.scope, f.boxes, f.deliveries, stubShipmentComposer{}, f.store, nil)
}

func (f *fixture) seedBox(t *testing.T, number, externalBoxID, date, deliveryNumber, warehouse string) *workflow.Box {
	t.Helper()
	box, err := workflow.NewBox(f.workspaceID, number)
	require.NoError(t, err)
	box.ExternalBoxID = externalBoxID
	require.NoError(t, box.MergeItem(111222, "M", "4606224236582", 2))
	box.SetDeliveryInfo(date, deliveryNumber, warehouse)
	require.NoError(t, f.boxes.Save(context.Background(), box))
	return box
}

func TestDeliveryServiceMoveMergesByKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newDeliveryService(f)

	b1 := f.seedBox(t, "1", "WB-001", "2026-09-01", "D-10", "Коледино")
	b2 := f.seedBox(t, "2", "", "2026-09-01", "D-10", "Коледино")
	b3 := f.seedBox(t, "3", "WB-003", "2026-09-02", "D-11", "Казань")

	out, err := svc.MoveToDeliveries(ctx, f.workspaceID, workflowapp.MoveToDeliveriesRequest{
		BoxIDs: []uuid.UUID{b1.ID, b2.ID, b3.ID},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 2, out[0].BoxCount)
	assert.Equal(t, 4, out[0].TotalQuantity)
	assert.Equal(t, 1, out[1].BoxCount)

	// live box rows are gone
	boxes, err := f.boxes.FindAllForWorkspace(ctx, f.workspaceID, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, boxes)

	// barcode documents were generated and recorded after the commit
	assert.NotEmpty(t, out[0].BoxDocPath)
	assert.NotEmpty(t, out[0].ShipmentDocPath)
	_, ok := f.store.files[out[0].BoxDocPath]
	assert.True(t, ok)
}

func TestDeliveryServiceMoveRejectsIncompleteBoxes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newDeliveryService(f)

	box, err := workflow.NewBox(f.workspaceID, "1")
	require.NoError(t, err)
	require.NoError(t, box.MergeItem(111222, "M", "", 2))
	box.SetDeliveryInfo("2026-09-01", "", "")
	require.NoError(t, f.boxes.Save(ctx, box))

	_, err = svc.MoveToDeliveries(ctx, f.workspaceID, workflowapp.MoveToDeliveriesRequest{BoxIDs: []uuid.UUID{box.ID}})
	var verrs *shared.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs.Items, 1)
	assert.Contains(t, verrs.Items[0], "номер поставки")
	assert.Contains(t, verrs.Items[0], "склад")

	// the box survives the failed hand-off
	boxes, err := f.boxes.FindAllForWorkspace(ctx, f.workspaceID, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, boxes, 1)
}

func TestDeliveryServiceArchiveAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newDeliveryService(f)

	box := f.seedBox(t, "1", "WB-001", "2026-09-01", "D-10", "Коледино")
	out, err := svc.MoveToDeliveries(ctx, f.workspaceID, workflowapp.MoveToDeliveriesRequest{BoxIDs: []uuid.UUID{box.ID}})
	require.NoError(t, err)
	require.Len(t, out, 1)

	archived, err := svc.ArchiveDelivery(ctx, f.workspaceID, out[0].ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.DeliveryStatusArchived, archived.Status)

	require.NoError(t, svc.DeleteDelivery(ctx, f.workspaceID, out[0].ID))
	_, err = svc.GetDelivery(ctx, f.workspaceID, out[0].ID)
	require.Error(t, err)
	// stored documents were cleaned up with the delivery
	assert.Empty(t, f.store.files)
}

func TestOrderServiceAddItemSnapshotsProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := workflowapp.NewOrderService(f.orders, f.products, nil)

	f.seedProduct(t, 111222, "M", "4606224236582")
	order, err := svc.CreateOrder(ctx, f.workspaceID, workflowapp.CreateOrderRequest{Name: "september"})
	require.NoError(t, err)

	item, err := svc.AddItem(ctx, f.workspaceID, order.ID, workflowapp.AddOrderItemRequest{
		ProductExternalID: 111222,
		TechSize:          "M",
		Quantity:          3,
	})
	require.NoError(t, err)
	assert.Equal(t, "Футболка оверсайз", item.Title)
	assert.Equal(t, "TestBrand", item.Brand)
	assert.Equal(t, "черный", item.Color)
	assert.Equal(t, workflow.PriorityNormal, item.Priority)

	_, err = svc.AddItem(ctx, f.workspaceID, order.ID, workflowapp.AddOrderItemRequest{
		ProductExternalID: 999, TechSize: "M", Quantity: 1,
	})
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "NOT_FOUND", derr.Code)
}
