package labeling

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sewflow/backend/internal/domain/catalog"
	"github.com/sewflow/backend/internal/domain/identity"
	"github.com/sewflow/backend/internal/domain/labeling"
	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/infrastructure/persistence"
)

type testEnv struct {
	svc         *Service
	docs        labeling.SourceDocumentRepository
	workspaceID uuid.UUID
	productID   uuid.UUID
	store       *memStore
}

type memStore struct {
	files map[string][]byte
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

type stubIngestor struct {
	pages int
}

func (i stubIngestor) Ingest([]byte) ([]labeling.SourcePage, error) {
	out := make([]labeling.SourcePage, i.pages)
	for n := range out {
		out[n] = labeling.SourcePage{ImagePNG: []byte{0x89, 0x50}, GS1Text: fmt.Sprintf("(01)0460622423658%d(21)x", n)}
	}
	return out, nil
}

type stubComposer struct {
	lastPages int
	lastMeta  labeling.Metadata
}

func (c *stubComposer) Compose(pages []labeling.SourcePage, meta labeling.Metadata, _ labeling.Settings) ([]byte, error) {
	c.lastPages = len(pages)
	c.lastMeta = meta
	return []byte("%PDF-labels"), nil
}

func newTestEnv(t *testing.T, ingestPages int, composer *stubComposer) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&identity.Workspace{}, &catalog.Product{},
		&labeling.SourceDocument{}, &labeling.SourcePage{},
	))

	ctx := context.Background()
	workspaces := persistence.NewGormWorkspaceRepository(db)
	workspace, err := identity.NewWorkspace("test")
	require.NoError(t, err)
	require.NoError(t, workspaces.Save(ctx, workspace))

	products := persistence.NewGormProductRepository(db)
	product, err := catalog.NewProduct(workspace.ID, 111222, "Футболка")
	require.NoError(t, err)
	product.VendorCode = "ART-1"
	product.Sizes = []catalog.SizeVariant{{TechSize: "M", Barcodes: []string{"4606224236582"}}}
	require.NoError(t, products.Save(ctx, product))

	docs := persistence.NewGormSourceDocumentRepository(db)
	store := &memStore{files: make(map[string][]byte)}
	serialize := func(pages []labeling.SourcePage) ([]byte, error) {
		return []byte(fmt.Sprintf("%%PDF-%d-pages", len(pages))), nil
	}
	svc := NewService(workspaces, products, docs, stubIngestor{pages: ingestPages}, composer, serialize, store, nil)

	return &testEnv{
		svc:         svc,
		docs:        docs,
		workspaceID: workspace.ID,
		productID:   product.ID,
		store:       store,
	}
}

func TestUploadSourceCreatesDocument(t *testing.T) {
	env := newTestEnv(t, 4, &stubComposer{})
	ctx := context.Background()

	resp, err := env.svc.UploadSource(ctx, env.workspaceID, UploadSourceRequest{
		ProductID: env.productID,
		Size:      "M",
		FileName:  "labels.pdf",
		Data:      []byte("%PDF"),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.PageCount)
	assert.False(t, resp.Exhausted)

	// a re-upload replaces the page arena, not appends
	resp, err = env.svc.UploadSource(ctx, env.workspaceID, UploadSourceRequest{
		ProductID: env.productID,
		Size:      "M",
		FileName:  "labels-v2.pdf",
		Data:      []byte("%PDF"),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.PageCount)
	assert.Equal(t, "labels-v2.pdf", resp.FileName)

	list, err := env.svc.ListSources(ctx, env.workspaceID, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGenerateLabelsConsumesTail(t *testing.T) {
	composer := &stubComposer{}
	env := newTestEnv(t, 5, composer)
	ctx := context.Background()

	_, err := env.svc.UploadSource(ctx, env.workspaceID, UploadSourceRequest{
		ProductID: env.productID, Size: "M", FileName: "labels.pdf", Data: []byte("%PDF"),
	})
	require.NoError(t, err)

	resp, err := env.svc.GenerateLabels(ctx, env.workspaceID, GenerateLabelsRequest{
		ProductID: env.productID, Size: "M", Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Generated)
	assert.Equal(t, 2, resp.RemainingPages)
	assert.False(t, resp.Partial)
	assert.Equal(t, 3, composer.lastPages)
	assert.Equal(t, "4606224236582", composer.lastMeta.Barcode)
	assert.Contains(t, env.store.files, resp.ArtifactPath)
}

func TestGenerateLabelsPartialWhenShort(t *testing.T) {
	env := newTestEnv(t, 2, &stubComposer{})
	ctx := context.Background()

	_, err := env.svc.UploadSource(ctx, env.workspaceID, UploadSourceRequest{
		ProductID: env.productID, Size: "M", FileName: "labels.pdf", Data: []byte("%PDF"),
	})
	require.NoError(t, err)

	resp, err := env.svc.GenerateLabels(ctx, env.workspaceID, GenerateLabelsRequest{
		ProductID: env.productID, Size: "M", Quantity: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Generated)
	assert.Equal(t, 10, resp.Requested)
	assert.True(t, resp.Partial)
	assert.Equal(t, 0, resp.RemainingPages)

	doc, err := env.svc.GetSource(ctx, env.workspaceID, mustDocID(t, env))
	require.NoError(t, err)
	assert.True(t, doc.Exhausted)
}

func TestGenerateLabelsZeroQuantity(t *testing.T) {
	composer := &stubComposer{}
	env := newTestEnv(t, 3, composer)
	ctx := context.Background()

	_, err := env.svc.UploadSource(ctx, env.workspaceID, UploadSourceRequest{
		ProductID: env.productID, Size: "M", FileName: "labels.pdf", Data: []byte("%PDF"),
	})
	require.NoError(t, err)

	resp, err := env.svc.GenerateLabels(ctx, env.workspaceID, GenerateLabelsRequest{
		ProductID: env.productID, Size: "M", Quantity: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Generated)
	assert.False(t, resp.Partial)
	assert.Equal(t, 3, resp.RemainingPages)
	assert.Equal(t, 0, composer.lastPages)

	// an empty artifact is still written and the source keeps its pages
	assert.Contains(t, env.store.files, resp.ArtifactPath)
	doc, err := env.svc.GetSource(ctx, env.workspaceID, mustDocID(t, env))
	require.NoError(t, err)
	assert.Equal(t, 3, doc.PageCount)
	assert.False(t, doc.Exhausted)
}

func TestGenerateLabelsWithoutSource(t *testing.T) {
	env := newTestEnv(t, 0, &stubComposer{})

	_, err := env.svc.GenerateLabels(context.Background(), env.workspaceID, GenerateLabelsRequest{
		ProductID: env.productID, Size: "M", Quantity: 1,
	})
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "NO_LABEL_SOURCE", derr.Code)
}

func TestDownloadSourceSerializesRemainingPages(t *testing.T) {
	env := newTestEnv(t, 3, &stubComposer{})
	ctx := context.Background()

	_, err := env.svc.UploadSource(ctx, env.workspaceID, UploadSourceRequest{
		ProductID: env.productID, Size: "M", FileName: "labels.pdf", Data: []byte("%PDF"),
	})
	require.NoError(t, err)

	data, name, err := env.svc.DownloadSource(ctx, env.workspaceID, mustDocID(t, env))
	require.NoError(t, err)
	assert.Equal(t, "labels.pdf", name)
	assert.Equal(t, "%PDF-3-pages", string(data))
}

func mustDocID(t *testing.T, env *testEnv) uuid.UUID {
	t.Helper()
	doc, err := env.docs.FindByProductAndSize(context.Background(), env.workspaceID, env.productID, "M")
	require.NoError(t, err)
	return doc.ID
}
