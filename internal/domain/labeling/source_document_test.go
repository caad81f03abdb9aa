package labeling

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewflow/backend/internal/domain/shared"
)

func TestNewSourceDocument(t *testing.T) {
	workspaceID := uuid.New()
	productID := uuid.New()

	t.Run("creates document with empty page count", func(t *testing.T) {
		doc, err := NewSourceDocument(workspaceID, productID, "M", "labels_m.pdf")
		require.NoError(t, err)
		assert.Equal(t, productID, doc.ProductID)
		assert.Equal(t, "M", doc.Size)
		assert.Equal(t, 0, doc.PageCount)
		assert.True(t, doc.IsExhausted())
	})

	t.Run("requires product", func(t *testing.T) {
		_, err := NewSourceDocument(workspaceID, uuid.Nil, "M", "labels.pdf")
		assert.Error(t, err)
	})

	t.Run("requires size", func(t *testing.T) {
		_, err := NewSourceDocument(workspaceID, productID, "", "labels.pdf")
		assert.Error(t, err)
	})
}

func TestSourceDocumentConsume(t *testing.T) {
	doc, err := NewSourceDocument(uuid.New(), uuid.New(), "L", "labels_l.pdf")
	require.NoError(t, err)
	doc.PageCount = 10

	t.Run("reduces page count", func(t *testing.T) {
		require.NoError(t, doc.Consume(4))
		assert.Equal(t, 6, doc.PageCount)
	})

	t.Run("consuming more than available fails with shortfall", func(t *testing.T) {
		err := doc.Consume(7)
		require.Error(t, err)
		var stockErr *shared.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "7", stockErr.Required)
		assert.Equal(t, "6", stockErr.Available)
	})

	t.Run("rejects negative count", func(t *testing.T) {
		assert.Error(t, doc.Consume(-1))
	})
}
