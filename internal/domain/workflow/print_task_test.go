package workflow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderLine(t *testing.T, size string, qty int) *OrderItem {
	t.Helper()
	item, err := NewOrderItem(uuid.New(), 555111, size, qty)
	require.NoError(t, err)
	item.Color = "чёрный"
	item.Title = "Футболка"
	return item
}

func TestNewPrintTaskFromOrderItem(t *testing.T) {
	t.Run("seeds task from line", func(t *testing.T) {
		item := newOrderLine(t, "M", 7)
		item.PrintLink = "https://prints.example/design.pdf"

		task, err := NewPrintTaskFromOrderItem(uuid.New(), item)
		require.NoError(t, err)
		assert.Equal(t, 7, task.Quantity)
		assert.Equal(t, PrintStatusInWork, task.PrintStatus)
		assert.True(t, task.OrderItemIDs.Contains(item.ID))
	})

	t.Run("rejects already printed line", func(t *testing.T) {
		item := newOrderLine(t, "M", 1)
		item.MarkPrintDone()
		_, err := NewPrintTaskFromOrderItem(uuid.New(), item)
		assert.Error(t, err)
	})
}

func TestPrintTaskMergeOrderItem(t *testing.T) {
	first := newOrderLine(t, "M", 4)
	task, err := NewPrintTaskFromOrderItem(uuid.New(), first)
	require.NoError(t, err)

	t.Run("sums quantity and unions links", func(t *testing.T) {
		second := newOrderLine(t, "M", 6)
		require.NoError(t, task.MergeOrderItem(second))
		assert.Equal(t, 10, task.Quantity)
		assert.Len(t, task.OrderItemIDs, 2)
	})

	t.Run("merging the same line twice keeps one link", func(t *testing.T) {
		require.NoError(t, task.MergeOrderItem(first))
		assert.Equal(t, 14, task.Quantity)
		assert.Len(t, task.OrderItemIDs, 2)
	})

	t.Run("rejects printed line", func(t *testing.T) {
		done := newOrderLine(t, "M", 2)
		done.MarkPrintDone()
		assert.Error(t, task.MergeOrderItem(done))
	})
}

func TestPrintTaskMatchesKey(t *testing.T) {
	task, err := NewPrintTaskFromOrderItem(uuid.New(), newOrderLine(t, "M", 1))
	require.NoError(t, err)

	assert.True(t, task.MatchesKey(555111, "M", "чёрный"))
	assert.True(t, task.MatchesKey(555111, "m", "ЧЁРНЫЙ"))
	assert.False(t, task.MatchesKey(555111, "L", "чёрный"))
	assert.False(t, task.MatchesKey(999, "M", "чёрный"))
}
