package workflow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxMergeItem(t *testing.T) {
	box, err := NewBox(uuid.New(), "12")
	require.NoError(t, err)

	require.NoError(t, box.MergeItem(111, "M", "4006381333931", 3))
	require.NoError(t, box.MergeItem(111, "M", "", 2))
	require.NoError(t, box.MergeItem(111, "L", "4006381333948", 1))

	assert.Len(t, box.Items, 2, "identical (product, size) lines merge")
	assert.Equal(t, 5, box.Items[0].Quantity)
	assert.Equal(t, "4006381333931", box.Items[0].Barcode, "first barcode is kept")
	assert.Equal(t, 6, box.TotalQuantity())

	assert.Error(t, box.MergeItem(111, "M", "", 0))
}

func TestNewBoxRequiresNumber(t *testing.T) {
	_, err := NewBox(uuid.New(), "   ")
	assert.Error(t, err)
}

func TestBoxMissingDeliveryFields(t *testing.T) {
	box, err := NewBox(uuid.New(), "3")
	require.NoError(t, err)

	assert.Len(t, box.MissingDeliveryFields(), 3)

	box.SetDeliveryInfo("24.09.2025", "", "Псков")
	missing := box.MissingDeliveryFields()
	require.Len(t, missing, 1)
	assert.Equal(t, "номер поставки", missing[0])

	box.SetDeliveryInfo("24.09.2025", "WB-GI-180611768", "Псков")
	assert.Empty(t, box.MissingDeliveryFields())
}

func TestBoxDeliveryKey(t *testing.T) {
	a, err := NewBox(uuid.New(), "1")
	require.NoError(t, err)
	b, err := NewBox(uuid.New(), "2")
	require.NoError(t, err)

	a.SetDeliveryInfo("24.09.2025", "WB-GI-1", "Псков")
	b.SetDeliveryInfo("24.09.2025", "WB-GI-1", "Псков")
	assert.Equal(t, a.DeliveryKey(), b.DeliveryKey())

	b.SetDeliveryInfo("24.09.2025", "WB-GI-2", "Псков")
	assert.NotEqual(t, a.DeliveryKey(), b.DeliveryKey())
}
