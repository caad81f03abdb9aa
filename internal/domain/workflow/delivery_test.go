package workflow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeShipmentNumber(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"already clean", "WB-GI-180611768", "WB-GI-180611768", false},
		{"spaces and slashes collapse", "WB / GI  180611768", "WB-GI-180611768", false},
		{"edge runs trimmed", "***WB-GI-1***", "WB-GI-1", false},
		{"repeated hyphens collapse", "WB--GI---1", "WB-GI-1", false},
		{"cyrillic kept", "Поставка 45", "Поставка-45", false},
		{"underscore kept", "WB_GI_1", "WB_GI_1", false},
		{"nothing usable", "***///***", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeShipmentNumber(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewDelivery(t *testing.T) {
	t.Run("requires all three fields", func(t *testing.T) {
		_, err := NewDelivery(uuid.New(), "24.09.2025", "", "Псков")
		assert.Error(t, err)
		_, err = NewDelivery(uuid.New(), "", "WB-GI-1", "Псков")
		assert.Error(t, err)
		_, err = NewDelivery(uuid.New(), "24.09.2025", "WB-GI-1", "")
		assert.Error(t, err)
	})

	t.Run("starts in ready status", func(t *testing.T) {
		d, err := NewDelivery(uuid.New(), "24.09.2025", "WB-GI-1", "Псков")
		require.NoError(t, err)
		assert.Equal(t, DeliveryStatusReady, d.Status)
	})
}

func TestDeliveryAddBoxSnapshot(t *testing.T) {
	d, err := NewDelivery(uuid.New(), "24.09.2025", "WB-GI-1", "Псков")
	require.NoError(t, err)

	box, err := NewBox(uuid.New(), "7")
	require.NoError(t, err)
	box.ExternalBoxID = "WB_1430965581"
	require.NoError(t, box.MergeItem(111, "M", "4006381333931", 4))

	d.AddBoxSnapshot(box)

	require.Len(t, d.Boxes, 1)
	snap := d.Boxes[0]
	assert.Equal(t, "7", snap.BoxNumber)
	assert.Equal(t, "WB_1430965581", snap.ExternalBoxID)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 4, snap.Items[0].Quantity)
	assert.Equal(t, d.ID, snap.DeliveryID)
}

func TestDeliveryArchive(t *testing.T) {
	d, err := NewDelivery(uuid.New(), "24.09.2025", "WB-GI-1", "Псков")
	require.NoError(t, err)
	d.Archive()
	assert.Equal(t, DeliveryStatusArchived, d.Status)
}
