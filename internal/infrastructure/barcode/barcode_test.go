package barcode

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeDataMatrixRoundTrip(t *testing.T) {
	payload := "0104006381333931\x1d21serialXYZ"

	img, err := EncodeDataMatrix(payload, 300)
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())

	// corners sit in the quiet zone and must be white
	for _, p := range []image.Point{{0, 0}, {299, 0}, {0, 299}, {299, 299}} {
		r, g, b, _ := img.At(p.X, p.Y).RGBA()
		assert.Equal(t, uint32(0xffff), r)
		assert.Equal(t, uint32(0xffff), g)
		assert.Equal(t, uint32(0xffff), b)
	}

	decoded, err := DecodeDataMatrix(img)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestEncodeDataMatrixEmptyPayload(t *testing.T) {
	_, err := EncodeDataMatrix("", 300)
	assert.Error(t, err)
}

func TestEncodeEAN13(t *testing.T) {
	t.Run("accepts 12 digits and appends check digit", func(t *testing.T) {
		img, err := EncodeEAN13("400638133393", 300, 120)
		require.NoError(t, err)
		assert.Equal(t, 300, img.Bounds().Dx())
	})

	t.Run("accepts full 13 digits", func(t *testing.T) {
		_, err := EncodeEAN13("4006381333931", 300, 120)
		require.NoError(t, err)
	})

	t.Run("rejects wrong check digit", func(t *testing.T) {
		_, err := EncodeEAN13("4006381333930", 300, 120)
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := EncodeEAN13("not-a-code", 300, 120)
		assert.Error(t, err)
	})
}

func TestEncodeCode128(t *testing.T) {
	img, err := EncodeCode128("WB-GI-180611768", 500, 150)
	require.NoError(t, err)
	assert.Equal(t, 500, img.Bounds().Dx())

	_, err = EncodeCode128("", 500, 150)
	assert.Error(t, err)
}
