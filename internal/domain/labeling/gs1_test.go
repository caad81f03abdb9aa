package labeling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEAN13CheckDigit(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"classic example", "400638133393", 1},
		{"all zeros", "000000000000", 0},
		{"retail code", "460700123456", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EAN13CheckDigit(tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := EAN13CheckDigit("12345")
		assert.Error(t, err)
	})

	t.Run("rejects non-digits", func(t *testing.T) {
		_, err := EAN13CheckDigit("40063813339a")
		assert.Error(t, err)
	})
}

func TestNormalizeEAN13(t *testing.T) {
	t.Run("13 digits pass through", func(t *testing.T) {
		got, err := NormalizeEAN13("4006381333931")
		require.NoError(t, err)
		assert.Equal(t, "4006381333931", got)
	})

	t.Run("12 digits get a check digit", func(t *testing.T) {
		got, err := NormalizeEAN13("400638133393")
		require.NoError(t, err)
		assert.Equal(t, "4006381333931", got)
	})

	t.Run("rejects other lengths", func(t *testing.T) {
		_, err := NormalizeEAN13("12345678")
		assert.Error(t, err)
	})

	t.Run("rejects non-numeric", func(t *testing.T) {
		_, err := NormalizeEAN13("40063813339x")
		assert.Error(t, err)
	})
}

func TestExtractEAN13FromGS1(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{
			name:    "parenthesized AI with leading zero",
			payload: "(01)04006381333931(21)abcDEF123",
			want:    "4006381333931",
		},
		{
			name:    "bare AI with leading zero",
			payload: "010400638133393121abcDEF123",
			want:    "4006381333931",
		},
		{
			name:    "whitespace stripped before matching",
			payload: "(01) 0400 6381 3339 31",
			want:    "4006381333931",
		},
		{
			name:    "gtin without leading zero has no fallback",
			payload: "(01)14006381333938(21)xyz",
			want:    "",
		},
		{
			name:    "no AI 01 present",
			payload: "(10)LOT42(21)serial",
			want:    "",
		},
		{
			name:    "empty payload",
			payload: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractEAN13FromGS1(tt.payload))
		})
	}
}

func TestRestoreGroupSeparators(t *testing.T) {
	assert.Equal(t, "0104006381333931\x1d21serial", RestoreGroupSeparators("0104006381333931|21serial"))
	assert.Equal(t, "no pipes here", RestoreGroupSeparators("no pipes here"))
}
