package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealerRoundTrip(t *testing.T) {
	sealer, err := NewSealer(strings.Repeat("k", 32))
	require.NoError(t, err)

	sealed, err := sealer.Seal("wb-api-token-secret")
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "wb-api-token-secret")

	opened, err := sealer.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "wb-api-token-secret", opened)
}

func TestSealerHexKey(t *testing.T) {
	sealer, err := NewSealer(strings.Repeat("ab", 32))
	require.NoError(t, err)

	sealed, err := sealer.Seal("secret")
	require.NoError(t, err)
	opened, err := sealer.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "secret", opened)
}

func TestSealerRejectsBadKey(t *testing.T) {
	_, err := NewSealer("short")
	assert.Error(t, err)
}

func TestSealerRejectsTamperedCiphertext(t *testing.T) {
	sealer, err := NewSealer(strings.Repeat("k", 32))
	require.NoError(t, err)

	sealed, err := sealer.Seal("secret")
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xff

	_, err = sealer.Open(sealed)
	assert.Error(t, err)
}

func TestSealerRejectsTruncatedBlob(t *testing.T) {
	sealer, err := NewSealer(strings.Repeat("k", 32))
	require.NoError(t, err)

	_, err = sealer.Open([]byte{1, 2, 3})
	assert.Error(t, err)
}
