package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sewflow/backend/internal/infrastructure/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewHTTPClient(config.MarketplaceConfig{
		BaseURL:        server.URL,
		RequestTimeout: 5 * time.Second,
		MaxRetries:     4,
		BackoffBase:    time.Millisecond,
	}, zap.NewNop())
}

func writePage(t *testing.T, w http.ResponseWriter, cards []ProductCard, next *responseCursor) {
	t.Helper()
	resp := cardsResponse{Cards: cards}
	if next != nil {
		resp.Cursor = *next
	}
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func TestFetchAllCardsPaginates(t *testing.T) {
	calls := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.Header.Get("Authorization"))

		var req cardsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		calls++
		switch calls {
		case 1:
			assert.Empty(t, req.Settings.Cursor.UpdatedAt)
			writePage(t, w, []ProductCard{{NmID: 1, Title: "Футболка"}, {NmID: 2, Title: "Худи"}},
				&responseCursor{UpdatedAt: "2026-01-10T00:00:00Z", NmID: 2})
		case 2:
			assert.Equal(t, int64(2), req.Settings.Cursor.NmID)
			writePage(t, w, []ProductCard{{NmID: 3, Title: "Свитшот"}},
				&responseCursor{UpdatedAt: "2026-01-11T00:00:00Z", NmID: 3})
		default:
			writePage(t, w, nil, nil)
		}
	})

	cards, pages, err := client.FetchAllCards(context.Background(), "test-token")
	require.NoError(t, err)
	assert.Equal(t, 2, pages)
	require.Len(t, cards, 3)
	assert.Equal(t, int64(3), cards[2].NmID)
}

func TestFetchPageRetriesTransientStatuses(t *testing.T) {
	calls := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writePage(t, w, []ProductCard{{NmID: 7}}, nil)
	})

	cards, _, err := client.FetchAllCards(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	require.Len(t, cards, 1)
}

func TestFetchPageGivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, _, err := client.FetchAllCards(context.Background(), "t")
	require.Error(t, err)
	assert.Equal(t, 5, calls)
}

func TestUnauthorizedFailsImmediately(t *testing.T) {
	calls := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, _, err := client.FetchAllCards(context.Background(), "bad-token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, 1, calls)
}

func TestProductCardByExternalIDStopsEarly(t *testing.T) {
	calls := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch calls {
		case 1:
			writePage(t, w, []ProductCard{{NmID: 10}, {NmID: 11, Title: "Цель"}},
				&responseCursor{UpdatedAt: "x", NmID: 11})
		default:
			writePage(t, w, []ProductCard{{NmID: 12}}, nil)
		}
	})

	card, err := client.ProductCardByExternalID(context.Background(), "t", 11)
	require.NoError(t, err)
	assert.Equal(t, "Цель", card.Title)
	assert.Equal(t, 1, calls)
}

func TestProductCardsByExternalIDsMarksMissing(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writePage(t, w, []ProductCard{{NmID: 1, Title: "Есть"}}, nil)
	})

	results, err := client.ProductCardsByExternalIDs(context.Background(), "t", []int64{1, 99})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.NotNil(t, results[1])
	assert.Equal(t, "Есть", results[1].Title)
	assert.Nil(t, results[99])
}

func TestCharacteristicValueString(t *testing.T) {
	assert.Equal(t, "хлопок", CardCharacteristic{Value: "хлопок"}.ValueString())
	assert.Equal(t, "хлопок, эластан", CardCharacteristic{Value: []interface{}{"хлопок", "эластан"}}.ValueString())
	assert.Equal(t, "", CardCharacteristic{}.ValueString())
	assert.Equal(t, "95", CardCharacteristic{Value: float64(95)}.ValueString())
}
