package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/infrastructure/config"
)

const (
	cardsListPath = "/content/v2/get/cards/list"
	pageLimit     = 100

	// pause between cursor pages, the content API rate-limits bursts
	pageDelay = 120 * time.Millisecond
)

// ErrUnauthorized is returned when the marketplace rejects the API token.
// It is terminal: retrying with the same token cannot succeed.
var ErrUnauthorized = shared.NewDomainError("MARKETPLACE_UNAUTHORIZED", "marketplace API token is invalid or expired")

// Client fetches product cards from the marketplace content API. The token
// is passed per call because each workspace holds its own credential.
type Client interface {
	FetchAllCards(ctx context.Context, token string) ([]ProductCard, int, error)
	ProductCardByExternalID(ctx context.Context, token string, externalID int64) (*ProductCard, error)
	ProductCardsByExternalIDs(ctx context.Context, token string, externalIDs []int64) (map[int64]*ProductCard, error)
}

// HTTPClient is the live implementation. Transient statuses (429 and the
// common 5xx) are retried with exponential backoff; a 401 fails
// immediately.
type HTTPClient struct {
	baseURL     string
	httpClient  *http.Client
	maxRetries  int
	backoffBase time.Duration
	logger      *zap.Logger
}

func NewHTTPClient(cfg config.MarketplaceConfig, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:     cfg.BaseURL,
		httpClient:  &http.Client{Timeout: cfg.RequestTimeout},
		maxRetries:  cfg.MaxRetries,
		backoffBase: cfg.BackoffBase,
		logger:      logger,
	}
}

// FetchAllCards walks the cursor pagination to the end and returns every
// card together with the number of pages fetched.
func (c *HTTPClient) FetchAllCards(ctx context.Context, token string) ([]ProductCard, int, error) {
	var all []ProductCard
	pages, err := c.forEachPage(ctx, token, func(cards []ProductCard) (bool, error) {
		all = append(all, cards...)
		return true, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return all, pages, nil
}

// ProductCardByExternalID scans pages until the card shows up. The content
// API has no single-card endpoint. Returns shared.ErrNotFound when the
// pagination is exhausted without a hit.
func (c *HTTPClient) ProductCardByExternalID(ctx context.Context, token string, externalID int64) (*ProductCard, error) {
	var found *ProductCard
	_, err := c.forEachPage(ctx, token, func(cards []ProductCard) (bool, error) {
		for i := range cards {
			if cards[i].NmID == externalID {
				found = &cards[i]
				return false, nil
			}
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, shared.ErrNotFound
	}
	return found, nil
}

// ProductCardsByExternalIDs resolves a batch in one pagination walk,
// stopping early once every requested card is found. Missing cards map to
// nil entries.
func (c *HTTPClient) ProductCardsByExternalIDs(ctx context.Context, token string, externalIDs []int64) (map[int64]*ProductCard, error) {
	results := make(map[int64]*ProductCard, len(externalIDs))
	pending := make(map[int64]struct{}, len(externalIDs))
	for _, id := range externalIDs {
		results[id] = nil
		pending[id] = struct{}{}
	}
	if len(pending) == 0 {
		return results, nil
	}

	_, err := c.forEachPage(ctx, token, func(cards []ProductCard) (bool, error) {
		for i := range cards {
			id := cards[i].NmID
			if _, ok := pending[id]; ok {
				card := cards[i]
				results[id] = &card
				delete(pending, id)
			}
		}
		return len(pending) > 0, nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// forEachPage feeds each page of cards to fn until fn asks to stop, the
// cursor runs out or an error occurs. Returns the number of pages fetched.
func (c *HTTPClient) forEachPage(ctx context.Context, token string, fn func(cards []ProductCard) (bool, error)) (int, error) {
	cursor := requestCursor{Limit: pageLimit}
	pages := 0

	for {
		resp, err := c.fetchPage(ctx, token, cursor)
		if err != nil {
			return pages, err
		}
		if len(resp.Cards) == 0 {
			return pages, nil
		}
		pages++

		cont, err := fn(resp.Cards)
		if err != nil {
			return pages, err
		}
		if !cont {
			return pages, nil
		}

		if resp.Cursor.UpdatedAt == "" || resp.Cursor.NmID == 0 {
			return pages, nil
		}
		cursor = requestCursor{Limit: pageLimit, UpdatedAt: resp.Cursor.UpdatedAt, NmID: resp.Cursor.NmID}

		if err := sleepCtx(ctx, pageDelay); err != nil {
			return pages, err
		}
	}
}

func (c *HTTPClient) fetchPage(ctx context.Context, token string, cursor requestCursor) (*cardsResponse, error) {
	body, err := json.Marshal(cardsRequest{
		Settings: requestSettings{
			Filter: requestFilter{WithPhoto: -1},
			Cursor: cursor,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal cards request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.backoffBase * time.Duration(1<<(attempt-1))
			c.logger.Warn("retrying marketplace request",
				zap.Int("attempt", attempt), zap.Duration("backoff", backoff), zap.Error(lastErr))
			if err := sleepCtx(ctx, backoff); err != nil {
				return nil, err
			}
		}

		resp, retryable, err := c.doOnce(ctx, token, body)
		if err == nil {
			return resp, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *HTTPClient) doOnce(ctx context.Context, token string, body []byte) (*cardsResponse, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+cardsListPath, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("build cards request: %w", err)
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("marketplace request failed: %w", err)
	}
	defer httpResp.Body.Close()

	switch httpResp.StatusCode {
	case http.StatusOK:
		var page cardsResponse
		if err := json.NewDecoder(httpResp.Body).Decode(&page); err != nil {
			return nil, true, fmt.Errorf("decode cards response: %w", err)
		}
		return &page, false, nil
	case http.StatusUnauthorized:
		return nil, false, ErrUnauthorized
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return nil, true, fmt.Errorf("marketplace transient error: status %d", httpResp.StatusCode)
	default:
		snippet, _ := io.ReadAll(io.LimitReader(httpResp.Body, 300))
		return nil, false, shared.NewDomainError("MARKETPLACE_ERROR",
			fmt.Sprintf("marketplace request failed: status %d: %s", httpResp.StatusCode, snippet))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
