package marketplace

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sewflow/backend/internal/infrastructure/config"
)

// CardCache keeps resolved product cards in Redis. Entries are scoped by a
// hash of the API token, so workspaces sharing a marketplace cabinet share
// cache hits. Cache failures degrade to live lookups, never to errors.
type CardCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCardCache(cfg config.RedisConfig, logger *zap.Logger) (*CardCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &CardCache{client: client, ttl: cfg.CardTTL, logger: logger}, nil
}

// NewCardCacheWithClient wraps an existing Redis client. The caller keeps
// ownership of the client.
func NewCardCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *CardCache {
	return &CardCache{client: client, ttl: ttl, logger: logger}
}

func (c *CardCache) Close() error {
	return c.client.Close()
}

func (c *CardCache) key(token string, externalID int64) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("marketplace:card:%s:%d", hex.EncodeToString(sum[:8]), externalID)
}

func (c *CardCache) Get(ctx context.Context, token string, externalID int64) (*ProductCard, bool) {
	raw, err := c.client.Get(ctx, c.key(token, externalID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("card cache read failed", zap.Int64("external_id", externalID), zap.Error(err))
		}
		return nil, false
	}
	var card ProductCard
	if err := json.Unmarshal(raw, &card); err != nil {
		c.logger.Warn("card cache entry corrupt", zap.Int64("external_id", externalID), zap.Error(err))
		return nil, false
	}
	return &card, true
}

func (c *CardCache) Set(ctx context.Context, token string, card *ProductCard) {
	raw, err := json.Marshal(card)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(token, card.NmID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("card cache write failed", zap.Int64("external_id", card.NmID), zap.Error(err))
	}
}

// CachedClient decorates a Client with the card cache. List fetches pass
// through and prime the cache; lookups consult the cache first.
type CachedClient struct {
	inner Client
	cache *CardCache
}

func NewCachedClient(inner Client, cache *CardCache) *CachedClient {
	return &CachedClient{inner: inner, cache: cache}
}

func (c *CachedClient) FetchAllCards(ctx context.Context, token string) ([]ProductCard, int, error) {
	cards, pages, err := c.inner.FetchAllCards(ctx, token)
	if err != nil {
		return nil, 0, err
	}
	for i := range cards {
		c.cache.Set(ctx, token, &cards[i])
	}
	return cards, pages, nil
}

func (c *CachedClient) ProductCardByExternalID(ctx context.Context, token string, externalID int64) (*ProductCard, error) {
	if card, ok := c.cache.Get(ctx, token, externalID); ok {
		return card, nil
	}
	card, err := c.inner.ProductCardByExternalID(ctx, token, externalID)
	if err != nil {
		return nil, err
	}
	c.cache.Set(ctx, token, card)
	return card, nil
}

func (c *CachedClient) ProductCardsByExternalIDs(ctx context.Context, token string, externalIDs []int64) (map[int64]*ProductCard, error) {
	results := make(map[int64]*ProductCard, len(externalIDs))
	var missing []int64
	for _, id := range externalIDs {
		if card, ok := c.cache.Get(ctx, token, id); ok {
			results[id] = card
		} else {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return results, nil
	}

	fetched, err := c.inner.ProductCardsByExternalIDs(ctx, token, missing)
	if err != nil {
		return nil, err
	}
	for id, card := range fetched {
		results[id] = card
		if card != nil {
			c.cache.Set(ctx, token, card)
		}
	}
	return results, nil
}
