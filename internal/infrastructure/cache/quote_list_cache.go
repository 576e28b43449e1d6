package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appquote "github.com/erp-mx/backend/internal/application/quote"
	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/erp-mx/backend/internal/infrastructure/config"
)

const quoteListKeyPrefix = "quotes:list:"

// RedisQuoteListCache caches rendered quote list pages in Redis.
// Every failure degrades to a cache miss so listing always falls back
// to the database.
type RedisQuoteListCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisQuoteListCache connects to Redis and returns a quote list cache
func NewRedisQuoteListCache(cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisQuoteListCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisQuoteListCacheWithClient(client, ttl, logger), nil
}

// NewRedisQuoteListCacheWithClient builds a cache over an existing client.
// Useful for testing or when sharing a client across components.
func NewRedisQuoteListCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisQuoteListCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisQuoteListCache{client: client, ttl: ttl, logger: logger}
}

// Get fetches a cached page. The second return value reports a hit.
func (c *RedisQuoteListCache) Get(ctx context.Context, key string) (shared.Paginated[appquote.QuoteListItemResponse], bool) {
	var page shared.Paginated[appquote.QuoteListItemResponse]

	data, err := c.client.Get(ctx, quoteListKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("quote list cache read failed", zap.Error(err))
		}
		return page, false
	}

	if err := json.Unmarshal(data, &page); err != nil {
		c.logger.Warn("quote list cache entry corrupt", zap.String("key", key), zap.Error(err))
		return page, false
	}

	return page, true
}

// Set stores a page under the given key with the configured TTL
func (c *RedisQuoteListCache) Set(ctx context.Context, key string, page shared.Paginated[appquote.QuoteListItemResponse]) {
	data, err := json.Marshal(page)
	if err != nil {
		c.logger.Warn("quote list cache marshal failed", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, quoteListKeyPrefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("quote list cache write failed", zap.Error(err))
	}
}

// Invalidate drops every cached list page. Called after any quote write,
// the filter space is too wide to invalidate selectively.
func (c *RedisQuoteListCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, quoteListKeyPrefix+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("quote list cache scan failed", zap.Error(err))
		return
	}

	if len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("quote list cache invalidation failed", zap.Error(err))
	}
}

// Close closes the Redis client
func (c *RedisQuoteListCache) Close() error {
	return c.client.Close()
}

var _ appquote.ListCache = (*RedisQuoteListCache)(nil)
