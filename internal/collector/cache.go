package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"StrategyScout/internal/model"
)

// CachedFetcher serves daily bars from Redis and falls back to the wrapped
// Fetcher on a miss. Cache errors never fail a fetch.
type CachedFetcher struct {
	next   Fetcher
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedFetcher wraps next with a Redis cache. The connection is checked
// with a ping before use.
func NewCachedFetcher(ctx context.Context, next Fetcher, opts *redis.Options, prefix string, ttl time.Duration) (*CachedFetcher, error) {
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	if prefix == "" {
		prefix = "scout"
	}
	return &CachedFetcher{
		next:   next,
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: log.With().Str("component", "bar_cache").Logger(),
	}, nil
}

func (c *CachedFetcher) Name() string { return c.next.Name() + "+redis" }

// Close closes the Redis connection.
func (c *CachedFetcher) Close() error { return c.client.Close() }

func (c *CachedFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceRecord, error) {
	key := c.key(symbol, start, end)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var records []model.PriceRecord
		if err := json.Unmarshal(raw, &records); err == nil {
			c.logger.Debug().Str("symbol", symbol).Str("key", key).Msg("cache hit")
			return records, nil
		}
		c.logger.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	records, err := c.next.FetchDailyBars(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(records); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return records, nil
}

func (c *CachedFetcher) key(symbol string, start, end time.Time) string {
	return cacheKey(c.prefix, c.next.Name(), symbol, start, end)
}

func cacheKey(prefix, source, symbol string, start, end time.Time) string {
	return fmt.Sprintf("%s:bars:%s:%s:%s:%s", prefix, source, symbol,
		start.Format("20060102"), end.Format("20060102"))
}
