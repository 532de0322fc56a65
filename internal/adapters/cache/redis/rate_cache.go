// Package redis caches exchange-rate lookups in front of the rate store.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/go-redis/redis/v8"
)

const keyPrefix = "fxrate"

// RateCache wraps an exchange rate repository and caches FindLatestExchangeRate hits.
// Redis failures are logged and the call falls through to the wrapped repository.
type RateCache struct {
	next   portsrepo.ExchangeRateRepositoryFacade
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*RateCache)(nil)

// NewClient parses a redis:// URL into a client.
func NewClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// NewRateCache returns a caching decorator around next.
func NewRateCache(next portsrepo.ExchangeRateRepositoryFacade, client *redis.Client, ttl time.Duration, logger *slog.Logger) *RateCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateCache{next: next, client: client, ttl: ttl, logger: logger}
}

func cacheKey(organizationID, from, to string, day time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s", keyPrefix, organizationID, from, to, day.Format("2006-01-02"))
}

// FindLatestExchangeRate serves from the cache when possible. Misses are not cached.
func (c *RateCache) FindLatestExchangeRate(ctx context.Context, organizationID, fromCode, toCode string, onOrBefore time.Time) (*domain.ExchangeRate, error) {
	key := cacheKey(organizationID, fromCode, toCode, onOrBefore)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var rate domain.ExchangeRate
		if jsonErr := json.Unmarshal(data, &rate); jsonErr == nil {
			return &rate, nil
		}
		c.logger.WarnContext(ctx, "Discarding undecodable cached rate", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "Rate cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	rate, err := c.next.FindLatestExchangeRate(ctx, organizationID, fromCode, toCode, onOrBefore)
	if err != nil {
		return nil, err
	}

	if payload, jsonErr := json.Marshal(rate); jsonErr == nil {
		if setErr := c.client.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			c.logger.WarnContext(ctx, "Rate cache write failed", slog.String("key", key), slog.String("error", setErr.Error()))
		}
	}
	return rate, nil
}

func (c *RateCache) ListExchangeRates(ctx context.Context, organizationID string, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, error) {
	return c.next.ListExchangeRates(ctx, organizationID, filter)
}

// SaveExchangeRate writes through and then drops every cached lookup for the pair,
// since a new rate can change the answer for any later date.
func (c *RateCache) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	if err := c.next.SaveExchangeRate(ctx, rate); err != nil {
		return err
	}
	c.invalidate(ctx, rate.OrganizationID, rate.FromCurrencyCode, rate.ToCurrencyCode)
	c.invalidate(ctx, rate.OrganizationID, rate.ToCurrencyCode, rate.FromCurrencyCode)
	return nil
}

func (c *RateCache) invalidate(ctx context.Context, organizationID, from, to string) {
	pattern := fmt.Sprintf("%s:%s:%s:%s:*", keyPrefix, organizationID, from, to)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.WarnContext(ctx, "Rate cache scan failed", slog.String("pattern", pattern), slog.String("error", err.Error()))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WarnContext(ctx, "Rate cache invalidation failed", slog.String("pattern", pattern), slog.String("error", err.Error()))
	}
}
