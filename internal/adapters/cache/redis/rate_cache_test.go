package redis_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	rediscache "github.com/SscSPs/ledger_engine/internal/adapters/cache/redis"
	"github.com/SscSPs/ledger_engine/internal/adapters/database/memory"
	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableClient points at a port nothing listens on, so every command fails fast.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 50 * time.Millisecond,
	})
}

func TestRateCache_FallsThroughWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	client := unreachableClient()
	defer client.Close()

	cache := rediscache.NewRateCache(store, client, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	day := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, cache.SaveExchangeRate(ctx, domain.ExchangeRate{
		ExchangeRateID:   "r-1",
		OrganizationID:   "org-1",
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "UGX",
		Rate:             decimal.RequireFromString("3700"),
		DateEffective:    day,
		Source:           domain.RateSourceManual,
	}))

	rate, err := cache.FindLatestExchangeRate(ctx, "org-1", "USD", "UGX", day.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.True(t, rate.Rate.Equal(decimal.RequireFromString("3700")))

	_, err = cache.FindLatestExchangeRate(ctx, "org-1", "EUR", "UGX", day)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	rates, err := cache.ListExchangeRates(ctx, "org-1", domain.ExchangeRateFilter{})
	require.NoError(t, err)
	assert.Len(t, rates, 1)
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	_, err := rediscache.NewClient("not a url")
	assert.Error(t, err)

	client, err := rediscache.NewClient("redis://localhost:6379/2")
	require.NoError(t, err)
	assert.Equal(t, 2, client.Options().DB)
	assert.NoError(t, client.Close())
}
