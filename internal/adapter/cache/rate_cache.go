package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/ledger-backend/internal/domain"
)

// DefaultRateTTL is how long a rate stays cached
const DefaultRateTTL = 5 * time.Minute

type cachedRate struct {
	Rate      decimal.Decimal `json:"rate"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// RateCache is a read-through Redis cache in front of a RateRepository.
// Redis failures are logged and fall back to the wrapped repository.
type RateCache struct {
	next   domain.RateRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// Verify that RateCache implements domain.RateRepository
var _ domain.RateRepository = (*RateCache)(nil)

// NewRateCache wraps next with a Redis cache
func NewRateCache(next domain.RateRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *RateCache {
	if ttl <= 0 {
		ttl = DefaultRateTTL
	}
	return &RateCache{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func rateKey(from, to string) string {
	return fmt.Sprintf("ledger:rate:%s:%s", from, to)
}

// GetRate retrieves the rate from -> to, consulting Redis first
func (c *RateCache) GetRate(ctx context.Context, from, to string) (*domain.ExchangeRate, error) {
	key := rateKey(from, to)

	if cached, err := c.client.Get(ctx, key).Result(); err == nil {
		var entry cachedRate
		if err := json.Unmarshal([]byte(cached), &entry); err == nil {
			return &domain.ExchangeRate{From: from, To: to, Rate: entry.Rate, UpdatedAt: entry.UpdatedAt}, nil
		}
		c.logger.Warn("discarding malformed cached rate", zap.String("key", key))
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("rate cache unavailable", zap.String("key", key), zap.Error(err))
	}

	rate, err := c.next.GetRate(ctx, from, to)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(cachedRate{Rate: rate.Rate, UpdatedAt: rate.UpdatedAt}); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("failed to cache rate", zap.String("key", key), zap.Error(err))
		}
	}

	return rate, nil
}

// Upsert writes through to the repository and evicts the cached rate
func (c *RateCache) Upsert(ctx context.Context, rate *domain.ExchangeRate) error {
	if err := c.next.Upsert(ctx, rate); err != nil {
		return err
	}

	if err := c.client.Del(ctx, rateKey(rate.From, rate.To)).Err(); err != nil {
		c.logger.Warn("failed to evict cached rate", zap.String("from", rate.From), zap.String("to", rate.To), zap.Error(err))
	}
	return nil
}
