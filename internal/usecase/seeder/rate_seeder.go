package seeder

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/ledger-backend/internal/domain"
)

// DefaultRates are the exchange rates seeded on an empty store
var DefaultRates = []domain.ExchangeRate{
	{From: "USD", To: "EUR", Rate: decimal.RequireFromString("0.92")},
	{From: "EUR", To: "USD", Rate: decimal.RequireFromString("1.087")},
	{From: "EUR", To: "RON", Rate: decimal.RequireFromString("4.97")},
	{From: "RON", To: "EUR", Rate: decimal.RequireFromString("0.2012")},
	{From: "USD", To: "RON", Rate: decimal.RequireFromString("4.57")},
	{From: "RON", To: "USD", Rate: decimal.RequireFromString("0.2188")},
}

// RateSeeder handles seeding of the default exchange rates
type RateSeeder struct {
	repo   domain.RateRepository
	rates  []domain.ExchangeRate
	logger *zap.Logger
}

// NewRateSeeder creates a new RateSeeder instance seeding DefaultRates
func NewRateSeeder(repo domain.RateRepository, logger *zap.Logger) *RateSeeder {
	return &RateSeeder{
		repo:   repo,
		rates:  DefaultRates,
		logger: logger,
	}
}

// Seed ensures every default rate exists.
// Rates already present are left untouched.
func (s *RateSeeder) Seed(ctx context.Context) error {
	created := 0
	for _, seed := range s.rates {
		_, err := s.repo.GetRate(ctx, seed.From, seed.To)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrRateNotFound) {
			return err
		}

		rate := seed
		rate.UpdatedAt = time.Now().UTC()
		if err := rate.Validate(); err != nil {
			return err
		}

		if err := s.repo.Upsert(ctx, &rate); err != nil {
			return err
		}
		created++
	}

	s.logger.Info("exchange rates seeded", zap.Int("created", created), zap.Int("total", len(s.rates)))
	return nil
}
