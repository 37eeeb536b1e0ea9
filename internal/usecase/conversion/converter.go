package conversion

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/ledger-backend/internal/domain"
)

// Verify that RateConverter implements domain.CurrencyConverter
var _ domain.CurrencyConverter = (*RateConverter)(nil)

// amountPlaces is the precision of converted amounts
const amountPlaces = 2

// RateConverter converts amounts using rates from a RateRepository
type RateConverter struct {
	RateRepo domain.RateRepository
	logger   *zap.Logger
}

// NewRateConverter creates a new RateConverter instance
func NewRateConverter(rateRepo domain.RateRepository, logger *zap.Logger) *RateConverter {
	return &RateConverter{
		RateRepo: rateRepo,
		logger:   logger,
	}
}

// Convert returns amount expressed in toCurrency.
// Same-currency conversions return amount unchanged without a rate lookup.
func (c *RateConverter) Convert(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	from := domain.NormalizeCurrency(fromCurrency)
	to := domain.NormalizeCurrency(toCurrency)

	if !domain.IsCurrencyCode(from) || !domain.IsCurrencyCode(to) {
		return decimal.Zero, fmt.Errorf("%w: currencies must be 3-letter codes, got %q and %q", domain.ErrInvalidArgument, fromCurrency, toCurrency)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount to convert must be positive", domain.ErrInvalidArgument)
	}

	if from == to {
		return amount, nil
	}

	rate, err := c.RateRepo.GetRate(ctx, from, to)
	if err != nil {
		c.logger.Warn("rate lookup failed",
			zap.String("from", from),
			zap.String("to", to),
			zap.Error(err),
		)
		return decimal.Zero, err
	}

	converted := amount.Mul(rate.Rate).Round(amountPlaces)
	c.logger.Debug("amount converted",
		zap.String("from", from),
		zap.String("to", to),
		zap.Stringer("amount", amount),
		zap.Stringer("rate", rate.Rate),
		zap.Stringer("converted", converted),
	)

	return converted, nil
}
