package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/ledger-backend/internal/domain"
)

// rateRepository implements domain.RateRepository
type rateRepository struct {
	db *DB
}

// NewRateRepository creates a new exchange rate repository
func NewRateRepository(db *DB) domain.RateRepository {
	return &rateRepository{db: db}
}

// GetRate retrieves the rate from -> to
func (r *rateRepository) GetRate(ctx context.Context, from, to string) (*domain.ExchangeRate, error) {
	query := `
		SELECT from_currency, to_currency, rate, updated_at
		FROM exchange_rates
		WHERE from_currency = $1 AND to_currency = $2
	`

	var rate domain.ExchangeRate
	var rateStr string

	err := r.db.QueryRowContext(ctx, query, from, to).Scan(
		&rate.From,
		&rate.To,
		&rateStr,
		&rate.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s->%s: %w", from, to, domain.ErrRateNotFound)
		}
		return nil, fmt.Errorf("failed to get exchange rate: %w", err)
	}

	// Parse rate (NUMERIC)
	value, err := decimal.NewFromString(rateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rate: %w", err)
	}
	rate.Rate = value

	return &rate, nil
}

// Upsert creates or replaces a rate
func (r *rateRepository) Upsert(ctx context.Context, rate *domain.ExchangeRate) error {
	if err := rate.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO exchange_rates (from_currency, to_currency, rate, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (from_currency, to_currency)
		DO UPDATE SET rate = EXCLUDED.rate, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		rate.From,
		rate.To,
		rate.Rate.String(),
		rate.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert exchange rate: %w", err)
	}

	return nil
}
