package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/simaogato/ledger-backend/internal/domain"
)

type ratePair struct {
	from string
	to   string
}

// RateRepository keeps exchange rates in process memory
type RateRepository struct {
	mu    sync.RWMutex
	rates map[ratePair]domain.ExchangeRate
}

// NewRateRepository creates an empty in-memory rate repository
func NewRateRepository() *RateRepository {
	return &RateRepository{rates: make(map[ratePair]domain.ExchangeRate)}
}

// Verify that RateRepository implements domain.RateRepository
var _ domain.RateRepository = (*RateRepository)(nil)

// GetRate retrieves the rate from -> to
func (r *RateRepository) GetRate(_ context.Context, from, to string) (*domain.ExchangeRate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rate, ok := r.rates[ratePair{from: from, to: to}]
	if !ok {
		return nil, fmt.Errorf("%s->%s: %w", from, to, domain.ErrRateNotFound)
	}
	return &rate, nil
}

// Upsert creates or replaces a rate
func (r *RateRepository) Upsert(_ context.Context, rate *domain.ExchangeRate) error {
	if err := rate.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rates[ratePair{from: rate.From, to: rate.To}] = *rate
	return nil
}
