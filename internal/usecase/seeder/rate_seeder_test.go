package seeder

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/simaogato/ledger-backend/internal/domain"
)

// MockRateRepository is a mock implementation of RateRepository
type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) GetRate(ctx context.Context, from, to string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockRateRepository) Upsert(ctx context.Context, rate *domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func notFound(from, to string) error {
	return fmt.Errorf("%s->%s: %w", from, to, domain.ErrRateNotFound)
}

func TestRateSeeder_Seed_RatesMissing(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRateRepository)
	seeder := NewRateSeeder(mockRepo, zap.NewNop())

	for _, rate := range DefaultRates {
		mockRepo.On("GetRate", ctx, rate.From, rate.To).Return(nil, notFound(rate.From, rate.To))
	}
	mockRepo.On("Upsert", ctx, mock.MatchedBy(func(rate *domain.ExchangeRate) bool {
		return !rate.UpdatedAt.IsZero() && rate.Rate.IsPositive()
	})).Return(nil)

	err := seeder.Seed(ctx)

	assert.NoError(t, err)
	mockRepo.AssertNumberOfCalls(t, "Upsert", len(DefaultRates))
}

func TestRateSeeder_Seed_RatesExist(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRateRepository)
	seeder := NewRateSeeder(mockRepo, zap.NewNop())

	for _, rate := range DefaultRates {
		existing := rate
		mockRepo.On("GetRate", ctx, rate.From, rate.To).Return(&existing, nil)
	}

	err := seeder.Seed(ctx)

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestRateSeeder_Seed_LookupError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRateRepository)
	seeder := NewRateSeeder(mockRepo, zap.NewNop())

	first := DefaultRates[0]
	mockRepo.On("GetRate", ctx, first.From, first.To).Return(nil, errors.New("connection refused"))

	err := seeder.Seed(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	mockRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestRateSeeder_Seed_UpsertError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRateRepository)
	seeder := NewRateSeeder(mockRepo, zap.NewNop())

	first := DefaultRates[0]
	mockRepo.On("GetRate", ctx, first.From, first.To).Return(nil, notFound(first.From, first.To))
	mockRepo.On("Upsert", ctx, mock.Anything).Return(errors.New("database error"))

	err := seeder.Seed(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
}
