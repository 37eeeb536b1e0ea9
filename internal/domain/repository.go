package domain

import (
	"context"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for account persistence operations
type AccountRepository interface {
	// GetByID retrieves an account by its ID
	// Returns an error wrapping ErrAccountNotFound if it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// Create creates a new account
	Create(ctx context.Context, account *Account) error

	// Save stores the balances of the given accounts together
	Save(ctx context.Context, accounts ...*Account) error

	// List retrieves all accounts
	List(ctx context.Context) ([]*Account, error)
}

// TransactionRepository defines the interface for journal persistence operations
type TransactionRepository interface {
	// Create creates a new transaction with its entries
	Create(ctx context.Context, tx *Transaction) error

	// ListByAccount retrieves a paginated list of transactions touching accountID,
	// most recent first
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Transaction, error)
}

// RateRepository defines the interface for exchange rate persistence operations
type RateRepository interface {
	// GetRate retrieves the rate from -> to
	// Returns an error wrapping ErrRateNotFound if it does not exist
	GetRate(ctx context.Context, from, to string) (*ExchangeRate, error)

	// Upsert creates or replaces a rate
	Upsert(ctx context.Context, rate *ExchangeRate) error
}

// LedgerStore persists balance changes together with the journal entry that
// records them. Either both are stored or neither is.
type LedgerStore interface {
	// Open inserts account and, when opening is non-nil, its opening transaction
	Open(ctx context.Context, account *Account, opening *Transaction) error

	// Commit stores the balances of accounts and appends tx
	Commit(ctx context.Context, tx *Transaction, accounts ...*Account) error
}
