package memory

import (
	"context"
	"sync"

	"github.com/simaogato/ledger-backend/internal/domain"
)

// LedgerStore applies balance changes and journal writes against the
// in-memory repositories. A failed journal write undoes the balance change.
type LedgerStore struct {
	mu       sync.Mutex
	accounts *AccountRepository
	journal  domain.TransactionRepository
}

// Verify that LedgerStore implements domain.LedgerStore
var _ domain.LedgerStore = (*LedgerStore)(nil)

// NewLedgerStore creates a store over accounts and journal
func NewLedgerStore(accounts *AccountRepository, journal domain.TransactionRepository) *LedgerStore {
	return &LedgerStore{accounts: accounts, journal: journal}
}

// Open inserts account and its opening transaction, if any
func (s *LedgerStore) Open(ctx context.Context, account *domain.Account, opening *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.accounts.Create(ctx, account); err != nil {
		return err
	}
	if opening == nil {
		return nil
	}

	if err := s.journal.Create(ctx, opening); err != nil {
		s.accounts.remove(account.ID)
		return err
	}
	return nil
}

// Commit stores the balances of accounts and appends tx
func (s *LedgerStore) Commit(ctx context.Context, tx *domain.Transaction, accounts ...*domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.accounts.balances(accounts)
	if err := s.accounts.Save(ctx, accounts...); err != nil {
		return err
	}

	if err := s.journal.Create(ctx, tx); err != nil {
		s.accounts.restore(previous)
		return err
	}
	return nil
}
