package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/ledger-backend/internal/domain"
)

type accountRecord struct {
	id       uuid.UUID
	currency string
	balance  decimal.Decimal
	seq      int
}

// AccountRepository keeps accounts in process memory.
// Reads return fresh copies so callers never share state with the store.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]accountRecord
	seq      int
}

// NewAccountRepository creates an empty in-memory account repository
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[uuid.UUID]accountRecord)}
}

// Verify that AccountRepository implements domain.AccountRepository
var _ domain.AccountRepository = (*AccountRepository)(nil)

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, domain.ErrAccountNotFound)
	}
	return rec.toDomain()
}

// Create creates a new account
func (r *AccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.ID]; exists {
		return fmt.Errorf("account %s already exists", account.ID)
	}

	r.seq++
	r.accounts[account.ID] = accountRecord{
		id:       account.ID,
		currency: account.Currency,
		balance:  account.Balance(),
		seq:      r.seq,
	}
	return nil
}

// Save stores the balances of all given accounts, or none if one is unknown
func (r *AccountRepository) Save(_ context.Context, accounts ...*domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range accounts {
		if _, ok := r.accounts[account.ID]; !ok {
			return fmt.Errorf("account %s: %w", account.ID, domain.ErrAccountNotFound)
		}
	}

	for _, account := range accounts {
		rec := r.accounts[account.ID]
		rec.balance = account.Balance()
		r.accounts[account.ID] = rec
	}
	return nil
}

// List retrieves all accounts in creation order
func (r *AccountRepository) List(_ context.Context) ([]*domain.Account, error) {
	r.mu.RLock()
	records := make([]accountRecord, 0, len(r.accounts))
	for _, rec := range r.accounts {
		records = append(records, rec)
	}
	r.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool { return records[i].seq < records[j].seq })

	out := make([]*domain.Account, 0, len(records))
	for _, rec := range records {
		account, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, account)
	}
	return out, nil
}

func (rec accountRecord) toDomain() (*domain.Account, error) {
	return domain.RestoreAccount(rec.id, rec.currency, rec.balance)
}

// balances returns the stored balance of every known account in accounts
func (r *AccountRepository) balances(accounts []*domain.Account) map[uuid.UUID]decimal.Decimal {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[uuid.UUID]decimal.Decimal, len(accounts))
	for _, account := range accounts {
		if rec, ok := r.accounts[account.ID]; ok {
			out[account.ID] = rec.balance
		}
	}
	return out
}

// restore puts back balances captured by balances
func (r *AccountRepository) restore(balances map[uuid.UUID]decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, balance := range balances {
		if rec, ok := r.accounts[id]; ok {
			rec.balance = balance
			r.accounts[id] = rec
		}
	}
}

func (r *AccountRepository) remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.accounts, id)
}
