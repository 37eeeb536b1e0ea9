package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/ledger-backend/internal/domain"
)

func TestAccountRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	account, err := domain.NewAccountWithBalance(decimal.NewFromInt(100))
	require.NoError(t, err)
	account.Currency = "EUR"
	require.NoError(t, repo.Create(ctx, account))

	loaded, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.NoError(t, loaded.Deposit(decimal.NewFromInt(50)))

	// Unsaved mutation must not leak into the store
	again, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(again.Balance()))
	assert.Equal(t, "EUR", again.Currency)

	require.NoError(t, repo.Save(ctx, loaded))
	again, err = repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(150).Equal(again.Balance()))
}

func TestAccountRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountRepository_SaveIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	known := domain.NewAccount()
	require.NoError(t, repo.Create(ctx, known))
	require.NoError(t, known.Deposit(decimal.NewFromInt(5)))

	err := repo.Save(ctx, known, domain.NewAccount())
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	stored, err := repo.GetByID(ctx, known.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance().IsZero())
}

func TestAccountRepository_ListInCreationOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	ids := make([]uuid.UUID, 0, 5)
	for i := 0; i < 5; i++ {
		account := domain.NewAccount()
		require.NoError(t, repo.Create(ctx, account))
		ids = append(ids, account.ID)
	}
	assert.Error(t, repo.Create(ctx, &domain.Account{ID: ids[0]}))

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 5)
	for i, account := range accounts {
		assert.Equal(t, ids[i], account.ID)
	}
}

func TestTransactionRepository_ListByAccount(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()
	accountID := uuid.New()
	other := uuid.New()

	credit := func(id uuid.UUID, amount int64) *domain.Transaction {
		return domain.NewTransaction(domain.KindDeposit, "deposit", domain.TransactionEntry{
			AccountID: id,
			Amount:    decimal.NewFromInt(amount),
			Type:      domain.EntryTypeCredit,
			Currency:  "EUR",
		})
	}

	require.NoError(t, repo.Create(ctx, credit(accountID, 1)))
	require.NoError(t, repo.Create(ctx, credit(other, 2)))
	require.NoError(t, repo.Create(ctx, credit(accountID, 3)))
	require.NoError(t, repo.Create(ctx, credit(accountID, 4)))

	txs, err := repo.ListByAccount(ctx, accountID, 10, 0)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.True(t, decimal.NewFromInt(4).Equal(txs[0].Entries[0].Amount), "most recent first")

	page, err := repo.ListByAccount(ctx, accountID, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.True(t, decimal.NewFromInt(3).Equal(page[0].Entries[0].Amount))
}

func TestRateRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewRateRepository()

	_, err := repo.GetRate(ctx, "EUR", "RON")
	assert.ErrorIs(t, err, domain.ErrRateNotFound)

	require.NoError(t, repo.Upsert(ctx, &domain.ExchangeRate{From: "EUR", To: "RON", Rate: decimal.RequireFromString("4.97")}))
	require.NoError(t, repo.Upsert(ctx, &domain.ExchangeRate{From: "EUR", To: "RON", Rate: decimal.RequireFromString("4.98")}))
	assert.Error(t, repo.Upsert(ctx, &domain.ExchangeRate{From: "EUR", To: "RON", Rate: decimal.Zero}))

	rate, err := repo.GetRate(ctx, "EUR", "RON")
	require.NoError(t, err)
	assert.Equal(t, "4.98", rate.Rate.String())
}

// failingJournal rejects every write
type failingJournal struct {
	*TransactionRepository
}

func (failingJournal) Create(context.Context, *domain.Transaction) error {
	return errors.New("journal unavailable")
}

func depositTx(account *domain.Account, amount decimal.Decimal) *domain.Transaction {
	return domain.NewTransaction(domain.KindDeposit, "deposit", domain.TransactionEntry{
		AccountID: account.ID,
		Amount:    amount,
		Type:      domain.EntryTypeCredit,
		Currency:  account.Currency,
	})
}

func TestLedgerStore_Commit(t *testing.T) {
	ctx := context.Background()
	accounts := NewAccountRepository()
	journal := NewTransactionRepository()
	store := NewLedgerStore(accounts, journal)

	account := domain.NewAccount()
	account.Currency = "EUR"
	require.NoError(t, store.Open(ctx, account, nil))

	require.NoError(t, account.Deposit(decimal.NewFromInt(40)))
	require.NoError(t, store.Commit(ctx, depositTx(account, decimal.NewFromInt(40)), account))

	stored, err := accounts.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(40).Equal(stored.Balance()))

	history, err := journal.ListByAccount(ctx, account.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestLedgerStore_JournalFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	accounts := NewAccountRepository()
	store := NewLedgerStore(accounts, failingJournal{NewTransactionRepository()})

	account, err := domain.NewAccountWithBalance(decimal.NewFromInt(10))
	require.NoError(t, err)
	account.Currency = "EUR"
	require.NoError(t, accounts.Create(ctx, account))

	require.NoError(t, account.Deposit(decimal.NewFromInt(25)))
	err = store.Commit(ctx, depositTx(account, decimal.NewFromInt(25)), account)
	assert.ErrorContains(t, err, "journal unavailable")

	stored, err := accounts.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(stored.Balance()))

	opened, err := domain.NewAccountWithBalance(decimal.NewFromInt(5))
	require.NoError(t, err)
	opened.Currency = "EUR"
	err = store.Open(ctx, opened, depositTx(opened, decimal.NewFromInt(5)))
	assert.ErrorContains(t, err, "journal unavailable")

	_, err = accounts.GetByID(ctx, opened.ID)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}
