package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/ledger-backend/internal/domain"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// TransferResult is the outcome of a successful transfer
type TransferResult struct {
	Source      *domain.Account
	Destination *domain.Account
	Transaction *domain.Transaction
	// Converted is the amount credited to Destination
	Converted decimal.Decimal
}

// Summary aggregates balances over all accounts
type Summary struct {
	AccountCount int
	Totals       map[string]decimal.Decimal // keyed by currency
}

// LedgerService orchestrates account operations against the repositories.
// Every mutation runs inside one critical section: load, apply, then persist
// balances and journal together through the LedgerStore.
type LedgerService struct {
	AccountRepo     domain.AccountRepository
	TransactionRepo domain.TransactionRepository
	Store           domain.LedgerStore
	Converter       domain.CurrencyConverter

	mu     sync.Mutex
	logger *zap.Logger
}

// NewLedgerService creates a new LedgerService instance
func NewLedgerService(
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
	store domain.LedgerStore,
	converter domain.CurrencyConverter,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		Store:           store,
		Converter:       converter,
		logger:          logger,
	}
}

// OpenAccount creates an account in currency holding initialBalance
func (s *LedgerService) OpenAccount(ctx context.Context, currency string, initialBalance decimal.Decimal) (*domain.Account, error) {
	currency = domain.NormalizeCurrency(currency)
	if !domain.IsCurrencyCode(currency) {
		return nil, fmt.Errorf("%w: currency must be a 3-letter code", domain.ErrInvalidArgument)
	}

	if err := domain.ValidateAmountScale(initialBalance); err != nil {
		return nil, err
	}

	account, err := domain.NewAccountWithBalance(initialBalance)
	if err != nil {
		return nil, err
	}
	account.Currency = currency

	var opening *domain.Transaction
	if initialBalance.IsPositive() {
		opening = domain.NewTransaction(domain.KindDeposit, "opening balance", domain.TransactionEntry{
			AccountID: account.ID,
			Amount:    initialBalance,
			Type:      domain.EntryTypeCredit,
			Currency:  currency,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Store.Open(ctx, account, opening); err != nil {
		s.logger.Error("failed to open account", zap.Error(err))
		return nil, err
	}

	s.logger.Info("account opened",
		zap.Stringer("account_id", account.ID),
		zap.String("currency", currency),
		zap.Stringer("balance", account.Balance()),
	)
	return account, nil
}

// GetAccount retrieves an account by ID
func (s *LedgerService) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.AccountRepo.GetByID(ctx, id)
}

// ListAccounts retrieves all accounts
func (s *LedgerService) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return s.AccountRepo.List(ctx)
}

// Deposit credits amount to the account
func (s *LedgerService) Deposit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.AccountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := account.Deposit(amount); err != nil {
		return nil, err
	}

	tx := domain.NewTransaction(domain.KindDeposit, "deposit", domain.TransactionEntry{
		AccountID: account.ID,
		Amount:    amount,
		Type:      domain.EntryTypeCredit,
		Currency:  account.Currency,
	})
	if err := s.commit(ctx, tx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// Withdraw debits amount from the account
func (s *LedgerService) Withdraw(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.AccountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := account.Withdraw(amount); err != nil {
		return nil, err
	}

	tx := domain.NewTransaction(domain.KindWithdrawal, "withdrawal", domain.TransactionEntry{
		AccountID: account.ID,
		Amount:    amount,
		Type:      domain.EntryTypeDebit,
		Currency:  account.Currency,
	})
	if err := s.commit(ctx, tx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// Transfer moves amount between two accounts of the same currency
func (s *LedgerService) Transfer(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal) (*TransferResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	source, destination, err := s.loadPair(ctx, fromID, toID, true)
	if err != nil {
		return nil, err
	}

	if err := source.TransferFunds(destination, amount); err != nil {
		return nil, err
	}

	return s.commitTransfer(ctx, domain.KindTransfer, source, destination, amount, amount)
}

// TransferMin moves amount between two accounts of the same currency only if
// the source keeps its minimum balance
func (s *LedgerService) TransferMin(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal) (*TransferResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	source, destination, err := s.loadPair(ctx, fromID, toID, true)
	if err != nil {
		return nil, err
	}

	if _, err := source.TransferMinFunds(destination, amount); err != nil {
		return nil, err
	}

	return s.commitTransfer(ctx, domain.KindTransferMin, source, destination, amount, amount)
}

// TransferWithConversion debits amount in the source currency and credits the
// destination with the converted amount in its own currency
func (s *LedgerService) TransferWithConversion(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal) (*TransferResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	source, destination, err := s.loadPair(ctx, fromID, toID, false)
	if err != nil {
		return nil, err
	}

	converted, err := source.TransferFundsWithConversion(ctx, destination, amount, source.Currency, destination.Currency, s.Converter)
	if err != nil {
		s.logger.Warn("conversion transfer rejected",
			zap.Stringer("from", fromID),
			zap.Stringer("to", toID),
			zap.Error(err),
		)
		return nil, err
	}

	return s.commitTransfer(ctx, domain.KindConversion, source, destination, amount, converted)
}

// History retrieves the journal of an account, most recent first
func (s *LedgerService) History(ctx context.Context, id uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	if _, err := s.AccountRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	return s.TransactionRepo.ListByAccount(ctx, id, limit, offset)
}

// Summary counts accounts and totals their balances per currency
func (s *LedgerService) Summary(ctx context.Context) (*Summary, error) {
	accounts, err := s.AccountRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		AccountCount: len(accounts),
		Totals:       make(map[string]decimal.Decimal),
	}
	for _, account := range accounts {
		summary.Totals[account.Currency] = summary.Totals[account.Currency].Add(account.Balance())
	}

	return summary, nil
}

// loadPair fetches source and destination for a transfer
func (s *LedgerService) loadPair(ctx context.Context, fromID, toID uuid.UUID, sameCurrency bool) (*domain.Account, *domain.Account, error) {
	if fromID == toID {
		return nil, nil, domain.ErrSameAccount
	}

	source, err := s.AccountRepo.GetByID(ctx, fromID)
	if err != nil {
		return nil, nil, err
	}
	destination, err := s.AccountRepo.GetByID(ctx, toID)
	if err != nil {
		return nil, nil, err
	}

	if sameCurrency && source.Currency != destination.Currency {
		return nil, nil, fmt.Errorf("%w: currency mismatch %s -> %s, use a conversion transfer",
			domain.ErrInvalidArgument, source.Currency, destination.Currency)
	}

	return source, destination, nil
}

func (s *LedgerService) commitTransfer(
	ctx context.Context,
	kind domain.TransactionKind,
	source, destination *domain.Account,
	debited, credited decimal.Decimal,
) (*TransferResult, error) {
	description := fmt.Sprintf("%s %s %s -> %s %s", kind, debited, source.Currency, credited, destination.Currency)
	tx := domain.NewTransaction(kind, description,
		domain.TransactionEntry{
			AccountID: source.ID,
			Amount:    debited,
			Type:      domain.EntryTypeDebit,
			Currency:  source.Currency,
		},
		domain.TransactionEntry{
			AccountID: destination.ID,
			Amount:    credited,
			Type:      domain.EntryTypeCredit,
			Currency:  destination.Currency,
		},
	)

	if err := s.commit(ctx, tx, source, destination); err != nil {
		return nil, err
	}

	s.logger.Info("transfer committed",
		zap.String("kind", string(kind)),
		zap.Stringer("transaction_id", tx.ID),
		zap.Stringer("from", source.ID),
		zap.Stringer("to", destination.ID),
		zap.Stringer("debited", debited),
		zap.Stringer("credited", credited),
	)

	return &TransferResult{
		Source:      source,
		Destination: destination,
		Transaction: tx,
		Converted:   credited,
	}, nil
}

// commit validates the journal entry, then persists the mutated accounts
// together with it
func (s *LedgerService) commit(ctx context.Context, tx *domain.Transaction, accounts ...*domain.Account) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("invalid journal entry: %w", err)
	}

	if err := s.Store.Commit(ctx, tx, accounts...); err != nil {
		s.logger.Error("failed to commit transaction", zap.Stringer("transaction_id", tx.ID), zap.Error(err))
		return err
	}
	return nil
}
