package postgres

import (
	"context"
	"fmt"

	"github.com/simaogato/ledger-backend/internal/domain"
)

// ledgerStore implements domain.LedgerStore with one database transaction per call
type ledgerStore struct {
	db *DB
}

// NewLedgerStore creates a new ledger store
func NewLedgerStore(db *DB) domain.LedgerStore {
	return &ledgerStore{db: db}
}

// Open inserts account and its opening transaction, if any
func (s *ledgerStore) Open(ctx context.Context, account *domain.Account, opening *domain.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := insertAccount(ctx, dbTx, account); err != nil {
		return err
	}
	if opening != nil {
		if err := insertTransaction(ctx, dbTx, opening); err != nil {
			return err
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Commit updates the balances of accounts and writes tx in the same database transaction
func (s *ledgerStore) Commit(ctx context.Context, tx *domain.Transaction, accounts ...*domain.Account) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := updateBalances(ctx, dbTx, accounts); err != nil {
		return err
	}
	if err := insertTransaction(ctx, dbTx, tx); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
