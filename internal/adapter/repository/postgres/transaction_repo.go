package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/simaogato/ledger-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create creates a new transaction with all its entries in a database transaction
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := insertTransaction(ctx, dbTx, tx); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// insertTransaction writes the transaction header and its entries
func insertTransaction(ctx context.Context, q execer, tx *domain.Transaction) error {
	insertTxQuery := `
		INSERT INTO transactions (id, kind, description, date)
		VALUES ($1, $2, $3, $4)
	`

	_, err := q.ExecContext(ctx, insertTxQuery,
		tx.ID,
		string(tx.Kind),
		tx.Description,
		tx.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	insertEntryQuery := `
		INSERT INTO transaction_entries (id, transaction_id, account_id, amount, type, currency)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, entry := range tx.Entries {
		_, err = q.ExecContext(ctx, insertEntryQuery,
			entry.ID,
			entry.TransactionID,
			entry.AccountID,
			entry.Amount.String(),
			string(entry.Type),
			entry.Currency,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction entry: %w", err)
		}
	}

	return nil
}

// ListByAccount retrieves transactions touching accountID, most recent first
func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	headerQuery := `
		SELECT t.id, t.kind, t.description, t.date
		FROM transactions t
		WHERE EXISTS (
			SELECT 1 FROM transaction_entries e
			WHERE e.transaction_id = t.id AND e.account_id = $1
		)
		ORDER BY t.date DESC, t.id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, headerQuery, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]*domain.Transaction, 0)
	byID := make(map[uuid.UUID]*domain.Transaction)
	ids := make([]string, 0)
	for rows.Next() {
		var tx domain.Transaction
		var kind string
		if err := rows.Scan(&tx.ID, &kind, &tx.Description, &tx.Date); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Kind = domain.TransactionKind(kind)
		txs = append(txs, &tx)
		byID[tx.ID] = &tx
		ids = append(ids, tx.ID.String())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	if len(ids) == 0 {
		return txs, nil
	}

	entryQuery := `
		SELECT id, transaction_id, account_id, amount, type, currency
		FROM transaction_entries
		WHERE transaction_id = ANY($1::uuid[])
		ORDER BY type DESC, id
	`

	entryRows, err := r.db.QueryContext(ctx, entryQuery, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list transaction entries: %w", err)
	}
	defer entryRows.Close()

	for entryRows.Next() {
		var entry domain.TransactionEntry
		var amountStr, entryType string
		if err := entryRows.Scan(&entry.ID, &entry.TransactionID, &entry.AccountID, &amountStr, &entryType, &entry.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan transaction entry: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse entry amount: %w", err)
		}
		entry.Amount = amount
		entry.Type = domain.EntryType(entryType)

		if tx, ok := byID[entry.TransactionID]; ok {
			tx.Entries = append(tx.Entries, entry)
		}
	}
	if err := entryRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction entries: %w", err)
	}

	return txs, nil
}
