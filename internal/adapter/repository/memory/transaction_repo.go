package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/simaogato/ledger-backend/internal/domain"
)

// TransactionRepository keeps the journal in process memory
type TransactionRepository struct {
	mu  sync.RWMutex
	txs []*domain.Transaction
}

// NewTransactionRepository creates an empty in-memory journal
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

// Verify that TransactionRepository implements domain.TransactionRepository
var _ domain.TransactionRepository = (*TransactionRepository)(nil)

// Create appends a copy of tx to the journal
func (r *TransactionRepository) Create(_ context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.txs = append(r.txs, copyTransaction(tx))
	return nil
}

// ListByAccount retrieves transactions touching accountID, most recent first
func (r *TransactionRepository) ListByAccount(_ context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Transaction, 0)
	skipped := 0
	for i := len(r.txs) - 1; i >= 0 && len(out) < limit; i-- {
		if !touches(r.txs[i], accountID) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, copyTransaction(r.txs[i]))
	}
	return out, nil
}

func touches(tx *domain.Transaction, accountID uuid.UUID) bool {
	for _, entry := range tx.Entries {
		if entry.AccountID == accountID {
			return true
		}
	}
	return false
}

func copyTransaction(tx *domain.Transaction) *domain.Transaction {
	cp := *tx
	cp.Entries = make([]domain.TransactionEntry, len(tx.Entries))
	copy(cp.Entries, tx.Entries)
	return &cp
}
