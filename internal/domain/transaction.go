package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType represents the type of transaction entry
type EntryType string

const (
	EntryTypeDebit  EntryType = "DEBIT"
	EntryTypeCredit EntryType = "CREDIT"
)

// AmountScale is the number of decimal places stored for amounts and balances
const AmountScale = 4

// ValidateAmountScale rejects amounts with more than AmountScale decimal places
func ValidateAmountScale(amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return fmt.Errorf("%w: amount %s has more than %d decimal places", ErrInvalidArgument, amount, AmountScale)
	}
	return nil
}

// TransactionKind tells which ledger operation produced a transaction
type TransactionKind string

const (
	KindDeposit     TransactionKind = "DEPOSIT"
	KindWithdrawal  TransactionKind = "WITHDRAWAL"
	KindTransfer    TransactionKind = "TRANSFER"
	KindTransferMin TransactionKind = "TRANSFER_MIN"
	KindConversion  TransactionKind = "CONVERSION"
)

// Transaction is the journal record of one ledger mutation
type Transaction struct {
	ID          uuid.UUID
	Kind        TransactionKind
	Description string
	Date        time.Time
	Entries     []TransactionEntry
}

// TransactionEntry represents a single entry in a transaction
type TransactionEntry struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	AccountID     uuid.UUID
	Amount        decimal.Decimal // ABSOLUTE VALUE (Always Positive)
	Type          EntryType
	Currency      string
}

// NewTransaction builds a transaction and stamps every entry with its ID
func NewTransaction(kind TransactionKind, description string, entries ...TransactionEntry) *Transaction {
	tx := &Transaction{
		ID:          uuid.New(),
		Kind:        kind,
		Description: description,
		Date:        time.Now().UTC(),
		Entries:     make([]TransactionEntry, 0, len(entries)),
	}

	for _, entry := range entries {
		entry.ID = uuid.New()
		entry.TransactionID = tx.ID
		tx.Entries = append(tx.Entries, entry)
	}

	return tx
}

// Validate ensures the transaction adheres to domain rules.
// Transfers between accounts of the same currency must balance per currency;
// conversions are exempt since each side is in its own currency.
func (t *Transaction) Validate() error {
	if len(t.Entries) == 0 {
		return errors.New("transaction must have at least one entry")
	}

	for _, entry := range t.Entries {
		if entry.Amount.LessThanOrEqual(decimal.Zero) {
			return errors.New("entry amount must be positive (absolute value)")
		}

		if err := ValidateAmountScale(entry.Amount); err != nil {
			return err
		}

		if entry.Type != EntryTypeDebit && entry.Type != EntryTypeCredit {
			return errors.New("entry type must be DEBIT or CREDIT")
		}
	}

	switch t.Kind {
	case KindDeposit, KindWithdrawal:
		if len(t.Entries) != 1 {
			return errors.New(string(t.Kind) + " transaction must have exactly one entry")
		}
	case KindTransfer, KindTransferMin:
		return validateCurrencyBalance(t.Entries)
	case KindConversion:
		if len(t.Entries) != 2 {
			return errors.New("CONVERSION transaction must have exactly two entries")
		}
	default:
		return errors.New("invalid transaction kind: " + string(t.Kind))
	}

	return nil
}

// validateCurrencyBalance ensures that the sum of debits equals the sum of credits per currency
func validateCurrencyBalance(entries []TransactionEntry) error {
	debits := make(map[string]decimal.Decimal)
	credits := make(map[string]decimal.Decimal)

	for _, entry := range entries {
		if entry.Type == EntryTypeDebit {
			debits[entry.Currency] = debits[entry.Currency].Add(entry.Amount)
		} else {
			credits[entry.Currency] = credits[entry.Currency].Add(entry.Amount)
		}
	}

	for currency, debit := range debits {
		if !debit.Equal(credits[currency]) {
			return errors.New("sum of debits must equal sum of credits for currency " + currency)
		}
	}
	for currency, credit := range credits {
		if !credit.Equal(debits[currency]) {
			return errors.New("sum of debits must equal sum of credits for currency " + currency)
		}
	}

	return nil
}
