package domain

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultMinBalance is the floor enforced by TransferMinFunds
var DefaultMinBalance = decimal.NewFromInt(10)

// Account represents a single balance holder in the domain layer.
// Account does no locking; callers sharing an Account must serialize mutations.
type Account struct {
	ID       uuid.UUID
	Currency string

	balance    decimal.Decimal
	minBalance decimal.Decimal
}

// CurrencyConverter is the exchange rate capability consumed by
// TransferFundsWithConversion
type CurrencyConverter interface {
	Convert(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency string) (decimal.Decimal, error)
}

// NewAccount creates an account with a zero balance
func NewAccount() *Account {
	return &Account{
		ID:         uuid.New(),
		balance:    decimal.Zero,
		minBalance: DefaultMinBalance,
	}
}

// NewAccountWithBalance creates an account holding initialValue
// Returns ErrInvalidArgument if initialValue is negative
func NewAccountWithBalance(initialValue decimal.Decimal) (*Account, error) {
	if initialValue.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance cannot be negative", ErrInvalidArgument)
	}

	account := NewAccount()
	account.balance = initialValue
	return account, nil
}

// RestoreAccount rebuilds an account loaded from storage
func RestoreAccount(id uuid.UUID, currency string, balance decimal.Decimal) (*Account, error) {
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: stored balance for account %s is negative", ErrInvalidArgument, id)
	}

	return &Account{
		ID:         id,
		Currency:   currency,
		balance:    balance,
		minBalance: DefaultMinBalance,
	}, nil
}

// Balance returns the current balance
func (a *Account) Balance() decimal.Decimal {
	return a.balance
}

// MinBalance returns the floor enforced by TransferMinFunds
func (a *Account) MinBalance() decimal.Decimal {
	return a.minBalance
}

// Deposit adds amount to the balance
func (a *Account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit amount must be positive", ErrInvalidArgument)
	}

	a.balance = a.balance.Add(amount)
	return nil
}

// Withdraw removes amount from the balance.
// Only non-negativity is checked here, the minimum balance is not.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal amount must be positive", ErrInvalidArgument)
	}

	if a.balance.Sub(amount).IsNegative() {
		return fmt.Errorf("%w: withdrawal exceeds the current balance", ErrInsufficientFunds)
	}

	a.balance = a.balance.Sub(amount)
	return nil
}

// TransferFunds moves amount to destination.
// The destination is credited before the source is debited; the pre-check
// guarantees the debit cannot fail afterwards.
func (a *Account) TransferFunds(destination *Account, amount decimal.Decimal) error {
	if destination == nil {
		return fmt.Errorf("%w: destination account is required", ErrInvalidArgument)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: transfer amount must be positive", ErrInvalidArgument)
	}

	if a.balance.Sub(amount).IsNegative() {
		return fmt.Errorf("%w: insufficient funds for transfer", ErrInsufficientFunds)
	}

	if err := destination.Deposit(amount); err != nil {
		return err
	}
	return a.Withdraw(amount)
}

// TransferMinFunds moves amount to destination only if the source keeps at
// least its minimum balance. Nothing is mutated on failure.
// Returns the destination account.
func (a *Account) TransferMinFunds(destination *Account, amount decimal.Decimal) (*Account, error) {
	if destination == nil {
		return nil, fmt.Errorf("%w: destination account is required", ErrInvalidArgument)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: transfer amount must be positive", ErrInvalidArgument)
	}

	if a.balance.Sub(amount).LessThan(a.minBalance) {
		return nil, fmt.Errorf("%w: transfer would violate the minimum balance of %s", ErrInsufficientFunds, a.minBalance)
	}

	destination.balance = destination.balance.Add(amount)
	a.balance = a.balance.Sub(amount)
	return destination, nil
}

// TransferFundsWithConversion debits amount from the source and credits the
// destination with amount converted from fromCurrency to toCurrency.
// The conversion runs before any balance is touched, so a converter failure
// leaves both accounts unchanged. Converter errors are returned as-is.
// Returns the converted amount credited to the destination.
func (a *Account) TransferFundsWithConversion(
	ctx context.Context,
	destination *Account,
	amount decimal.Decimal,
	fromCurrency, toCurrency string,
	converter CurrencyConverter,
) (decimal.Decimal, error) {
	if destination == nil {
		return decimal.Zero, fmt.Errorf("%w: destination account is required", ErrInvalidArgument)
	}
	if converter == nil {
		return decimal.Zero, fmt.Errorf("%w: currency converter is required", ErrInvalidArgument)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: transfer amount must be positive", ErrInvalidArgument)
	}

	if a.balance.Sub(amount).IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: insufficient funds for conversion transfer", ErrInsufficientFunds)
	}

	converted, err := converter.Convert(ctx, amount, fromCurrency, toCurrency)
	if err != nil {
		return decimal.Zero, err
	}
	if !converted.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: converted amount must be positive, got %s", ErrInvalidArgument, converted)
	}

	a.balance = a.balance.Sub(amount)
	destination.balance = destination.balance.Add(converted)
	return converted, nil
}
