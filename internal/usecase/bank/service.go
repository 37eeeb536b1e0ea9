package bank

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/ledger-backend/internal/domain"
)

// BankService holds small helpers built on top of a CurrencyConverter
type BankService struct {
	logger *zap.Logger
}

// NewBankService creates a new BankService instance
func NewBankService(logger *zap.Logger) *BankService {
	return &BankService{logger: logger}
}

// GetTransactionInfo converts amount from USD to EUR once and describes the result
func (s *BankService) GetTransactionInfo(ctx context.Context, amount decimal.Decimal, converter domain.CurrencyConverter) (string, error) {
	converted, err := converter.Convert(ctx, amount, "USD", "EUR")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Original Amount: %s USD. Converted Amount: %s EUR.", amount, converted), nil
}

// IsWithdrawalAllowed reports whether account keeps its minimum balance after amount leaves it
func (s *BankService) IsWithdrawalAllowed(account *domain.Account, amount decimal.Decimal) bool {
	return account.Balance().Sub(amount).GreaterThanOrEqual(account.MinBalance())
}

// LogConversionRate asks converter for the value of 1 EUR in RON and logs it
func (s *BankService) LogConversionRate(ctx context.Context, converter domain.CurrencyConverter) error {
	rate, err := converter.Convert(ctx, decimal.NewFromInt(1), "EUR", "RON")
	if err != nil {
		s.logger.Error("conversion rate lookup failed", zap.Error(err))
		return err
	}

	s.logger.Info("conversion rate",
		zap.String("from", "EUR"),
		zap.String("to", "RON"),
		zap.Stringer("rate", rate),
	)
	return nil
}
