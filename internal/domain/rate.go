package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate represents the rate used to convert one unit of From into To
type ExchangeRate struct {
	From      string
	To        string
	Rate      decimal.Decimal
	UpdatedAt time.Time
}

// Validate ensures the rate adheres to domain rules
func (r *ExchangeRate) Validate() error {
	if !IsCurrencyCode(r.From) || !IsCurrencyCode(r.To) {
		return errors.New("rate currencies must be 3-letter codes")
	}
	if r.Rate.LessThanOrEqual(decimal.Zero) {
		return errors.New("rate must be positive")
	}
	return nil
}

// NormalizeCurrency trims and upper-cases a currency code
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsCurrencyCode reports whether code looks like an ISO 4217 alphabetic code
func IsCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
