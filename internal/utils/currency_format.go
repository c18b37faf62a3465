package utils

import (
	"github.com/SscSPs/fx_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatWithCurrencyPrecision formats an amount with the display precision of a currency code.
// Example: 12.3456 USD returns "12.35", 12.3456 JPY returns "12".
func FormatWithCurrencyPrecision(amount decimal.Decimal, currencyCode string) string {
	return amount.StringFixed(domain.CurrencyPrecision(currencyCode))
}

// FormatWithPrecision formats an amount with the given precision
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.StringFixed(int32(precision))
}
