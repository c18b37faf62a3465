package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the immutable record of one completed currency conversion.
// It is owned by exactly one user and is only visible to that user.
type Transaction struct {
	TransactionID   string          `json:"transactionID"` // Primary Key (UUID)
	UserID          string          `json:"userID"`        // FK -> User.userID (Not Null)
	FromCurrency    string          `json:"fromCurrency"`
	ToCurrency      string          `json:"toCurrency"`
	Amount          decimal.Decimal `json:"amount"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	Rate            decimal.Decimal `json:"rate"` // Units of ToCurrency per unit of FromCurrency
	CreatedAt       time.Time       `json:"createdAt"`
}

// ConversionResult is returned to the caller of a successful conversion.
type ConversionResult struct {
	TransactionID   string
	FromCurrency    string
	ToCurrency      string
	Amount          decimal.Decimal
	ConvertedAmount decimal.Decimal
	ExchangeRate    decimal.Decimal
	Timestamp       time.Time
}

// CrossConvert converts amount between two currencies whose rates are both quoted per unit of
// the same base currency. It returns the converted amount and the effective from->to rate.
// Both rates must be positive.
func CrossConvert(amount, fromRate, toRate decimal.Decimal) (converted decimal.Decimal, effectiveRate decimal.Decimal) {
	valueInBase := amount.Div(fromRate)
	converted = valueInBase.Mul(toRate)
	effectiveRate = toRate.Div(fromRate)
	return converted, effectiveRate
}
