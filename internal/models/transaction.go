package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table. Rows are insert-only.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	UserID          string          `db:"user_id"`
	FromCurrency    string          `db:"from_currency"`
	ToCurrency      string          `db:"to_currency"`
	Amount          decimal.Decimal `db:"amount"`
	ConvertedAmount decimal.Decimal `db:"converted_amount"`
	Rate            decimal.Decimal `db:"rate"`
	CreatedAt       time.Time       `db:"created_at"`
}
