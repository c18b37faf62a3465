package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a row of the exchange_rates table, keyed by (base_currency, currency).
type ExchangeRate struct {
	BaseCurrency string          `db:"base_currency"`
	Currency     string          `db:"currency"`
	Rate         decimal.Decimal `db:"rate"`
	LastUpdated  time.Time       `db:"last_updated"`
}
