package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fx_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateReader defines read operations for cached exchange rates
type ExchangeRateReader interface {
	// ListExchangeRates returns every cached snapshot quoted against base, newest first.
	ListExchangeRates(ctx context.Context, base string) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for cached exchange rates
type ExchangeRateWriter interface {
	// UpsertExchangeRate inserts or overwrites the snapshot for (base, currency).
	UpsertExchangeRate(ctx context.Context, base, currency string, rate decimal.Decimal, updatedAt time.Time) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
// This is a facade for clients that need access to all operations
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
