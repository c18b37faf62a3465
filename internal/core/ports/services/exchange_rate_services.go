package services

import (
	"context"

	"github.com/SscSPs/fx_backend/internal/core/domain"
)

// ExchangeRateSvcFacade serves the current rate set from the cache, refreshing it from the provider when stale.
type ExchangeRateSvcFacade interface {
	// GetExchangeRates returns every supported rate quoted per one unit of the configured base currency.
	// A set served from a stale cache after a failed refresh has Degraded set.
	GetExchangeRates(ctx context.Context) (*domain.RateSet, error)

	// BaseCurrency returns the configured base currency code.
	BaseCurrency() string

	// SupportedCurrencies returns the whitelist of currency codes.
	SupportedCurrencies() domain.SupportedCurrencies
}

// RateProvider fetches the latest rates from an upstream source.
type RateProvider interface {
	// Name identifies the provider in logs and errors.
	Name() string

	// FetchLatest returns the latest rates. The answer may be quoted against a base other than the one requested.
	FetchLatest(ctx context.Context, base string) (*domain.ProviderRates, error)
}
