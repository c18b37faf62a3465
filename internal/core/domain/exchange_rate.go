package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a cached snapshot of how many units of Currency one unit of BaseCurrency buys.
// There is at most one snapshot per (BaseCurrency, Currency) pair.
type ExchangeRate struct {
	BaseCurrency string          `json:"baseCurrency"`
	Currency     string          `json:"currency"`
	Rate         decimal.Decimal `json:"rate"`
	LastUpdated  time.Time       `json:"lastUpdated"`
}

// RateSet is the answer to "what are the current rates?": every rate is quoted against Base.
// Degraded is set when the set was served from a stale cache after a failed refresh.
type RateSet struct {
	Base  string
	Rates map[string]decimal.Decimal
	// Timestamp is when the rates were fetched from the provider, equal to the cached LastUpdated.
	// The provider's own as-of time is not exposed.
	Timestamp time.Time
	Degraded  bool
}

// Rate returns the rate for code, if present.
func (s *RateSet) Rate(code string) (decimal.Decimal, bool) {
	rate, ok := s.Rates[NormalizeCurrencyCode(code)]
	return rate, ok
}

// ProviderRates is a raw answer from an upstream rate provider.
type ProviderRates struct {
	Base      string
	Rates     map[string]decimal.Decimal
	FetchedAt time.Time
}

// Rebase re-expresses the rates against newBase, which must be present in Rates with a positive value.
// It returns false if that is not possible.
func (p *ProviderRates) Rebase(newBase string) (*ProviderRates, bool) {
	newBase = NormalizeCurrencyCode(newBase)
	if NormalizeCurrencyCode(p.Base) == newBase {
		return p, true
	}
	pivot, ok := p.Rates[newBase]
	if !ok || !pivot.IsPositive() {
		return nil, false
	}
	rebased := make(map[string]decimal.Decimal, len(p.Rates)+1)
	for code, rate := range p.Rates {
		rebased[code] = rate.Div(pivot)
	}
	rebased[newBase] = decimal.NewFromInt(1)
	rebased[NormalizeCurrencyCode(p.Base)] = decimal.NewFromInt(1).Div(pivot)
	return &ProviderRates{Base: newBase, Rates: rebased, FetchedAt: p.FetchedAt}, true
}
