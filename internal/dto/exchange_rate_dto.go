package dto

import (
	"time"

	"github.com/SscSPs/fx_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts and rates are rendered as JSON numbers rather than strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ExchangeRatesResponse is the current rate set, every rate quoted per one unit of Base.
type ExchangeRatesResponse struct {
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates" swaggertype:"object,number"`
	Timestamp time.Time                  `json:"timestamp"`
}

// ToExchangeRatesResponse converts a domain.RateSet to its API representation.
func ToExchangeRatesResponse(set *domain.RateSet) ExchangeRatesResponse {
	rates := make(map[string]decimal.Decimal, len(set.Rates))
	for code, rate := range set.Rates {
		rates[code] = rate
	}
	return ExchangeRatesResponse{
		Base:      set.Base,
		Rates:     rates,
		Timestamp: set.Timestamp.UTC(),
	}
}

// ConvertCurrencyRequest is the body of a conversion request.
type ConvertCurrencyRequest struct {
	FromCurrency string           `json:"fromCurrency" binding:"required,currency_code"`
	ToCurrency   string           `json:"toCurrency" binding:"required,currency_code"`
	Amount       *decimal.Decimal `json:"amount" binding:"required,decimal_gte0" swaggertype:"number"`
}

// ConversionResponse is returned after a conversion has been recorded.
type ConversionResponse struct {
	ID              string          `json:"id"`
	FromCurrency    string          `json:"fromCurrency"`
	ToCurrency      string          `json:"toCurrency"`
	Amount          decimal.Decimal `json:"amount" swaggertype:"number"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount" swaggertype:"number"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate" swaggertype:"number"`
	Timestamp       time.Time       `json:"timestamp"`
}

// ToConversionResponse converts a domain.ConversionResult to ConversionResponse DTO
func ToConversionResponse(r *domain.ConversionResult) ConversionResponse {
	return ConversionResponse{
		ID:              r.TransactionID,
		FromCurrency:    r.FromCurrency,
		ToCurrency:      r.ToCurrency,
		Amount:          r.Amount,
		ConvertedAmount: r.ConvertedAmount,
		ExchangeRate:    r.ExchangeRate,
		Timestamp:       r.Timestamp.UTC(),
	}
}
