package services

import (
	"context"

	"github.com/SscSPs/fx_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConversionSvcFacade converts amounts between supported currencies and records each conversion.
type ConversionSvcFacade interface {
	// ConvertCurrency converts amount from one currency to another at the current rates
	// and records exactly one transaction for userID on success.
	ConvertCurrency(ctx context.Context, userID, fromCurrency, toCurrency string, amount decimal.Decimal) (*domain.ConversionResult, error)
}

// ConversionEventPublisher announces recorded conversions to downstream consumers.
type ConversionEventPublisher interface {
	PublishConversion(ctx context.Context, txn domain.Transaction) error
	Close() error
}
