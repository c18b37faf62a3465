package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fx_backend/internal/apperrors"
	"github.com/SscSPs/fx_backend/internal/core/domain"
	portssvc "github.com/SscSPs/fx_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// defaultPublishTimeout bounds the event publish so a slow broker cannot hold the request open.
const defaultPublishTimeout = 3 * time.Second

type conversionService struct {
	BaseService
	rates          portssvc.ExchangeRateSvcFacade
	transactions   portssvc.TransactionWriterSvc
	publisher      portssvc.ConversionEventPublisher
	publishTimeout time.Duration
}

// ConversionOption is a functional option for configuring the conversion service
type ConversionOption func(*conversionService)

// WithEventPublisher announces every recorded conversion through publisher.
func WithEventPublisher(publisher portssvc.ConversionEventPublisher) ConversionOption {
	return func(s *conversionService) {
		s.publisher = publisher
	}
}

// WithPublishTimeout overrides how long a single conversion event publish may take.
func WithPublishTimeout(d time.Duration) ConversionOption {
	return func(s *conversionService) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

// NewConversionService creates the conversion engine.
func NewConversionService(rates portssvc.ExchangeRateSvcFacade, transactions portssvc.TransactionWriterSvc, options ...ConversionOption) portssvc.ConversionSvcFacade {
	svc := &conversionService{
		rates:          rates,
		transactions:   transactions,
		publishTimeout: defaultPublishTimeout,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ConversionSvcFacade = (*conversionService)(nil)

// ConvertCurrency converts amount through the base currency at the current rates and records the result.
func (s *conversionService) ConvertCurrency(ctx context.Context, userID, fromCurrency, toCurrency string, amount decimal.Decimal) (*domain.ConversionResult, error) {
	from := domain.NormalizeCurrencyCode(fromCurrency)
	to := domain.NormalizeCurrencyCode(toCurrency)

	if amount.IsNegative() {
		return nil, apperrors.NewValidationError("amount must not be negative")
	}
	supported := s.rates.SupportedCurrencies()
	if !supported.Contains(from) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedCurrency, fromCurrency)
	}
	if !supported.Contains(to) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedCurrency, toCurrency)
	}

	rateSet, err := s.rates.GetExchangeRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange rates: %w", err)
	}

	fromRate, ok := rateSet.Rate(from)
	if !ok || !fromRate.IsPositive() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrRateUnavailable, from)
	}
	toRate, ok := rateSet.Rate(to)
	if !ok || !toRate.IsPositive() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrRateUnavailable, to)
	}

	converted, effectiveRate := domain.CrossConvert(amount, fromRate, toRate)

	txn, err := s.transactions.RecordTransaction(ctx, userID, from, to, amount, converted, effectiveRate)
	if err != nil {
		return nil, err
	}

	if rateSet.Degraded {
		s.LogWarn(ctx, nil, "Conversion used stale exchange rates",
			slog.String("transaction_id", txn.TransactionID),
			slog.Time("rates_timestamp", rateSet.Timestamp))
	}

	if s.publisher != nil {
		pubCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
		if pubErr := s.publisher.PublishConversion(pubCtx, *txn); pubErr != nil {
			s.LogWarn(ctx, pubErr, "Failed to publish conversion event",
				slog.String("transaction_id", txn.TransactionID))
		}
		cancel()
	}

	return &domain.ConversionResult{
		TransactionID:   txn.TransactionID,
		FromCurrency:    txn.FromCurrency,
		ToCurrency:      txn.ToCurrency,
		Amount:          txn.Amount,
		ConvertedAmount: txn.ConvertedAmount,
		ExchangeRate:    txn.Rate,
		Timestamp:       txn.CreatedAt,
	}, nil
}
