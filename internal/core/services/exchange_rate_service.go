package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fx_backend/internal/apperrors"
	"github.com/SscSPs/fx_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fx_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fx_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentUpserts bounds how many cache writes a single refresh runs at once.
const maxConcurrentUpserts = 8

// ExchangeRateConfig configures the rate cache.
type ExchangeRateConfig struct {
	BaseCurrency        string
	SupportedCurrencies []string
	FreshnessWindow     time.Duration
}

// exchangeRateService serves rates from the persistent cache and refreshes it from the provider once stale.
type exchangeRateService struct {
	BaseService
	rateRepo  portsrepo.ExchangeRateRepositoryFacade
	provider  portssvc.RateProvider
	base      string
	supported domain.SupportedCurrencies
	freshness time.Duration
	now       func() time.Time
}

// ExchangeRateOption is a functional option for configuring the exchange rate service
type ExchangeRateOption func(*exchangeRateService)

// WithClock replaces time.Now, used for freshness checks and cache timestamps.
func WithClock(now func() time.Time) ExchangeRateOption {
	return func(s *exchangeRateService) {
		s.now = now
	}
}

// NewExchangeRateService creates the rate cache manager.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, provider portssvc.RateProvider, cfg ExchangeRateConfig, options ...ExchangeRateOption) portssvc.ExchangeRateSvcFacade {
	svc := &exchangeRateService{
		rateRepo:  rateRepo,
		provider:  provider,
		base:      domain.NormalizeCurrencyCode(cfg.BaseCurrency),
		supported: domain.NewSupportedCurrencies(cfg.SupportedCurrencies...),
		freshness: cfg.FreshnessWindow,
		now:       time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

func (s *exchangeRateService) BaseCurrency() string {
	return s.base
}

func (s *exchangeRateService) SupportedCurrencies() domain.SupportedCurrencies {
	return s.supported
}

// GetExchangeRates returns the cached set while it is fresh, otherwise refreshes it from the provider.
// If the refresh fails and anything is cached, the stale set is returned with Degraded set.
func (s *exchangeRateService) GetExchangeRates(ctx context.Context) (*domain.RateSet, error) {
	cached, err := s.rateRepo.ListExchangeRates(ctx, s.base)
	if err != nil {
		s.LogError(ctx, err, "Failed to read cached exchange rates", slog.String("base", s.base))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrRatesUnavailable, err)
	}

	if len(cached) > 0 && s.now().Sub(cached[0].LastUpdated) < s.freshness {
		s.LogDebug(ctx, "Serving exchange rates from cache",
			slog.String("base", s.base),
			slog.Time("last_updated", cached[0].LastUpdated))
		return s.fromCache(cached, false), nil
	}

	fresh, fetchErr := s.refresh(ctx)
	if fetchErr == nil {
		return fresh, nil
	}

	if len(cached) > 0 {
		s.LogWarn(ctx, fetchErr, "Rate provider unavailable, serving stale exchange rates",
			slog.String("provider", s.provider.Name()),
			slog.String("base", s.base),
			slog.Time("last_updated", cached[0].LastUpdated))
		return s.fromCache(cached, true), nil
	}

	s.LogError(ctx, fetchErr, "Rate provider unavailable and no cached exchange rates",
		slog.String("provider", s.provider.Name()),
		slog.String("base", s.base))
	return nil, fmt.Errorf("%w: %w", apperrors.ErrRatesUnavailable, fetchErr)
}

// refresh fetches the latest rates, stores the supported ones and returns them.
func (s *exchangeRateService) refresh(ctx context.Context) (*domain.RateSet, error) {
	raw, err := s.provider.FetchLatest(ctx, s.base)
	if err != nil {
		return nil, err
	}

	rebased, ok := raw.Rebase(s.base)
	if !ok {
		return nil, apperrors.NewProviderError(s.provider.Name(), 0,
			fmt.Errorf("answer quoted in %s has no usable rate for %s", raw.Base, s.base))
	}

	// Rows and the response share one instant so a later cache hit reports the same timestamp.
	now := s.now()

	rates := make(map[string]decimal.Decimal, len(s.supported))
	for code, rate := range rebased.Rates {
		code = domain.NormalizeCurrencyCode(code)
		if !s.supported.Contains(code) || !rate.IsPositive() {
			continue
		}
		rates[code] = rate
	}
	// One unit of the base is always worth one unit of the base.
	if s.supported.Contains(s.base) {
		rates[s.base] = decimal.NewFromInt(1)
	}

	s.storeRates(ctx, rates, now)

	s.LogInfo(ctx, "Refreshed exchange rates from provider",
		slog.String("provider", s.provider.Name()),
		slog.String("base", s.base),
		slog.Int("count", len(rates)),
		slog.Time("provider_timestamp", rebased.FetchedAt))

	return &domain.RateSet{Base: s.base, Rates: rates, Timestamp: now}, nil
}

// storeRates upserts every rate concurrently and waits for all of them.
// A failed write is logged; the refreshed rates are still served.
func (s *exchangeRateService) storeRates(ctx context.Context, rates map[string]decimal.Decimal, updatedAt time.Time) {
	var g errgroup.Group
	g.SetLimit(maxConcurrentUpserts)
	for code, rate := range rates {
		code, rate := code, rate
		g.Go(func() error {
			if err := s.rateRepo.UpsertExchangeRate(ctx, s.base, code, rate, updatedAt); err != nil {
				return fmt.Errorf("upsert %s/%s: %w", s.base, code, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.LogWarn(ctx, err, "Failed to persist refreshed exchange rates", slog.String("base", s.base))
	}
}

// fromCache builds a rate set from cached snapshots, which arrive newest first.
func (s *exchangeRateService) fromCache(cached []domain.ExchangeRate, degraded bool) *domain.RateSet {
	rates := make(map[string]decimal.Decimal, len(cached))
	for _, snapshot := range cached {
		if !s.supported.Contains(snapshot.Currency) {
			continue
		}
		rates[domain.NormalizeCurrencyCode(snapshot.Currency)] = snapshot.Rate
	}
	return &domain.RateSet{
		Base:      s.base,
		Rates:     rates,
		Timestamp: cached[0].LastUpdated,
		Degraded:  degraded,
	}
}
