package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/fx_backend/internal/apperrors"
	"github.com/SscSPs/fx_backend/internal/core/domain"
	portssvc "github.com/SscSPs/fx_backend/internal/core/ports/services"
	"github.com/SscSPs/fx_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var testSupported = []string{"USD", "EUR", "GBP", "JPY"}

// --- Test Suite ---
type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRateRepo *MockExchangeRateRepository
	mockProvider *MockRateProvider
	now          time.Time
	service      portssvc.ExchangeRateSvcFacade
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.mockProvider = new(MockRateProvider)
	suite.now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	suite.service = services.NewExchangeRateService(suite.mockRateRepo, suite.mockProvider, services.ExchangeRateConfig{
		BaseCurrency:        "usd",
		SupportedCurrencies: testSupported,
		FreshnessWindow:     time.Hour,
	}, services.WithClock(func() time.Time { return suite.now }))
}

func (suite *ExchangeRateServiceTestSuite) cached(age time.Duration) []domain.ExchangeRate {
	updated := suite.now.Add(-age)
	return []domain.ExchangeRate{
		{BaseCurrency: "USD", Currency: "EUR", Rate: decimal.RequireFromString("0.90"), LastUpdated: updated},
		{BaseCurrency: "USD", Currency: "USD", Rate: decimal.NewFromInt(1), LastUpdated: updated.Add(-time.Second)},
	}
}

func (suite *ExchangeRateServiceTestSuite) expectUpserts(err error) {
	suite.mockRateRepo.On("UpsertExchangeRate", mock.Anything, "USD", mock.AnythingOfType("string"), mock.AnythingOfType("decimal.Decimal"), suite.now).Return(err)
}

func (suite *ExchangeRateServiceTestSuite) TestConfigAccessors() {
	suite.Equal("USD", suite.service.BaseCurrency())
	suite.True(suite.service.SupportedCurrencies().Contains("gbp"))
	suite.False(suite.service.SupportedCurrencies().Contains("CHF"))
}

func (suite *ExchangeRateServiceTestSuite) TestFreshCacheSkipsProvider() {
	ctx := context.Background()
	suite.mockRateRepo.On("ListExchangeRates", ctx, "USD").Return(suite.cached(10*time.Minute), nil).Once()

	set, err := suite.service.GetExchangeRates(ctx)

	suite.Require().NoError(err)
	suite.False(set.Degraded)
	suite.Equal("USD", set.Base)
	suite.Equal(suite.now.Add(-10*time.Minute), set.Timestamp)
	suite.True(set.Rates["EUR"].Equal(decimal.RequireFromString("0.90")))
	suite.mockProvider.AssertNotCalled(suite.T(), "FetchLatest", mock.Anything, mock.Anything)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "UpsertExchangeRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestStaleCacheRefreshesAndFilters() {
	ctx := context.Background()
	fetchedAt := suite.now.Add(-5 * time.Minute)
	suite.mockRateRepo.On("ListExchangeRates", ctx, "USD").Return(suite.cached(2*time.Hour), nil).Once()
	suite.mockProvider.On("FetchLatest", ctx, "USD").Return(&domain.ProviderRates{
		Base: "USD",
		Rates: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(1),
			"EUR": decimal.RequireFromString("0.93"),
			"GBP": decimal.RequireFromString("0.79"),
			"XYZ": decimal.NewFromInt(5),
		},
		FetchedAt: fetchedAt,
	}, nil).Once()
	suite.expectUpserts(nil)

	set, err := suite.service.GetExchangeRates(ctx)

	suite.Require().NoError(err)
	suite.False(set.Degraded)
	suite.Equal(suite.now, set.Timestamp, "refresh time, not the provider's as-of time")
	suite.Len(set.Rates, 3)
	suite.True(set.Rates["EUR"].Equal(decimal.RequireFromString("0.93")))
	suite.NotContains(set.Rates, "XYZ")
	suite.mockRateRepo.AssertNumberOfCalls(suite.T(), "UpsertExchangeRate", 3)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "UpsertExchangeRate", mock.Anything, "USD", "XYZ", mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestEmptyCacheFetches() {
	ctx := context.Background()
	suite.mockRateRepo.On("ListExchangeRates", ctx, "USD").Return([]domain.ExchangeRate{}, nil).Once()
	suite.mockProvider.On("FetchLatest", ctx, "USD").Return(&domain.ProviderRates{
		Base:      "USD",
		Rates:     map[string]decimal.Decimal{"JPY": decimal.RequireFromString("151.37")},
		FetchedAt: suite.now,
	}, nil).Once()
	suite.expectUpserts(nil)

	set, err := suite.service.GetExchangeRates(ctx)

	suite.Require().NoError(err)
	suite.True(set.Rates["JPY"].Equal(decimal.RequireFromString("151.37")))
	suite.True(set.Rates["USD"].Equal(decimal.NewFromInt(1)), "base rate is always present")
}

func (suite *ExchangeRateServiceTestSuite) TestRefreshTimestampMatchesLaterCacheHit() {
	ctx := context.Background()
	suite.mockRateRepo.On("ListExchangeRates", ctx, "USD").Return([]domain.ExchangeRate{}, nil).Once()
	suite.mockProvider.On("FetchLatest", ctx, "USD").Return(&domain.ProviderRates{
		Base:      "USD",
		Rates:     map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.93")},
		FetchedAt: suite.now.Add(-45 * time.Minute),
	}, nil).Once()

	var stored []domain.ExchangeRate
	var mu sync.Mutex
	suite.mockRateRepo.On("UpsertExchangeRate", mock.Anything, "USD", mock.AnythingOfType("string"), mock.AnythingOfType("decimal.Decimal"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			mu.Lock()
			defer mu.Unlock()
			stored = append(stored, domain.ExchangeRate{
				BaseCurrency: args.String(1),
				Currency:     args.String(2),
				Rate:         args.Get(3).(decimal.Decimal),
				LastUpdated:  args.Get(4).(time.Time),
			})
		}).
		Return(nil)

	refreshed, err := suite.service.GetExchangeRates(ctx)
	suite.Require().NoError(err)
	suite.Require().NotEmpty(stored)

	suite.mockRateRepo.On("ListExchangeRates", ctx, "USD").Return(stored, nil).Once()
	cachedSet, err := suite.service.GetExchangeRates(ctx)

	suite.Require().NoError(err)
	suite.Equal(refreshed.Timestamp, cachedSet.Timestamp)
	suite.mockProvider.AssertNumberOfCalls(suite.T(), "FetchLatest", 1)
}

func (suite *ExchangeRateServiceTestSuite) TestStaleCacheProviderFailureServesStale() {
	ctx := context.Background()
	stale := suite.cached(3 * time.Hour)
	suite.mockRateRepo.On("ListExchangeRates", ctx, "USD").Return(stale, nil).Once()
	suite.mockProvider.On("FetchLatest", ctx, "USD").
		Return(nil, apperrors.NewProviderError("mock", 429, errors.New("quota exceeded"))).Once()

	set, err := suite.service.GetExchangeRates(ctx)

	suite.Require().NoError(err)
	suite.True(set.Degraded)
	suite.Equal(stale[0].LastUpdated, set.Timestamp)
	suite.True(set.Rates["EUR"].Equal(decimal.RequireFromString("0.90")))
	suite.mockRateRepo.AssertNotCalled(suite.T(), "UpsertExchangeRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestEmptyCacheProviderFailure() {
	ctx := context.Background()
	providerErr := apperrors.NewProviderError("mock", 0, errors.New("connection refused"))
	suite.mockRateRepo.On("ListExchangeRates", ctx, "USD").Return([]domain.ExchangeRate{}, nil).Once()
	suite.mockProvider.On("FetchLatest", ctx, "USD").Return(nil, providerErr).Once()

	set, err := suite.service.GetExchangeRates(ctx)

	suite.Nil(set)
	suite.ErrorIs(err, apperrors.ErrRatesUnavailable)
	suite.ErrorIs(err, apperrors.ErrProvider)
}

func (suite *ExchangeRateServiceTestSuite) TestStoreReadFailureDoesNotFetch() {
	ctx := context.Background()
	storeErr := errors.New("connection reset")
	suite.mockRateRepo.On("ListExchangeRates", ctx, "USD").Return(nil, storeErr).Once()

	set, err := suite.service.GetExchangeRates(ctx)

	suite.Nil(set)
	suite.ErrorIs(err, apperrors.ErrRatesUnavailable)
	suite.ErrorIs(err, storeErr)
	suite.mockProvider.AssertNotCalled(suite.T(), "FetchLatest", mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestUpsertFailureStillServesFreshRates() {
	ctx := context.Background()
	suite.mockRateRepo.On("ListExchangeRates", ctx, "USD").Return(suite.cached(2*time.Hour), nil).Once()
	suite.mockProvider.On("FetchLatest", ctx, "USD").Return(&domain.ProviderRates{
		Base:      "USD",
		Rates:     map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.95")},
		FetchedAt: suite.now,
	}, nil).Once()
	suite.expectUpserts(apperrors.ErrStorage)

	set, err := suite.service.GetExchangeRates(ctx)

	suite.Require().NoError(err)
	suite.False(set.Degraded)
	suite.True(set.Rates["EUR"].Equal(decimal.RequireFromString("0.95")))
}

func (suite *ExchangeRateServiceTestSuite) TestProviderAnswersInOtherBase() {
	ctx := context.Background()
	suite.mockRateRepo.On("ListExchangeRates", ctx, "USD").Return([]domain.ExchangeRate{}, nil).Once()
	suite.mockProvider.On("FetchLatest", ctx, "USD").Return(&domain.ProviderRates{
		Base: "EUR",
		Rates: map[string]decimal.Decimal{
			"USD": decimal.RequireFromString("1.25"),
			"GBP": decimal.RequireFromString("0.85"),
		},
		FetchedAt: suite.now,
	}, nil).Once()
	suite.expectUpserts(nil)

	set, err := suite.service.GetExchangeRates(ctx)

	suite.Require().NoError(err)
	suite.Equal("USD", set.Base)
	suite.True(set.Rates["USD"].Equal(decimal.NewFromInt(1)))
	suite.True(set.Rates["EUR"].Equal(decimal.RequireFromString("0.8")), "got %s", set.Rates["EUR"])
	suite.True(set.Rates["GBP"].Equal(decimal.RequireFromString("0.68")), "got %s", set.Rates["GBP"])
}

func (suite *ExchangeRateServiceTestSuite) TestProviderOtherBaseWithoutPivotFallsBack() {
	ctx := context.Background()
	suite.mockRateRepo.On("ListExchangeRates", ctx, "USD").Return(suite.cached(2*time.Hour), nil).Once()
	suite.mockProvider.On("FetchLatest", ctx, "USD").Return(&domain.ProviderRates{
		Base:      "EUR",
		Rates:     map[string]decimal.Decimal{"GBP": decimal.RequireFromString("0.85")},
		FetchedAt: suite.now,
	}, nil).Once()

	set, err := suite.service.GetExchangeRates(ctx)

	suite.Require().NoError(err)
	suite.True(set.Degraded)
	suite.True(set.Rates["EUR"].Equal(decimal.RequireFromString("0.90")))
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
