package services

import (
	portsrepo "github.com/SscSPs/fx_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fx_backend/internal/core/ports/services"
	"github.com/SscSPs/fx_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, provider portssvc.RateProvider, publisher portssvc.ConversionEventPublisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, provider, ExchangeRateConfig{
		BaseCurrency:        cfg.BaseCurrency,
		SupportedCurrencies: cfg.SupportedCurrencies,
		FreshnessWindow:     cfg.RatesFreshnessWindow,
	})
	container.Transaction = NewTransactionService(repos.TransactionRepo)
	container.Conversion = NewConversionService(container.ExchangeRate, container.Transaction, WithEventPublisher(publisher))
	container.User = NewUserService(repos.UserRepo)
	container.TokenService = NewTokenService(cfg)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.TokenSvcFacade              = (*tokenService)(nil)
	_ portssvc.GoogleOAuthHandlerSvcFacade = (*googleOAuthHandlerService)(nil)
)
