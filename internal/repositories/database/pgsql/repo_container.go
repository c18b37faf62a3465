package pgsql

import (
	portsrepo "github.com/SscSPs/fx_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider builds every repository over the same pool.
func NewRepositoryProvider(pool PgxPool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ExchangeRateRepo: newPgxExchangeRateRepository(pool),
		TransactionRepo:  newPgxTransactionRepository(pool),
		UserRepo:         newPgxUserRepository(pool),
	}
}
