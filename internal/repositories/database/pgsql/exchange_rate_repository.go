package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/fx_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fx_backend/internal/core/ports/repositories"
	"github.com/SscSPs/fx_backend/internal/models"
	"github.com/SscSPs/fx_backend/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

// PgxExchangeRateRepository is the persistent rate cache, one row per (base, currency) pair.
type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(pool PgxPool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxExchangeRateRepository implements portsrepo.ExchangeRateRepositoryFacade
var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

// ListExchangeRates returns every snapshot quoted against base, newest first.
func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context, base string) ([]domain.ExchangeRate, error) {
	query := `
		SELECT base_currency, currency, rate, last_updated
		FROM exchange_rates
		WHERE base_currency = $1
		ORDER BY last_updated DESC, currency ASC;
	`
	rows, err := r.Pool.Query(ctx, query, base)
	if err != nil {
		return nil, storageError("failed to query exchange rates for base "+base, err)
	}
	defer rows.Close()

	var rates []models.ExchangeRate
	for rows.Next() {
		var m models.ExchangeRate
		if err := rows.Scan(&m.BaseCurrency, &m.Currency, &m.Rate, &m.LastUpdated); err != nil {
			return nil, storageError("failed to scan exchange rate row", err)
		}
		rates = append(rates, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating exchange rate rows", err)
	}

	return mapping.ToDomainExchangeRateSlice(rates), nil
}

// UpsertExchangeRate inserts the snapshot for (base, currency) or overwrites the existing one.
func (r *PgxExchangeRateRepository) UpsertExchangeRate(ctx context.Context, base, currency string, rate decimal.Decimal, updatedAt time.Time) error {
	query := `
		INSERT INTO exchange_rates (base_currency, currency, rate, last_updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (base_currency, currency) DO UPDATE SET
			rate = EXCLUDED.rate,
			last_updated = EXCLUDED.last_updated;
	`
	if _, err := r.Pool.Exec(ctx, query, base, currency, rate, updatedAt); err != nil {
		return storageError("failed to upsert exchange rate "+base+"/"+currency, err)
	}
	return nil
}
