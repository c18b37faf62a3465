package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/SscSPs/fx_backend/internal/apperrors"
	"github.com/SscSPs/fx_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fx_backend/internal/core/ports/repositories"
	"github.com/SscSPs/fx_backend/internal/models"
	"github.com/SscSPs/fx_backend/internal/utils/mapping"
	"github.com/SscSPs/fx_backend/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const defaultPageSize = 20

// PgxTransactionRepository stores recorded conversions. Every read filters on the owning user.
type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool PgxPool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// SaveTransaction inserts a new transaction row.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (transaction_id, user_id, from_currency, to_currency, amount, converted_amount, rate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID,
		m.UserID,
		m.FromCurrency,
		m.ToCurrency,
		m.Amount,
		m.ConvertedAmount,
		m.Rate,
		m.CreatedAt,
	)
	if err != nil {
		return storageError("failed to save transaction", err)
	}
	return nil
}

// FindTransactionByID returns the transaction only when it is owned by userID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT transaction_id, user_id, from_currency, to_currency, amount, converted_amount, rate, created_at
		FROM transactions
		WHERE transaction_id = $1 AND user_id = $2;
	`
	var m models.Transaction
	err := r.Pool.QueryRow(ctx, query, transactionID, userID).Scan(
		&m.TransactionID,
		&m.UserID,
		&m.FromCurrency,
		&m.ToCurrency,
		&m.Amount,
		&m.ConvertedAmount,
		&m.Rate,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storageError("failed to find transaction "+transactionID, err)
	}

	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// ListTransactionsByUser retrieves a page of the user's transactions using keyset pagination
// over (created_at, transaction_id), newest first.
func (r *PgxTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT transaction_id, user_id, from_currency, to_currency, amount, converted_amount, rate, created_at
		FROM transactions
		WHERE user_id = $1
	`
	orderByClause := `ORDER BY created_at DESC, transaction_id DESC`
	args := []any{userID}
	query := baseQuery

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr == nil {
			// transaction_id is a UUID column; a malformed id would fail in Postgres instead.
			_, decodeErr = uuid.Parse(lastID)
		}
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(http.StatusBadRequest, "invalid nextToken", fmt.Errorf("%w: %w", apperrors.ErrValidation, decodeErr))
		}
		query += ` AND (created_at, transaction_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastID)
	}
	args = append(args, fetchLimit)
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, storageError("failed to query transactions for user "+userID, err)
	}
	defer rows.Close()

	results := make([]models.Transaction, 0, fetchLimit)
	for rows.Next() {
		var m models.Transaction
		if err := rows.Scan(
			&m.TransactionID,
			&m.UserID,
			&m.FromCurrency,
			&m.ToCurrency,
			&m.Amount,
			&m.ConvertedAmount,
			&m.Rate,
			&m.CreatedAt,
		); err != nil {
			return nil, nil, storageError("failed to scan transaction row", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, storageError("error iterating transaction rows", err)
	}

	// The token points at the last item of this page; the next query starts after it.
	var nextTokenVal *string
	if len(results) > limit {
		results = results[:limit]
		last := results[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		nextTokenVal = &token
	}

	return mapping.ToDomainTransactionSlice(results), nextTokenVal, nil
}
