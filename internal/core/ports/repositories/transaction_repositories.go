package repositories

import (
	"context"

	"github.com/SscSPs/fx_backend/internal/core/domain"
)

// TransactionReader defines read operations for recorded conversions.
// Every read is scoped to the owning user.
type TransactionReader interface {
	// FindTransactionByID returns the transaction only if it belongs to userID, else apperrors.ErrNotFound.
	FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByUser returns one page of the user's transactions newest first,
	// plus a token for the next page (nil on the last page).
	ListTransactionsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for recorded conversions
type TransactionWriter interface {
	// SaveTransaction persists a new, immutable transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
