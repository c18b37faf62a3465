package services

import (
	"context"

	"github.com/SscSPs/fx_backend/internal/core/domain"
	"github.com/SscSPs/fx_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// TransactionReaderSvc defines read operations over a user's own transactions
type TransactionReaderSvc interface {
	// GetTransaction returns a transaction owned by userID.
	GetTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns one page of the user's transactions, newest first.
	ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc defines write operations for transactions
type TransactionWriterSvc interface {
	// RecordTransaction durably records a completed conversion.
	RecordTransaction(ctx context.Context, userID, fromCurrency, toCurrency string, amount, convertedAmount, rate decimal.Decimal) (*domain.Transaction, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
