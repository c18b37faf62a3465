package dto

import (
	"time"

	"github.com/SscSPs/fx_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionResponse defines the data returned for a recorded conversion.
type TransactionResponse struct {
	TransactionID   string          `json:"transactionID"`
	FromCurrency    string          `json:"fromCurrency"`
	ToCurrency      string          `json:"toCurrency"`
	Amount          decimal.Decimal `json:"amount" swaggertype:"number"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount" swaggertype:"number"`
	Rate            decimal.Decimal `json:"rate" swaggertype:"number"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ListTransactionsParams defines query parameters for listing a user's transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps one page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		FromCurrency:    txn.FromCurrency,
		ToCurrency:      txn.ToCurrency,
		Amount:          txn.Amount,
		ConvertedAmount: txn.ConvertedAmount,
		Rate:            txn.Rate,
		CreatedAt:       txn.CreatedAt.UTC(),
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
