package pgsql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/SscSPs/fx_backend/internal/apperrors"
	"github.com/SscSPs/fx_backend/internal/core/domain"
	"github.com/SscSPs/fx_backend/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var transactionColumns = []string{"transaction_id", "user_id", "from_currency", "to_currency", "amount", "converted_amount", "rate", "created_at"}

type TransactionRepositoryTestSuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	repo *PgxTransactionRepository
	ctx  context.Context
}

func (s *TransactionRepositoryTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	s.Require().NoError(err)
	s.mock = mock
	s.repo = newPgxTransactionRepository(mock)
	s.ctx = context.Background()
}

func (s *TransactionRepositoryTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.mock.Close()
}

func TestTransactionRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionRepositoryTestSuite))
}

func (s *TransactionRepositoryTestSuite) row(userID string, createdAt time.Time) []any {
	return []any{uuid.NewString(), userID, "USD", "EUR", decimal.NewFromInt(100), decimal.NewFromInt(93), decimal.RequireFromString("0.93"), createdAt}
}

func (s *TransactionRepositoryTestSuite) TestSaveTransaction() {
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		UserID:          uuid.NewString(),
		FromCurrency:    "USD",
		ToCurrency:      "EUR",
		Amount:          decimal.NewFromInt(100),
		ConvertedAmount: decimal.NewFromInt(93),
		Rate:            decimal.RequireFromString("0.93"),
		CreatedAt:       time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	s.mock.ExpectExec(`INSERT INTO transactions`).
		WithArgs(txn.TransactionID, txn.UserID, "USD", "EUR", txn.Amount, txn.ConvertedAmount, txn.Rate, txn.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	s.NoError(s.repo.SaveTransaction(s.ctx, txn))
}

func (s *TransactionRepositoryTestSuite) TestSaveTransaction_StorageError() {
	s.mock.ExpectExec(`INSERT INTO transactions`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(assert.AnError)

	err := s.repo.SaveTransaction(s.ctx, domain.Transaction{TransactionID: uuid.NewString()})

	s.ErrorIs(err, apperrors.ErrStorage)
	s.ErrorIs(err, assert.AnError)
}

func (s *TransactionRepositoryTestSuite) TestFindTransactionByID_ScopedToOwner() {
	userID := uuid.NewString()
	createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	r := s.row(userID, createdAt)
	txnID := r[0].(string)

	s.mock.ExpectQuery(`WHERE transaction_id = \$1 AND user_id = \$2`).
		WithArgs(txnID, userID).
		WillReturnRows(pgxmock.NewRows(transactionColumns).AddRow(r...))

	txn, err := s.repo.FindTransactionByID(s.ctx, userID, txnID)

	s.Require().NoError(err)
	s.Equal(txnID, txn.TransactionID)
	s.Equal(userID, txn.UserID)
	s.True(txn.ConvertedAmount.Equal(decimal.NewFromInt(93)))
}

func (s *TransactionRepositoryTestSuite) TestFindTransactionByID_OtherUserNotFound() {
	s.mock.ExpectQuery(`WHERE transaction_id = \$1 AND user_id = \$2`).
		WithArgs("txn-1", "intruder").
		WillReturnRows(pgxmock.NewRows(transactionColumns))

	txn, err := s.repo.FindTransactionByID(s.ctx, "intruder", "txn-1")

	s.Nil(txn)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *TransactionRepositoryTestSuite) TestListTransactionsByUser_FirstPageWithMore() {
	userID := uuid.NewString()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows(transactionColumns)
	var all [][]any
	for i := 0; i < 3; i++ {
		r := s.row(userID, base.Add(-time.Duration(i)*time.Minute))
		all = append(all, r)
		rows.AddRow(r...)
	}

	s.mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC, transaction_id DESC LIMIT $2;`)).
		WithArgs(userID, 3).
		WillReturnRows(rows)

	txns, next, err := s.repo.ListTransactionsByUser(s.ctx, userID, 2, nil)

	s.Require().NoError(err)
	s.Len(txns, 2)
	s.Require().NotNil(next)
	createdAt, id, err := pagination.DecodeToken(*next)
	s.Require().NoError(err)
	s.True(createdAt.Equal(all[1][7].(time.Time)))
	s.Equal(all[1][0].(string), id)
}

func (s *TransactionRepositoryTestSuite) TestListTransactionsByUser_LastPageWithCursor() {
	userID := uuid.NewString()
	cursorTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cursorID := uuid.NewString()
	token := pagination.EncodeToken(cursorTime, cursorID)

	s.mock.ExpectQuery(regexp.QuoteMeta(`AND (created_at, transaction_id) < ($2, $3) ORDER BY created_at DESC, transaction_id DESC LIMIT $4;`)).
		WithArgs(userID, cursorTime, cursorID, 11).
		WillReturnRows(pgxmock.NewRows(transactionColumns).AddRow(s.row(userID, cursorTime.Add(-time.Hour))...))

	txns, next, err := s.repo.ListTransactionsByUser(s.ctx, userID, 10, &token)

	s.Require().NoError(err)
	s.Len(txns, 1)
	s.Nil(next)
}

func (s *TransactionRepositoryTestSuite) TestListTransactionsByUser_DefaultLimit() {
	s.mock.ExpectQuery(`FROM transactions`).
		WithArgs("u1", defaultPageSize+1).
		WillReturnRows(pgxmock.NewRows(transactionColumns))

	txns, next, err := s.repo.ListTransactionsByUser(s.ctx, "u1", 0, nil)

	s.Require().NoError(err)
	s.Empty(txns)
	s.Nil(next)
}

func (s *TransactionRepositoryTestSuite) TestListTransactionsByUser_InvalidToken() {
	bad := "%%%"

	_, _, err := s.repo.ListTransactionsByUser(s.ctx, "u1", 10, &bad)

	s.ErrorIs(err, apperrors.ErrValidation)
	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(400, appErr.Code)
}

func (s *TransactionRepositoryTestSuite) TestListTransactionsByUser_TokenWithNonUUIDID() {
	token := pagination.EncodeToken(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), "not-a-uuid")

	txns, next, err := s.repo.ListTransactionsByUser(s.ctx, "u1", 10, &token)

	s.Nil(txns)
	s.Nil(next)
	s.ErrorIs(err, apperrors.ErrValidation)
	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(400, appErr.Code)
}

// Values with more than 12 fractional digits must come back unchanged so the stored
// transaction matches the conversion response.
func (s *TransactionRepositoryTestSuite) TestSaveThenFind_KeepsFullPrecision() {
	converted := decimal.RequireFromString("107.5268817204301075")
	rate := decimal.RequireFromString("1.0752688172043011")
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		UserID:          uuid.NewString(),
		FromCurrency:    "EUR",
		ToCurrency:      "USD",
		Amount:          decimal.NewFromInt(100),
		ConvertedAmount: converted,
		Rate:            rate,
		CreatedAt:       time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	s.mock.ExpectExec(`INSERT INTO transactions`).
		WithArgs(txn.TransactionID, txn.UserID, "EUR", "USD", txn.Amount, converted, rate, txn.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	s.mock.ExpectQuery(`WHERE transaction_id = \$1 AND user_id = \$2`).
		WithArgs(txn.TransactionID, txn.UserID).
		WillReturnRows(pgxmock.NewRows(transactionColumns).
			AddRow(txn.TransactionID, txn.UserID, "EUR", "USD", txn.Amount, converted, rate, txn.CreatedAt))

	require.NoError(s.T(), s.repo.SaveTransaction(s.ctx, txn))
	found, err := s.repo.FindTransactionByID(s.ctx, txn.UserID, txn.TransactionID)

	require.NoError(s.T(), err)
	s.Equal(converted.String(), found.ConvertedAmount.String())
	s.Equal(rate.String(), found.Rate.String())
}
