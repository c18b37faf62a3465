package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/fx_backend/internal/apperrors"
	"github.com/SscSPs/fx_backend/internal/core/domain"
	"github.com/SscSPs/fx_backend/internal/utils/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) ListExchangeRates(ctx context.Context, base string) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) UpsertExchangeRate(ctx context.Context, base, currency string, rate decimal.Decimal, updatedAt time.Time) error {
	args := m.Called(ctx, base, currency, rate, updatedAt)
	return args.Error(0)
}

// --- Mock RateProvider ---
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) Name() string {
	return "mock"
}

func (m *MockRateProvider) FetchLatest(ctx context.Context, base string) (*domain.ProviderRates, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderRates), args.Error(1)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByProviderID(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	args := m.Called(ctx, provider, providerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Mock ConversionEventPublisher ---
type MockConversionPublisher struct {
	mock.Mock
}

func (m *MockConversionPublisher) PublishConversion(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockConversionPublisher) Close() error {
	return m.Called().Error(0)
}

// memoryTransactionRepository keeps transactions in memory with the same ownership
// and ordering rules as the Postgres repository.
type memoryTransactionRepository struct {
	mu   sync.Mutex
	txns []domain.Transaction
}

func (r *memoryTransactionRepository) SaveTransaction(_ context.Context, txn domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txns = append(r.txns, txn)
	return nil
}

func (r *memoryTransactionRepository) FindTransactionByID(_ context.Context, userID, transactionID string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, txn := range r.txns {
		if txn.TransactionID == transactionID && txn.UserID == userID {
			found := txn
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memoryTransactionRepository) ListTransactionsByUser(_ context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var owned []domain.Transaction
	for _, txn := range r.txns {
		if txn.UserID == userID {
			owned = append(owned, txn)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].TransactionID > owned[j].TransactionID
		}
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	if nextToken != nil {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		start := len(owned)
		for i, txn := range owned {
			if txn.CreatedAt.Before(createdAt) || (txn.CreatedAt.Equal(createdAt) && txn.TransactionID < id) {
				start = i
				break
			}
		}
		owned = owned[start:]
	}

	if len(owned) > limit {
		owned = owned[:limit]
		last := owned[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		return owned, &token, nil
	}
	return owned, nil, nil
}
