package ledgerservice

import (
	"context"
	"errors"
	"testing"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"github.com/GlebRadaev/taskmarket/internal/pg"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Service, *MockUserRepo, *MockTransactionRepo, *MockPaymentProvider) {
	ctrl := gomock.NewController(t)
	userRepo := NewMockUserRepo(ctrl)
	txnRepo := NewMockTransactionRepo(ctrl)
	provider := NewMockPaymentProvider(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn pg.TransactionalFn) error {
			return fn(ctx)
		},
	).AnyTimes()
	service := New(userRepo, txnRepo, provider, txManager)
	defer ctrl.Finish()
	return service, userRepo, txnRepo, provider
}

func TestReserve(t *testing.T) {
	tests := []struct {
		name              string
		userID            int
		amount            int64
		prepareMock       func(userRepo *MockUserRepo, txnRepo *MockTransactionRepo)
		expectedError     error
		expectedShortfall int64
	}{
		{
			name:   "Successful reservation records a spent transaction",
			userID: 42,
			amount: 3,
			prepareMock: func(userRepo *MockUserRepo, txnRepo *MockTransactionRepo) {
				userRepo.EXPECT().ReserveCredits(gomock.Any(), 42, int64(3)).Return(int64(2), true, nil)
				txnRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, txn *domain.CreditTransaction) (*domain.CreditTransaction, error) {
						assert.Equal(t, domain.TxnSpent, txn.Type)
						assert.Equal(t, int64(3), txn.Amount)
						return txn, nil
					})
			},
		},
		{
			name:   "Insufficient balance reports the shortfall",
			userID: 42,
			amount: 3,
			prepareMock: func(userRepo *MockUserRepo, txnRepo *MockTransactionRepo) {
				userRepo.EXPECT().ReserveCredits(gomock.Any(), 42, int64(3)).Return(int64(0), false, nil)
				userRepo.EXPECT().GetByID(gomock.Any(), 42).Return(&domain.User{ID: 42, Credits: 1}, nil)
			},
			expectedError:     ErrInsufficientCredits,
			expectedShortfall: 2,
		},
		{
			name:   "Unknown user",
			userID: 404,
			amount: 3,
			prepareMock: func(userRepo *MockUserRepo, txnRepo *MockTransactionRepo) {
				userRepo.EXPECT().ReserveCredits(gomock.Any(), 404, int64(3)).Return(int64(0), false, nil)
				userRepo.EXPECT().GetByID(gomock.Any(), 404).Return(nil, nil)
			},
			expectedError: ErrUserNotFound,
		},
		{
			name:          "Zero amount is rejected",
			userID:        42,
			amount:        0,
			prepareMock:   func(userRepo *MockUserRepo, txnRepo *MockTransactionRepo) {},
			expectedError: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, userRepo, txnRepo, _ := NewMock(t)
			tt.prepareMock(userRepo, txnRepo)

			err := service.Reserve(context.Background(), tt.userID, tt.amount, nil, "test reservation")
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				if tt.expectedShortfall > 0 {
					var insufficient *InsufficientCreditsError
					assert.True(t, errors.As(err, &insufficient))
					assert.Equal(t, tt.expectedShortfall, insufficient.Shortfall)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRelease(t *testing.T) {
	t.Run("Release credits records a refund transaction", func(t *testing.T) {
		service, userRepo, txnRepo, _ := NewMock(t)
		userRepo.EXPECT().AddCredits(gomock.Any(), 42, int64(3)).Return(int64(5), nil)
		txnRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, txn *domain.CreditTransaction) (*domain.CreditTransaction, error) {
				assert.Equal(t, domain.TxnRefund, txn.Type)
				return txn, nil
			})

		err := service.Release(context.Background(), 42, 3, nil, "test refund")
		assert.NoError(t, err)
	})

	t.Run("Repo failure rolls the release back", func(t *testing.T) {
		service, userRepo, _, _ := NewMock(t)
		userRepo.EXPECT().AddCredits(gomock.Any(), 42, int64(3)).Return(int64(0), errors.New("db error"))

		err := service.Release(context.Background(), 42, 3, nil, "test refund")
		assert.Error(t, err)
	})

	t.Run("Negative amount is rejected", func(t *testing.T) {
		service, _, _, _ := NewMock(t)
		err := service.Release(context.Background(), 42, -1, nil, "test refund")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestCredit(t *testing.T) {
	t.Run("Reward credit", func(t *testing.T) {
		service, userRepo, txnRepo, _ := NewMock(t)
		userRepo.EXPECT().AddCredits(gomock.Any(), 42, int64(5)).Return(int64(5), nil)
		txnRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, txn *domain.CreditTransaction) (*domain.CreditTransaction, error) {
				assert.Equal(t, domain.TxnReward, txn.Type)
				return txn, nil
			})

		err := service.Credit(context.Background(), 42, 5, domain.TxnReward, "signup bonus")
		assert.NoError(t, err)
	})

	t.Run("Spent is not a credit type", func(t *testing.T) {
		service, _, _, _ := NewMock(t)
		err := service.Credit(context.Background(), 42, 5, domain.TxnSpent, "bad")
		assert.Error(t, err)
	})
}

func TestPurchase(t *testing.T) {
	t.Run("Confirmed payment grants the credits", func(t *testing.T) {
		service, userRepo, txnRepo, provider := NewMock(t)
		provider.EXPECT().Charge(gomock.Any(), "4561261212345467", int64(10)).Return(nil)
		userRepo.EXPECT().AddCredits(gomock.Any(), 42, int64(10)).Return(int64(10), nil)
		txnRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, txn *domain.CreditTransaction) (*domain.CreditTransaction, error) {
				assert.Equal(t, domain.TxnPurchase, txn.Type)
				return txn, nil
			})

		err := service.Purchase(context.Background(), 42, "4561261212345467", 10)
		assert.NoError(t, err)
	})

	t.Run("Declined payment grants nothing", func(t *testing.T) {
		service, _, _, provider := NewMock(t)
		provider.EXPECT().Charge(gomock.Any(), "4561261212345467", int64(10)).Return(errors.New("card declined"))

		err := service.Purchase(context.Background(), 42, "4561261212345467", 10)
		assert.ErrorIs(t, err, ErrPaymentDeclined)
	})
}

func TestBalance(t *testing.T) {
	tests := []struct {
		name            string
		prepareMock     func(userRepo *MockUserRepo)
		expectedBalance int64
		expectedError   error
	}{
		{
			name: "Retrieve balance successfully",
			prepareMock: func(userRepo *MockUserRepo) {
				userRepo.EXPECT().GetByID(gomock.Any(), 42).Return(&domain.User{ID: 42, Credits: 7}, nil)
			},
			expectedBalance: 7,
		},
		{
			name: "Unknown user",
			prepareMock: func(userRepo *MockUserRepo) {
				userRepo.EXPECT().GetByID(gomock.Any(), 42).Return(nil, nil)
			},
			expectedError: ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, userRepo, _, _ := NewMock(t)
			tt.prepareMock(userRepo)

			balance, err := service.Balance(context.Background(), 42)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedBalance, balance)
			}
		})
	}
}

func TestHistory(t *testing.T) {
	service, _, txnRepo, _ := NewMock(t)
	txnRepo.EXPECT().ListByUserID(gomock.Any(), 42).Return([]domain.CreditTransaction{
		{UserID: 42, Amount: 3, Type: domain.TxnSpent},
		{UserID: 42, Amount: 3, Type: domain.TxnRefund},
	}, nil)

	txns, err := service.History(context.Background(), 42)
	assert.NoError(t, err)
	assert.Len(t, txns, 2)
}
