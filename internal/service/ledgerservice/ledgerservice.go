package ledgerservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"github.com/GlebRadaev/taskmarket/internal/pg"
	"go.uber.org/zap"
)

type UserRepo interface {
	GetByID(ctx context.Context, userID int) (*domain.User, error)
	ReserveCredits(ctx context.Context, userID int, amount int64) (int64, bool, error)
	AddCredits(ctx context.Context, userID int, amount int64) (int64, error)
}

type TransactionRepo interface {
	Create(ctx context.Context, txn *domain.CreditTransaction) (*domain.CreditTransaction, error)
	ListByUserID(ctx context.Context, userID int) ([]domain.CreditTransaction, error)
}

// PaymentProvider confirms the real-money side of a credit purchase before
// the credits are granted.
type PaymentProvider interface {
	Charge(ctx context.Context, cardNumber string, amount int64) error
}

var (
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrPaymentDeclined     = errors.New("payment declined")
)

// InsufficientCreditsError carries the exact shortfall so callers can tell
// the user how much to top up. Matches ErrInsufficientCredits via errors.Is.
type InsufficientCreditsError struct {
	Required  int64
	Shortfall int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: need %d more", e.Shortfall)
}

func (e *InsufficientCreditsError) Is(target error) bool {
	return target == ErrInsufficientCredits
}

// Service owns every credit balance mutation. Each mutation is paired with an
// append-only credit_transactions row inside one database transaction.
type Service struct {
	userRepo  UserRepo
	txnRepo   TransactionRepo
	provider  PaymentProvider
	txManager pg.TXManager
}

func New(userRepo UserRepo, txnRepo TransactionRepo, provider PaymentProvider, txManager pg.TXManager) *Service {
	return &Service{
		userRepo:  userRepo,
		txnRepo:   txnRepo,
		provider:  provider,
		txManager: txManager,
	}
}

// Reserve conditionally decrements the balance by amount. The decrement and
// its balance check are a single storage-level operation, so a concurrent
// reservation can never drive the balance negative. Failure leaves no
// partial state.
func (s *Service) Reserve(ctx context.Context, userID int, amount int64, relatedTaskID *int, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.txManager.Begin(ctx, func(ctx context.Context) error {
		newBalance, ok, err := s.userRepo.ReserveCredits(ctx, userID, amount)
		if err != nil {
			zap.L().Error("failed to reserve credits", zap.Error(err))
			return err
		}
		if !ok {
			user, err := s.userRepo.GetByID(ctx, userID)
			if err != nil {
				return err
			}
			if user == nil {
				return ErrUserNotFound
			}
			return &InsufficientCreditsError{Required: amount, Shortfall: amount - user.Credits}
		}

		_, err = s.txnRepo.Create(ctx, &domain.CreditTransaction{
			UserID:        userID,
			Amount:        amount,
			Type:          domain.TxnSpent,
			RelatedTaskID: relatedTaskID,
			Description:   description,
			CreatedAt:     time.Now(),
		})
		if err != nil {
			zap.L().Error("failed to record spent transaction", zap.Error(err))
			return err
		}

		zap.L().Info("credits reserved",
			zap.Int("userID", userID),
			zap.Int64("amount", amount),
			zap.Int64("balance", newBalance),
		)
		return nil
	})
}

// Release returns previously reserved credits to the balance. It always
// succeeds for an existing user; releasing more than was reserved is a caller
// bug, not a ledger condition.
func (s *Service) Release(ctx context.Context, userID int, amount int64, relatedTaskID *int, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.txManager.Begin(ctx, func(ctx context.Context) error {
		newBalance, err := s.userRepo.AddCredits(ctx, userID, amount)
		if err != nil {
			zap.L().Error("failed to release credits", zap.Error(err))
			return err
		}

		_, err = s.txnRepo.Create(ctx, &domain.CreditTransaction{
			UserID:        userID,
			Amount:        amount,
			Type:          domain.TxnRefund,
			RelatedTaskID: relatedTaskID,
			Description:   description,
			CreatedAt:     time.Now(),
		})
		if err != nil {
			zap.L().Error("failed to record refund transaction", zap.Error(err))
			return err
		}

		zap.L().Info("credits released",
			zap.Int("userID", userID),
			zap.Int64("amount", amount),
			zap.Int64("balance", newBalance),
		)
		return nil
	})
}

// Credit tops up the balance for purchase or reward events.
func (s *Service) Credit(ctx context.Context, userID int, amount int64, txnType, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if txnType != domain.TxnPurchase && txnType != domain.TxnReward {
		return fmt.Errorf("unsupported credit transaction type: %s", txnType)
	}
	return s.txManager.Begin(ctx, func(ctx context.Context) error {
		newBalance, err := s.userRepo.AddCredits(ctx, userID, amount)
		if err != nil {
			zap.L().Error("failed to credit user", zap.Error(err))
			return err
		}

		_, err = s.txnRepo.Create(ctx, &domain.CreditTransaction{
			UserID:      userID,
			Amount:      amount,
			Type:        txnType,
			Description: description,
			CreatedAt:   time.Now(),
		})
		if err != nil {
			zap.L().Error("failed to record credit transaction", zap.Error(err))
			return err
		}

		zap.L().Info("credits added",
			zap.Int("userID", userID),
			zap.Int64("amount", amount),
			zap.String("type", txnType),
			zap.Int64("balance", newBalance),
		)
		return nil
	})
}

// Purchase charges the payment provider and, only on confirmation, grants
// the purchased credits.
func (s *Service) Purchase(ctx context.Context, userID int, cardNumber string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if err := s.provider.Charge(ctx, cardNumber, amount); err != nil {
		zap.L().Warn("payment declined",
			zap.Int("userID", userID),
			zap.Int64("amount", amount),
			zap.Error(err),
		)
		return ErrPaymentDeclined
	}
	return s.Credit(ctx, userID, amount, domain.TxnPurchase, "credit purchase")
}

func (s *Service) Balance(ctx context.Context, userID int) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get balance", zap.Error(err))
		return 0, err
	}
	if user == nil {
		return 0, ErrUserNotFound
	}
	return user.Credits, nil
}

func (s *Service) History(ctx context.Context, userID int) ([]domain.CreditTransaction, error) {
	txns, err := s.txnRepo.ListByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch credit history", zap.Error(err))
		return nil, err
	}
	return txns, nil
}
