package notification

import (
	"context"
	"time"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"go.uber.org/zap"
)

const deliverTimeout = time.Second * 5

type Repo interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	ListByUserID(ctx context.Context, userID int) ([]domain.Notification, error)
}

// Service fans notifications out through a worker pool. Delivery is
// best-effort and happens outside any financial transaction: a failed
// notification is logged and dropped, never propagated back to the caller.
type Service struct {
	repo       Repo
	workerPool WorkerPoolI
}

func New(repo Repo) *Service {
	return &Service{
		repo:       repo,
		workerPool: NewWorkerPool(10),
	}
}

// Notify enqueues a notification. The row is written by a worker with its own
// timeout so the caller's context (and transaction) is never involved.
func (s *Service) Notify(ctx context.Context, userID int, kind, message string, taskID *int) {
	n := &domain.Notification{
		UserID:    userID,
		Kind:      kind,
		Message:   message,
		TaskID:    taskID,
		CreatedAt: time.Now(),
	}

	err := s.workerPool.AddTask(ctx, func() error {
		deliverCtx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
		defer cancel()

		if _, err := s.repo.Create(deliverCtx, n); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		zap.L().Warn("notification dropped",
			zap.Int("userID", userID),
			zap.String("kind", kind),
			zap.Error(err),
		)
	}
}

func (s *Service) ListForUser(ctx context.Context, userID int) ([]domain.Notification, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *Service) Close() {
	s.workerPool.Close()
}
