package taskservice

import (
	"context"
	"errors"
	"time"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"go.uber.org/zap"
)

type Repo interface {
	GetByID(ctx context.Context, taskID int) (*domain.Task, error)
	Save(ctx context.Context, task *domain.Task) (*domain.Task, error)
	ListOpen(ctx context.Context) ([]domain.Task, error)
	MarkCompleted(ctx context.Context, taskID int, completedAt time.Time) error
}

type ApplicationRepo interface {
	ListByTaskID(ctx context.Context, taskID int) ([]domain.Application, error)
}

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrNotCreator        = errors.New("only the task creator may do this")
	ErrTaskCompleted     = errors.New("task is already completed")
	ErrNoAcceptedWork    = errors.New("task has no accepted application")
	ErrWorkerRequired    = errors.New("direct-hire task needs a worker")
	ErrInvalidPrice      = errors.New("price must be positive")
	ErrCreatorCannotWork = errors.New("creator cannot be the worker")
)

type Service struct {
	repo    Repo
	appRepo ApplicationRepo
}

func New(repo Repo, appRepo ApplicationRepo) *Service {
	return &Service{
		repo:    repo,
		appRepo: appRepo,
	}
}

func (s *Service) Create(ctx context.Context, creatorID int, title, description string, price *int64, isDirectHire bool, workerID *int) (*domain.Task, error) {
	if price != nil && *price <= 0 {
		return nil, ErrInvalidPrice
	}
	if isDirectHire {
		if workerID == nil {
			return nil, ErrWorkerRequired
		}
		if *workerID == creatorID {
			return nil, ErrCreatorCannotWork
		}
	}

	task := &domain.Task{
		CreatorID:    creatorID,
		Title:        title,
		Description:  description,
		Price:        price,
		IsOpen:       true,
		IsDirectHire: isDirectHire,
		WorkerID:     workerID,
		CreatedAt:    time.Now(),
	}
	task, err := s.repo.Save(ctx, task)
	if err != nil {
		zap.L().Error("can't create task", zap.Error(err))
		return nil, err
	}
	zap.L().Info("task created", zap.Int("taskID", task.ID), zap.Int("creatorID", creatorID))
	return task, nil
}

func (s *Service) Get(ctx context.Context, taskID int) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (s *Service) ListOpen(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.repo.ListOpen(ctx)
	if err != nil {
		zap.L().Error("failed to list tasks", zap.Error(err))
		return nil, err
	}
	return tasks, nil
}

// Complete marks the task finished. Requires an accepted application; a
// completed task becomes immutable.
func (s *Service) Complete(ctx context.Context, taskID, actingUserID int) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	if task.CreatorID != actingUserID {
		return nil, ErrNotCreator
	}
	if task.CompletedAt != nil {
		return nil, ErrTaskCompleted
	}

	apps, err := s.appRepo.ListByTaskID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	accepted := false
	for _, app := range apps {
		if app.Status == domain.StatusAccepted {
			accepted = true
			break
		}
	}
	if !accepted {
		return nil, ErrNoAcceptedWork
	}

	now := time.Now()
	if err := s.repo.MarkCompleted(ctx, taskID, now); err != nil {
		zap.L().Error("can't complete task", zap.Error(err))
		return nil, err
	}
	task.CompletedAt = &now
	task.IsOpen = false
	return task, nil
}
