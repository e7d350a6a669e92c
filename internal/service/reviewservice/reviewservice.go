package reviewservice

import (
	"context"
	"errors"
	"time"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"go.uber.org/zap"
)

type Repo interface {
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	FindByTaskAndAuthor(ctx context.Context, taskID, authorID int) (*domain.Review, error)
	ListByTargetID(ctx context.Context, targetID int) ([]domain.Review, error)
}

type TaskRepo interface {
	GetByID(ctx context.Context, taskID int) (*domain.Task, error)
}

type ApplicationRepo interface {
	ListByTaskID(ctx context.Context, taskID int) ([]domain.Application, error)
}

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTaskNotCompleted = errors.New("task is not completed yet")
	ErrNotParticipant   = errors.New("only the parties of the accepted application may review")
	ErrAlreadyReviewed  = errors.New("review already left for this task")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
)

type Service struct {
	repo     Repo
	taskRepo TaskRepo
	appRepo  ApplicationRepo
}

func New(repo Repo, taskRepo TaskRepo, appRepo ApplicationRepo) *Service {
	return &Service{
		repo:     repo,
		taskRepo: taskRepo,
		appRepo:  appRepo,
	}
}

// Create leaves a review on a completed task. Only the creator and the
// accepted applicant may review, each once, always targeting the other party.
func (s *Service) Create(ctx context.Context, taskID, authorID, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	if task.CompletedAt == nil {
		return nil, ErrTaskNotCompleted
	}

	apps, err := s.appRepo.ListByTaskID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	var accepted *domain.Application
	for i := range apps {
		if apps[i].Status == domain.StatusAccepted {
			accepted = &apps[i]
			break
		}
	}
	if accepted == nil {
		return nil, ErrNotParticipant
	}

	var targetID int
	switch authorID {
	case task.CreatorID:
		targetID = accepted.ApplicantID
	case accepted.ApplicantID:
		targetID = task.CreatorID
	default:
		return nil, ErrNotParticipant
	}

	existing, err := s.repo.FindByTaskAndAuthor(ctx, taskID, authorID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyReviewed
	}

	review := &domain.Review{
		TaskID:    taskID,
		AuthorID:  authorID,
		TargetID:  targetID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}
	review, err = s.repo.Create(ctx, review)
	if err != nil {
		zap.L().Error("can't create review", zap.Error(err))
		return nil, err
	}
	return review, nil
}

func (s *Service) ListForUser(ctx context.Context, userID int) ([]domain.Review, error) {
	reviews, err := s.repo.ListByTargetID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch reviews", zap.Error(err))
		return nil, err
	}
	return reviews, nil
}
