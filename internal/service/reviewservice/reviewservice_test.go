package reviewservice

import (
	"context"
	"testing"
	"time"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Service, *MockRepo, *MockTaskRepo, *MockApplicationRepo) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	taskRepo := NewMockTaskRepo(ctrl)
	appRepo := NewMockApplicationRepo(ctrl)
	service := New(repo, taskRepo, appRepo)
	defer ctrl.Finish()
	return service, repo, taskRepo, appRepo
}

func completedTask(creatorID int) *domain.Task {
	now := time.Now()
	return &domain.Task{ID: 7, CreatorID: creatorID, CompletedAt: &now}
}

func TestCreateReview(t *testing.T) {
	acceptedApps := []domain.Application{
		{ID: 3, TaskID: 7, ApplicantID: 42, Status: domain.StatusAccepted},
		{ID: 4, TaskID: 7, ApplicantID: 55, Status: domain.StatusDeclined},
	}

	tests := []struct {
		name           string
		authorID       int
		rating         int
		prepareMock    func(repo *MockRepo, taskRepo *MockTaskRepo, appRepo *MockApplicationRepo)
		expectedTarget int
		expectedError  error
	}{
		{
			name:     "Creator reviews the worker",
			authorID: 1,
			rating:   5,
			prepareMock: func(repo *MockRepo, taskRepo *MockTaskRepo, appRepo *MockApplicationRepo) {
				taskRepo.EXPECT().GetByID(gomock.Any(), 7).Return(completedTask(1), nil)
				appRepo.EXPECT().ListByTaskID(gomock.Any(), 7).Return(acceptedApps, nil)
				repo.EXPECT().FindByTaskAndAuthor(gomock.Any(), 7, 1).Return(nil, nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, review *domain.Review) (*domain.Review, error) {
						review.ID = 1
						return review, nil
					})
			},
			expectedTarget: 42,
		},
		{
			name:     "Worker reviews the creator",
			authorID: 42,
			rating:   4,
			prepareMock: func(repo *MockRepo, taskRepo *MockTaskRepo, appRepo *MockApplicationRepo) {
				taskRepo.EXPECT().GetByID(gomock.Any(), 7).Return(completedTask(1), nil)
				appRepo.EXPECT().ListByTaskID(gomock.Any(), 7).Return(acceptedApps, nil)
				repo.EXPECT().FindByTaskAndAuthor(gomock.Any(), 7, 42).Return(nil, nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, review *domain.Review) (*domain.Review, error) {
						review.ID = 2
						return review, nil
					})
			},
			expectedTarget: 1,
		},
		{
			name:     "Declined applicant cannot review",
			authorID: 55,
			rating:   3,
			prepareMock: func(repo *MockRepo, taskRepo *MockTaskRepo, appRepo *MockApplicationRepo) {
				taskRepo.EXPECT().GetByID(gomock.Any(), 7).Return(completedTask(1), nil)
				appRepo.EXPECT().ListByTaskID(gomock.Any(), 7).Return(acceptedApps, nil)
			},
			expectedError: ErrNotParticipant,
		},
		{
			name:     "Second review by the same author is rejected",
			authorID: 1,
			rating:   5,
			prepareMock: func(repo *MockRepo, taskRepo *MockTaskRepo, appRepo *MockApplicationRepo) {
				taskRepo.EXPECT().GetByID(gomock.Any(), 7).Return(completedTask(1), nil)
				appRepo.EXPECT().ListByTaskID(gomock.Any(), 7).Return(acceptedApps, nil)
				repo.EXPECT().FindByTaskAndAuthor(gomock.Any(), 7, 1).Return(&domain.Review{ID: 1}, nil)
			},
			expectedError: ErrAlreadyReviewed,
		},
		{
			name:     "Incomplete task cannot be reviewed",
			authorID: 1,
			rating:   5,
			prepareMock: func(repo *MockRepo, taskRepo *MockTaskRepo, appRepo *MockApplicationRepo) {
				taskRepo.EXPECT().GetByID(gomock.Any(), 7).Return(&domain.Task{ID: 7, CreatorID: 1}, nil)
			},
			expectedError: ErrTaskNotCompleted,
		},
		{
			name:          "Rating out of range",
			authorID:      1,
			rating:        6,
			prepareMock:   func(repo *MockRepo, taskRepo *MockTaskRepo, appRepo *MockApplicationRepo) {},
			expectedError: ErrInvalidRating,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, taskRepo, appRepo := NewMock(t)
			tt.prepareMock(repo, taskRepo, appRepo)

			review, err := service.Create(context.Background(), 7, tt.authorID, tt.rating, "comment")
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedTarget, review.TargetID)
				assert.Equal(t, tt.rating, review.Rating)
			}
		})
	}
}

func TestListForUser(t *testing.T) {
	service, repo, _, _ := NewMock(t)
	repo.EXPECT().ListByTargetID(gomock.Any(), 42).Return([]domain.Review{{ID: 1, TargetID: 42}}, nil)

	reviews, err := service.ListForUser(context.Background(), 42)
	assert.NoError(t, err)
	assert.Len(t, reviews, 1)
}
