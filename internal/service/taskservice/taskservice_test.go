package taskservice

import (
	"context"
	"testing"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Service, *MockRepo, *MockApplicationRepo) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	appRepo := NewMockApplicationRepo(ctrl)
	service := New(repo, appRepo)
	defer ctrl.Finish()
	return service, repo, appRepo
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func TestCreate(t *testing.T) {
	tests := []struct {
		name          string
		creatorID     int
		price         *int64
		isDirectHire  bool
		workerID      *int
		prepareMock   func(repo *MockRepo)
		expectedError error
	}{
		{
			name:      "Open task with a price",
			creatorID: 1,
			price:     int64Ptr(300),
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, task *domain.Task) (*domain.Task, error) {
						assert.True(t, task.IsOpen)
						task.ID = 7
						return task, nil
					})
			},
		},
		{
			name:        "Open task without a price",
			creatorID:   1,
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, task *domain.Task) (*domain.Task, error) {
						task.ID = 8
						return task, nil
					})
			},
		},
		{
			name:         "Direct hire with a worker",
			creatorID:    1,
			price:        int64Ptr(500),
			isDirectHire: true,
			workerID:     intPtr(42),
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, task *domain.Task) (*domain.Task, error) {
						assert.True(t, task.IsDirectHire)
						task.ID = 9
						return task, nil
					})
			},
		},
		{
			name:          "Direct hire without a worker",
			creatorID:     1,
			isDirectHire:  true,
			prepareMock:   func(repo *MockRepo) {},
			expectedError: ErrWorkerRequired,
		},
		{
			name:          "Creator cannot hire themselves",
			creatorID:     1,
			isDirectHire:  true,
			workerID:      intPtr(1),
			prepareMock:   func(repo *MockRepo) {},
			expectedError: ErrCreatorCannotWork,
		},
		{
			name:          "Non-positive price",
			creatorID:     1,
			price:         int64Ptr(0),
			prepareMock:   func(repo *MockRepo) {},
			expectedError: ErrInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, _ := NewMock(t)
			tt.prepareMock(repo)

			task, err := service.Create(context.Background(), tt.creatorID, "title", "description", tt.price, tt.isDirectHire, tt.workerID)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.NotZero(t, task.ID)
			}
		})
	}
}

func TestComplete(t *testing.T) {
	tests := []struct {
		name          string
		actingUserID  int
		prepareMock   func(repo *MockRepo, appRepo *MockApplicationRepo)
		expectedError error
	}{
		{
			name:         "Creator completes a task with accepted work",
			actingUserID: 1,
			prepareMock: func(repo *MockRepo, appRepo *MockApplicationRepo) {
				repo.EXPECT().GetByID(gomock.Any(), 7).Return(&domain.Task{ID: 7, CreatorID: 1}, nil)
				appRepo.EXPECT().ListByTaskID(gomock.Any(), 7).Return([]domain.Application{
					{ID: 3, Status: domain.StatusDeclined},
					{ID: 4, Status: domain.StatusAccepted},
				}, nil)
				repo.EXPECT().MarkCompleted(gomock.Any(), 7, gomock.Any()).Return(nil)
			},
		},
		{
			name:         "No accepted application",
			actingUserID: 1,
			prepareMock: func(repo *MockRepo, appRepo *MockApplicationRepo) {
				repo.EXPECT().GetByID(gomock.Any(), 7).Return(&domain.Task{ID: 7, CreatorID: 1}, nil)
				appRepo.EXPECT().ListByTaskID(gomock.Any(), 7).Return([]domain.Application{
					{ID: 3, Status: domain.StatusPending},
				}, nil)
			},
			expectedError: ErrNoAcceptedWork,
		},
		{
			name:         "Only the creator may complete",
			actingUserID: 42,
			prepareMock: func(repo *MockRepo, appRepo *MockApplicationRepo) {
				repo.EXPECT().GetByID(gomock.Any(), 7).Return(&domain.Task{ID: 7, CreatorID: 1}, nil)
			},
			expectedError: ErrNotCreator,
		},
		{
			name:         "Missing task",
			actingUserID: 1,
			prepareMock: func(repo *MockRepo, appRepo *MockApplicationRepo) {
				repo.EXPECT().GetByID(gomock.Any(), 7).Return(nil, nil)
			},
			expectedError: ErrTaskNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, appRepo := NewMock(t)
			tt.prepareMock(repo, appRepo)

			task, err := service.Complete(context.Background(), 7, tt.actingUserID)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, task.CompletedAt)
				assert.False(t, task.IsOpen)
			}
		})
	}
}

func TestGet(t *testing.T) {
	t.Run("Existing task", func(t *testing.T) {
		service, repo, _ := NewMock(t)
		repo.EXPECT().GetByID(gomock.Any(), 7).Return(&domain.Task{ID: 7}, nil)

		task, err := service.Get(context.Background(), 7)
		assert.NoError(t, err)
		assert.Equal(t, 7, task.ID)
	})

	t.Run("Missing task", func(t *testing.T) {
		service, repo, _ := NewMock(t)
		repo.EXPECT().GetByID(gomock.Any(), 7).Return(nil, nil)

		_, err := service.Get(context.Background(), 7)
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}
