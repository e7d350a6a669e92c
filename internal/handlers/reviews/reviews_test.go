package reviews

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"github.com/GlebRadaev/taskmarket/internal/dto"
	"github.com/GlebRadaev/taskmarket/internal/service/reviewservice"
	"github.com/GlebRadaev/taskmarket/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*ReviewHandler, *MockService) {
	ctrl := gomock.NewController(t)
	reviewService := NewMockService(ctrl)
	handler := New(reviewService)
	defer ctrl.Finish()
	return handler, reviewService
}

func newRequest(method, target string, body []byte, userID int, params map[string]string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := context.WithValue(r.Context(), auth.UserIDKey, userID)

	if len(params) > 0 {
		routeCtx := chi.NewRouteContext()
		for k, v := range params {
			routeCtx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	}
	return r.WithContext(ctx)
}

func TestCreateReviewHandler(t *testing.T) {
	tests := []struct {
		name         string
		taskID       string
		body         string
		prepareMock  func(service *MockService)
		expectedCode int
	}{
		{
			name:   "Successful creation",
			taskID: "7",
			body:   `{"rating":5,"comment":"great work"}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), 7, 42, 5, "great work").
					Return(&domain.Review{ID: 1, TaskID: 7, AuthorID: 42, TargetID: 13, Rating: 5, Comment: "great work"}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:   "Invalid rating",
			taskID: "7",
			body:   `{"rating":6}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), 7, 42, 6, "").Return(nil, reviewservice.ErrInvalidRating)
			},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name:   "Task not found",
			taskID: "99",
			body:   `{"rating":4}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), 99, 42, 4, "").Return(nil, reviewservice.ErrTaskNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:   "Not a participant",
			taskID: "7",
			body:   `{"rating":4}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), 7, 42, 4, "").Return(nil, reviewservice.ErrNotParticipant)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name:   "Task not completed",
			taskID: "7",
			body:   `{"rating":4}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), 7, 42, 4, "").Return(nil, reviewservice.ErrTaskNotCompleted)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:   "Already reviewed",
			taskID: "7",
			body:   `{"rating":4}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), 7, 42, 4, "").Return(nil, reviewservice.ErrAlreadyReviewed)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:         "Invalid task id",
			taskID:       "abc",
			body:         `{"rating":4}`,
			prepareMock:  func(service *MockService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Invalid request body",
			taskID:       "7",
			body:         `{"rating":invalid}`,
			prepareMock:  func(service *MockService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:   "Internal server error",
			taskID: "7",
			body:   `{"rating":4}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), 7, 42, 4, "").Return(nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			r := newRequest(http.MethodPost, "/api/tasks/"+tt.taskID+"/reviews", []byte(tt.body), 42, map[string]string{"taskID": tt.taskID})
			w := httptest.NewRecorder()
			handler.CreateReview(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)

			if tt.expectedCode == http.StatusCreated {
				var resp dto.ReviewResponseDTO
				err := json.NewDecoder(w.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, 7, resp.TaskID)
				assert.Equal(t, 5, resp.Rating)
			}
		})
	}
}

func TestGetUserReviewsHandler(t *testing.T) {
	tests := []struct {
		name         string
		userID       string
		prepareMock  func(service *MockService)
		expectedCode int
		expectedLen  int
	}{
		{
			name:   "Successful list",
			userID: "13",
			prepareMock: func(service *MockService) {
				service.EXPECT().ListForUser(gomock.Any(), 13).Return([]domain.Review{
					{ID: 1, TaskID: 7, AuthorID: 42, TargetID: 13, Rating: 5},
					{ID: 2, TaskID: 8, AuthorID: 44, TargetID: 13, Rating: 3},
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedLen:  2,
		},
		{
			name:   "No reviews",
			userID: "13",
			prepareMock: func(service *MockService) {
				service.EXPECT().ListForUser(gomock.Any(), 13).Return(nil, nil)
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name:         "Invalid user id",
			userID:       "abc",
			prepareMock:  func(service *MockService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:   "Internal server error",
			userID: "13",
			prepareMock: func(service *MockService) {
				service.EXPECT().ListForUser(gomock.Any(), 13).Return(nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			r := newRequest(http.MethodGet, "/api/users/"+tt.userID+"/reviews", nil, 42, map[string]string{"userID": tt.userID})
			w := httptest.NewRecorder()
			handler.GetUserReviews(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)

			if tt.expectedCode == http.StatusOK {
				var resp []dto.ReviewResponseDTO
				err := json.NewDecoder(w.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Len(t, resp, tt.expectedLen)
			}
		})
	}
}
