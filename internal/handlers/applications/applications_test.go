package applications

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"github.com/GlebRadaev/taskmarket/internal/dto"
	"github.com/GlebRadaev/taskmarket/internal/service/applicationservice"
	"github.com/GlebRadaev/taskmarket/internal/service/ledgerservice"
	"github.com/GlebRadaev/taskmarket/pkg/auth"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*ApplicationHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func newRequest(method, target, body string, userID int, params map[string]string) *http.Request {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(r.Context(), auth.UserIDKey, userID)
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

func TestApplyHandler(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		prepareMock  func(service *MockService)
		expectedCode int
	}{
		{
			name: "Apply without a proposal",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Apply(gomock.Any(), 42, 7, (*int64)(nil)).
					Return(&domain.Application{ID: 3, TaskID: 7, ApplicantID: 42, ChargedCredits: 3, Status: domain.StatusPending, CreatedAt: time.Now()}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "Apply with a proposed price",
			body: `{"proposed_price":500}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Apply(gomock.Any(), 42, 7, gomock.Any()).
					Return(&domain.Application{ID: 3, TaskID: 7, ApplicantID: 42, Status: domain.StatusPending, CreatedAt: time.Now()}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "Non-positive proposal",
			body:         `{"proposed_price":-5}`,
			prepareMock:  func(service *MockService) {},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name: "Insufficient credits",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Apply(gomock.Any(), 42, 7, (*int64)(nil)).
					Return(nil, &ledgerservice.InsufficientCreditsError{Required: 3, Shortfall: 2})
			},
			expectedCode: http.StatusPaymentRequired,
		},
		{
			name: "Already applied",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Apply(gomock.Any(), 42, 7, (*int64)(nil)).
					Return(nil, applicationservice.ErrAlreadyApplied)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name: "Task not found",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Apply(gomock.Any(), 42, 7, (*int64)(nil)).
					Return(nil, applicationservice.ErrTaskNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "Blocked applicant",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Apply(gomock.Any(), 42, 7, (*int64)(nil)).
					Return(nil, applicationservice.ErrUnauthorized)
			},
			expectedCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			r := newRequest(http.MethodPost, "/api/tasks/7/applications", tt.body, 42, map[string]string{"taskID": "7"})
			w := httptest.NewRecorder()
			handler.Apply(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestCounterOfferHandler(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		prepareMock  func(service *MockService)
		expectedCode int
	}{
		{
			name: "Successful counter-offer",
			body: `{"price":400}`,
			prepareMock: func(service *MockService) {
				price := int64(400)
				proposer := 42
				service.EXPECT().
					CounterOffer(gomock.Any(), 3, 42, int64(400)).
					Return(&domain.Application{ID: 3, TaskID: 7, ApplicantID: 42, ProposedPrice: &price, LastProposedBy: &proposer, ChargedCredits: 4, Status: domain.StatusCounterProposed, CreatedAt: time.Now()}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Invalid body",
			body:         `{"price":invalid}`,
			prepareMock:  func(service *MockService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Non-positive price",
			body:         `{"price":0}`,
			prepareMock:  func(service *MockService) {},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name: "Terminal application",
			body: `{"price":400}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					CounterOffer(gomock.Any(), 3, 42, int64(400)).
					Return(nil, applicationservice.ErrInvalidState)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name: "Insufficient credits carry the shortfall",
			body: `{"price":900}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					CounterOffer(gomock.Any(), 3, 42, int64(900)).
					Return(nil, &ledgerservice.InsufficientCreditsError{Required: 9, Shortfall: 5})
			},
			expectedCode: http.StatusPaymentRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			r := newRequest(http.MethodPost, "/api/applications/3/counter-offer", tt.body, 42, map[string]string{"applicationID": "3"})
			w := httptest.NewRecorder()
			handler.CounterOffer(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusPaymentRequired {
				assert.Contains(t, w.Body.String(), "need 5 more")
			}
		})
	}
}

func TestAcceptHandler(t *testing.T) {
	tests := []struct {
		name         string
		prepareMock  func(service *MockService)
		expectedCode int
	}{
		{
			name: "Successful acceptance",
			prepareMock: func(service *MockService) {
				now := time.Now()
				service.EXPECT().
					Accept(gomock.Any(), 3, 1).
					Return(&domain.Application{ID: 3, TaskID: 7, ApplicantID: 42, ChargedCredits: 4, Status: domain.StatusAccepted, SelectedAt: &now, CreatedAt: now}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Last proposer cannot accept",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Accept(gomock.Any(), 3, 1).
					Return(nil, applicationservice.ErrUnauthorized)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name: "Unknown application",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Accept(gomock.Any(), 3, 1).
					Return(nil, applicationservice.ErrApplicationNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			r := newRequest(http.MethodPost, "/api/applications/3/accept", "", 1, map[string]string{"applicationID": "3"})
			w := httptest.NewRecorder()
			handler.Accept(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body dto.ApplicationResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, domain.StatusAccepted, body.Status)
				assert.NotEmpty(t, body.SelectedAt)
			}
		})
	}
}

func TestDeclineHandler(t *testing.T) {
	t.Run("Decline", func(t *testing.T) {
		handler, service := NewMock(t)
		service.EXPECT().
			Decline(gomock.Any(), 3, 1, false).
			Return(&domain.Application{ID: 3, TaskID: 7, ApplicantID: 42, Status: domain.StatusDeclined, CreatedAt: time.Now()}, nil)

		r := newRequest(http.MethodPost, "/api/applications/3/decline", "", 1, map[string]string{"applicationID": "3"})
		w := httptest.NewRecorder()
		handler.Decline(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Remove", func(t *testing.T) {
		handler, service := NewMock(t)
		service.EXPECT().
			Decline(gomock.Any(), 3, 1, true).
			Return(&domain.Application{ID: 3, TaskID: 7, ApplicantID: 42, Status: domain.StatusRemoved, CreatedAt: time.Now()}, nil)

		r := newRequest(http.MethodPost, "/api/applications/3/decline?remove=true", "", 1, map[string]string{"applicationID": "3"})
		w := httptest.NewRecorder()
		handler.Decline(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHireOfferHandler(t *testing.T) {
	t.Run("Successful offer", func(t *testing.T) {
		handler, service := NewMock(t)
		price := int64(500)
		service.EXPECT().
			HireOffer(gomock.Any(), 1, 7, 42, int64(500)).
			Return(&domain.Application{ID: 3, TaskID: 7, ApplicantID: 42, ProposedPrice: &price, Status: domain.StatusOffered, CreatedAt: time.Now()}, nil)

		r := newRequest(http.MethodPost, "/api/tasks/7/hire", `{"worker_id":42,"price":500}`, 1, map[string]string{"taskID": "7"})
		w := httptest.NewRecorder()
		handler.HireOffer(w, r)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Not a direct hire", func(t *testing.T) {
		handler, service := NewMock(t)
		service.EXPECT().
			HireOffer(gomock.Any(), 1, 7, 42, int64(500)).
			Return(nil, applicationservice.ErrNotDirectHire)

		r := newRequest(http.MethodPost, "/api/tasks/7/hire", `{"worker_id":42,"price":500}`, 1, map[string]string{"taskID": "7"})
		w := httptest.NewRecorder()
		handler.HireOffer(w, r)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestGetTaskApplicationsHandler(t *testing.T) {
	t.Run("Creator view", func(t *testing.T) {
		handler, service := NewMock(t)
		service.EXPECT().
			ListForTask(gomock.Any(), 7, 1).
			Return([]domain.Application{{ID: 3, TaskID: 7, ApplicantID: 42, CreatedAt: time.Now()}}, nil)

		r := newRequest(http.MethodGet, "/api/tasks/7/applications", "", 1, map[string]string{"taskID": "7"})
		w := httptest.NewRecorder()
		handler.GetTaskApplications(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Non-creator is rejected", func(t *testing.T) {
		handler, service := NewMock(t)
		service.EXPECT().
			ListForTask(gomock.Any(), 7, 42).
			Return(nil, applicationservice.ErrUnauthorized)

		r := newRequest(http.MethodGet, "/api/tasks/7/applications", "", 42, map[string]string{"taskID": "7"})
		w := httptest.NewRecorder()
		handler.GetTaskApplications(w, r)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Empty list", func(t *testing.T) {
		handler, service := NewMock(t)
		service.EXPECT().
			ListForTask(gomock.Any(), 7, 1).
			Return(nil, nil)

		r := newRequest(http.MethodGet, "/api/tasks/7/applications", "", 1, map[string]string{"taskID": "7"})
		w := httptest.NewRecorder()
		handler.GetTaskApplications(w, r)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
