package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/GlebRadaev/taskmarket/docs"
	adminhandlers "github.com/GlebRadaev/taskmarket/internal/handlers/admin"
	applicationhandlers "github.com/GlebRadaev/taskmarket/internal/handlers/applications"
	authhandlers "github.com/GlebRadaev/taskmarket/internal/handlers/auth"
	credithandlers "github.com/GlebRadaev/taskmarket/internal/handlers/credits"
	notificationhandlers "github.com/GlebRadaev/taskmarket/internal/handlers/notifications"
	reviewhandlers "github.com/GlebRadaev/taskmarket/internal/handlers/reviews"
	taskhandlers "github.com/GlebRadaev/taskmarket/internal/handlers/tasks"
	"github.com/GlebRadaev/taskmarket/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	services := &service.Services{
		AuthService:         authhandlers.NewMockService(ctrl),
		TaskService:         taskhandlers.NewMockService(ctrl),
		ApplicationService:  applicationhandlers.NewMockService(ctrl),
		LedgerService:       credithandlers.NewMockService(ctrl),
		ReviewService:       reviewhandlers.NewMockService(ctrl),
		NotificationService: notificationhandlers.NewMockService(ctrl),
		AdminUserService:    adminhandlers.NewMockUserService(ctrl),
		AdminLedgerService:  adminhandlers.NewMockLedgerService(ctrl),
	}

	h := New(services)
	assert.NotNil(t, h, "Handlers should not be nil")
}

func TestInitRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthHandler := NewMockAuthHandler(ctrl)
	mockTaskHandler := NewMockTaskHandler(ctrl)
	mockApplicationHandler := NewMockApplicationHandler(ctrl)
	mockCreditHandler := NewMockCreditHandler(ctrl)
	mockReviewHandler := NewMockReviewHandler(ctrl)
	mockNotificationHandler := NewMockNotificationHandler(ctrl)
	mockAdminHandler := NewMockAdminHandler(ctrl)

	mockAuthHandler.EXPECT().Register(gomock.Any(), gomock.Any()).AnyTimes()
	mockAuthHandler.EXPECT().Login(gomock.Any(), gomock.Any()).AnyTimes()

	h := &Handlers{
		AuthHandler:         mockAuthHandler,
		TaskHandler:         mockTaskHandler,
		ApplicationHandler:  mockApplicationHandler,
		CreditHandler:       mockCreditHandler,
		ReviewHandler:       mockReviewHandler,
		NotificationHandler: mockNotificationHandler,
		AdminHandler:        mockAdminHandler,
	}

	router := chi.NewRouter()
	h.InitRoutes(router)

	tests := []struct {
		method string
		url    string
		status int
	}{
		{"POST", "/api/user/register", http.StatusOK},
		{"POST", "/api/user/login", http.StatusOK},
		{"POST", "/api/tasks/", http.StatusUnauthorized},
		{"GET", "/api/tasks/", http.StatusUnauthorized},
		{"GET", "/api/tasks/1/", http.StatusUnauthorized},
		{"POST", "/api/tasks/1/complete", http.StatusUnauthorized},
		{"POST", "/api/tasks/1/applications", http.StatusUnauthorized},
		{"GET", "/api/tasks/1/applications", http.StatusUnauthorized},
		{"POST", "/api/tasks/1/hire", http.StatusUnauthorized},
		{"POST", "/api/tasks/1/reviews", http.StatusUnauthorized},
		{"POST", "/api/applications/1/counter-offer", http.StatusUnauthorized},
		{"POST", "/api/applications/1/accept", http.StatusUnauthorized},
		{"POST", "/api/applications/1/decline", http.StatusUnauthorized},
		{"GET", "/api/user/applications", http.StatusUnauthorized},
		{"GET", "/api/user/notifications", http.StatusUnauthorized},
		{"GET", "/api/user/credits/", http.StatusUnauthorized},
		{"GET", "/api/user/credits/history", http.StatusUnauthorized},
		{"POST", "/api/user/credits/purchase", http.StatusUnauthorized},
		{"GET", "/api/users/1/reviews", http.StatusUnauthorized},
		{"POST", "/api/admin/users/1/block", http.StatusUnauthorized},
		{"POST", "/api/admin/users/1/unblock", http.StatusUnauthorized},
		{"POST", "/api/admin/users/1/reward", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
