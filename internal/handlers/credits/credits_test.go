package credits

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"github.com/GlebRadaev/taskmarket/internal/dto"
	"github.com/GlebRadaev/taskmarket/internal/service/ledgerservice"
	"github.com/GlebRadaev/taskmarket/pkg/auth"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*CreditHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func TestGetBalanceHandler(t *testing.T) {
	tests := []struct {
		name         string
		prepareMock  func(service *MockService)
		expectedCode int
		expectedBody dto.BalanceResponseDTO
	}{
		{
			name: "Successful retrieval",
			prepareMock: func(service *MockService) {
				service.EXPECT().Balance(gomock.Any(), 42).Return(int64(7), nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: dto.BalanceResponseDTO{Credits: 7},
		},
		{
			name: "Internal server error",
			prepareMock: func(service *MockService) {
				service.EXPECT().Balance(gomock.Any(), 42).Return(int64(0), errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			r := httptest.NewRequest(http.MethodGet, "/api/user/credits", nil)
			r = r.WithContext(context.WithValue(r.Context(), auth.UserIDKey, 42))
			w := httptest.NewRecorder()
			handler.GetBalance(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body dto.BalanceResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, tt.expectedBody, body)
			}
		})
	}
}

func TestGetHistoryHandler(t *testing.T) {
	t.Run("History with entries", func(t *testing.T) {
		handler, service := NewMock(t)
		taskID := 7
		service.EXPECT().History(gomock.Any(), 42).Return([]domain.CreditTransaction{
			{UserID: 42, Amount: 3, Type: domain.TxnRefund, RelatedTaskID: &taskID, CreatedAt: time.Now()},
			{UserID: 42, Amount: 3, Type: domain.TxnSpent, RelatedTaskID: &taskID, CreatedAt: time.Now().Add(-time.Hour)},
		}, nil)

		r := httptest.NewRequest(http.MethodGet, "/api/user/credits/history", nil)
		r = r.WithContext(context.WithValue(r.Context(), auth.UserIDKey, 42))
		w := httptest.NewRecorder()
		handler.GetHistory(w, r)
		assert.Equal(t, http.StatusOK, w.Code)

		var body []dto.TransactionResponseDTO
		_ = json.NewDecoder(w.Body).Decode(&body)
		assert.Len(t, body, 2)
		assert.Equal(t, domain.TxnRefund, body[0].Type)
	})

	t.Run("Empty history", func(t *testing.T) {
		handler, service := NewMock(t)
		service.EXPECT().History(gomock.Any(), 42).Return(nil, nil)

		r := httptest.NewRequest(http.MethodGet, "/api/user/credits/history", nil)
		r = r.WithContext(context.WithValue(r.Context(), auth.UserIDKey, 42))
		w := httptest.NewRecorder()
		handler.GetHistory(w, r)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestPurchaseHandler(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		prepareMock  func(service *MockService)
		expectedCode int
	}{
		{
			name: "Successful purchase",
			body: `{"card_number":"4561261212345467","amount":10}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Purchase(gomock.Any(), 42, "4561261212345467", int64(10)).Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Invalid card number",
			body:         `{"card_number":"1234","amount":10}`,
			prepareMock:  func(service *MockService) {},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name:         "Empty card number",
			body:         `{"card_number":"","amount":10}`,
			prepareMock:  func(service *MockService) {},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name:         "Invalid request body",
			body:         `{"card_number":4561,"amount":invalid}`,
			prepareMock:  func(service *MockService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Non-positive amount",
			body: `{"card_number":"4561261212345467","amount":0}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Purchase(gomock.Any(), 42, "4561261212345467", int64(0)).Return(ledgerservice.ErrInvalidAmount)
			},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name: "Payment declined",
			body: `{"card_number":"4561261212345467","amount":10}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Purchase(gomock.Any(), 42, "4561261212345467", int64(10)).Return(ledgerservice.ErrPaymentDeclined)
			},
			expectedCode: http.StatusPaymentRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			r := httptest.NewRequest(http.MethodPost, "/api/user/credits/purchase", bytes.NewBufferString(tt.body))
			r = r.WithContext(context.WithValue(r.Context(), auth.UserIDKey, 42))
			w := httptest.NewRecorder()
			handler.Purchase(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
