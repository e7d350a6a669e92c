package service

import (
	"testing"

	"github.com/GlebRadaev/taskmarket/internal/notification"
	"github.com/GlebRadaev/taskmarket/internal/pg"
	"github.com/GlebRadaev/taskmarket/internal/repo"
	"github.com/GlebRadaev/taskmarket/internal/service/ledgerservice"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mockDB.Close()

	mockTxManager := pg.NewMockTXManager(ctrl)
	repos := repo.New(mockDB, mockTxManager)
	notifier := notification.New(repos.NotificationRepo)
	defer notifier.Close()
	provider := ledgerservice.NewMockPaymentProvider(ctrl)

	services := New(repos, mockTxManager, notifier, provider)

	assert.NotNil(t, services.AuthService)
	assert.NotNil(t, services.TaskService)
	assert.NotNil(t, services.ApplicationService)
	assert.NotNil(t, services.LedgerService)
	assert.NotNil(t, services.ReviewService)
	assert.NotNil(t, services.NotificationService)
	assert.NotNil(t, services.AdminUserService)
	assert.NotNil(t, services.AdminLedgerService)
}
