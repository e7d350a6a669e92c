package repo

import (
	"testing"

	"github.com/GlebRadaev/taskmarket/internal/pg"
	applicationrepo "github.com/GlebRadaev/taskmarket/internal/repo/application-repo"
	notificationrepo "github.com/GlebRadaev/taskmarket/internal/repo/notification-repo"
	reviewrepo "github.com/GlebRadaev/taskmarket/internal/repo/review-repo"
	taskrepo "github.com/GlebRadaev/taskmarket/internal/repo/task-repo"
	transactionrepo "github.com/GlebRadaev/taskmarket/internal/repo/transaction-repo"
	userrepo "github.com/GlebRadaev/taskmarket/internal/repo/user-repo"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Repositories, pgxmock.PgxPoolIface) {
	ctrl := gomock.NewController(t)
	mockDB, err := pgxmock.NewPool()
	mockTxManager := pg.NewMockTXManager(ctrl)
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)
	defer mockDB.Close()

	return repo, mockDB
}

func TestNew(t *testing.T) {
	repo, mock := NewMock(t)

	assert.NotNil(t, repo.UserRepo)
	assert.NotNil(t, repo.TaskRepo)
	assert.NotNil(t, repo.ApplicationRepo)
	assert.NotNil(t, repo.TransactionRepo)
	assert.NotNil(t, repo.ReviewRepo)
	assert.NotNil(t, repo.NotificationRepo)

	assert.IsType(t, &userrepo.Repository{}, repo.UserRepo)
	assert.IsType(t, &taskrepo.Repository{}, repo.TaskRepo)
	assert.IsType(t, &applicationrepo.Repository{}, repo.ApplicationRepo)
	assert.IsType(t, &transactionrepo.Repository{}, repo.TransactionRepo)
	assert.IsType(t, &reviewrepo.Repository{}, repo.ReviewRepo)
	assert.IsType(t, &notificationrepo.Repository{}, repo.NotificationRepo)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unmet expectations: %v", err)
	}
}
