package transactionrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	t.Run("Spent row is recorded", func(t *testing.T) {
		taskID := 7
		rows := pgxmock.NewRows([]string{"id"}).AddRow(10)
		mock.ExpectQuery("INSERT INTO credit_transactions").
			WithArgs(42, int64(3), "spent", &taskID, "reservation for task 7", now).
			WillReturnRows(rows)

		txn, err := repo.Create(context.Background(), &domain.CreditTransaction{
			UserID:        42,
			Amount:        3,
			Type:          domain.TxnSpent,
			RelatedTaskID: &taskID,
			Description:   "reservation for task 7",
			CreatedAt:     now,
		})
		assert.NoError(t, err)
		assert.Equal(t, 10, txn.ID)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO credit_transactions").
			WithArgs(42, int64(5), "purchase", (*int)(nil), "credit purchase", now).
			WillReturnError(errors.New("database error"))

		_, err := repo.Create(context.Background(), &domain.CreditTransaction{
			UserID:      42,
			Amount:      5,
			Type:        domain.TxnPurchase,
			Description: "credit purchase",
			CreatedAt:   now,
		})
		assert.Error(t, err)
	})
}

func TestRepository_ListByUserID(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "user_id", "amount", "type", "related_task_id", "description", "created_at"}).
		AddRow(11, 42, int64(3), "refund", nil, "refund for task 7", now).
		AddRow(10, 42, int64(3), "spent", nil, "reservation for task 7", now.Add(-time.Hour))
	mock.ExpectQuery("SELECT id, user_id, amount, type, related_task_id, description, created_at").
		WithArgs(42).
		WillReturnRows(rows)

	txns, err := repo.ListByUserID(context.Background(), 42)
	assert.NoError(t, err)
	assert.Len(t, txns, 2)
	assert.Equal(t, domain.TxnRefund, txns[0].Type)
}
