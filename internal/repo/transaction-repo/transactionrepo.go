package transactionrepo

import (
	"context"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"github.com/GlebRadaev/taskmarket/internal/pg"
	"go.uber.org/zap"
)

// Repository writes the credit audit trail. Rows are append-only: there is no
// update or delete here on purpose.
type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, txn *domain.CreditTransaction) (*domain.CreditTransaction, error) {
	query := `
		INSERT INTO credit_transactions (user_id, amount, type, related_task_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, txn.UserID, txn.Amount, txn.Type, txn.RelatedTaskID, txn.Description, txn.CreatedAt).Scan(&txn.ID)
	if err != nil {
		zap.L().Error("can't save credit transaction", zap.Error(err))
		return nil, err
	}
	return txn, nil
}

func (r *Repository) ListByUserID(ctx context.Context, userID int) ([]domain.CreditTransaction, error) {
	query := `
        SELECT id, user_id, amount, type, related_task_id, description, created_at
        FROM credit_transactions
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("failed to fetch credit transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var txns []domain.CreditTransaction
	for rows.Next() {
		var txn domain.CreditTransaction
		err := rows.Scan(&txn.ID, &txn.UserID, &txn.Amount, &txn.Type, &txn.RelatedTaskID, &txn.Description, &txn.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan credit transaction row", zap.Error(err))
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, nil
}
