package taskrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"github.com/GlebRadaev/taskmarket/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) GetByID(ctx context.Context, taskID int) (*domain.Task, error) {
	query := `
        SELECT id, creator_id, title, description, price, is_open, is_direct_hire, worker_id, completed_at, created_at
        FROM tasks
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, taskID)
	var task domain.Task
	err := row.Scan(&task.ID, &task.CreatorID, &task.Title, &task.Description, &task.Price, &task.IsOpen, &task.IsDirectHire, &task.WorkerID, &task.CompletedAt, &task.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't get task", zap.Error(err))
		return nil, err
	}
	return &task, nil
}

func (r *Repository) Save(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	query := `
        INSERT INTO tasks (creator_id, title, description, price, is_open, is_direct_hire, worker_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		err := r.db.QueryRow(ctx, query, task.CreatorID, task.Title, task.Description, task.Price, task.IsOpen, task.IsDirectHire, task.WorkerID, task.CreatedAt).Scan(&task.ID)
		if err != nil {
			zap.L().Error("can't save task", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *Repository) ListOpen(ctx context.Context) ([]domain.Task, error) {
	query := `
        SELECT id, creator_id, title, description, price, is_open, is_direct_hire, worker_id, completed_at, created_at
        FROM tasks
        WHERE is_open = TRUE AND completed_at IS NULL
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("can't get open tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var task domain.Task
		err := rows.Scan(&task.ID, &task.CreatorID, &task.Title, &task.Description, &task.Price, &task.IsOpen, &task.IsDirectHire, &task.WorkerID, &task.CompletedAt, &task.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan task row", zap.Error(err))
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (r *Repository) Close(ctx context.Context, taskID int) error {
	query := `
        UPDATE tasks
        SET is_open = FALSE
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, taskID)
	if err != nil {
		zap.L().Error("can't close task", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) MarkCompleted(ctx context.Context, taskID int, completedAt time.Time) error {
	query := `
        UPDATE tasks
        SET completed_at = $2, is_open = FALSE
        WHERE id = $1 AND completed_at IS NULL
    `
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, query, taskID, completedAt)
		if err != nil {
			zap.L().Error("can't mark task completed", zap.Error(err))
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}
