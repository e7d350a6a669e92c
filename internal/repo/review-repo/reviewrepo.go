package reviewrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"github.com/GlebRadaev/taskmarket/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	query := `
		INSERT INTO reviews (task_id, author_id, target_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, review.TaskID, review.AuthorID, review.TargetID, review.Rating, review.Comment, review.CreatedAt).Scan(&review.ID)
	if err != nil {
		zap.L().Error("can't save review", zap.Error(err))
		return nil, err
	}
	return review, nil
}

func (r *Repository) FindByTaskAndAuthor(ctx context.Context, taskID, authorID int) (*domain.Review, error) {
	query := `
        SELECT id, task_id, author_id, target_id, rating, comment, created_at
        FROM reviews
        WHERE task_id = $1 AND author_id = $2
    `
	row := r.db.QueryRow(ctx, query, taskID, authorID)
	var review domain.Review
	err := row.Scan(&review.ID, &review.TaskID, &review.AuthorID, &review.TargetID, &review.Rating, &review.Comment, &review.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find review", zap.Error(err))
		return nil, err
	}
	return &review, nil
}

func (r *Repository) ListByTargetID(ctx context.Context, targetID int) ([]domain.Review, error) {
	query := `
        SELECT id, task_id, author_id, target_id, rating, comment, created_at
        FROM reviews
        WHERE target_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, targetID)
	if err != nil {
		zap.L().Error("failed to fetch reviews", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var review domain.Review
		err := rows.Scan(&review.ID, &review.TaskID, &review.AuthorID, &review.TargetID, &review.Rating, &review.Comment, &review.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan review row", zap.Error(err))
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}
