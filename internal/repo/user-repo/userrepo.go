package userrepo

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

func (r *Repository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := `
        SELECT id, login, password_hash, credits, can_apply, blocked, is_admin, created_at
        FROM users
        WHERE login = $1
    `
	row := r.db.QueryRow(ctx, query, login)
	var user domain.User
	err := row.Scan(&user.ID, &user.Login, &user.PasswordHash, &user.Credits, &user.CanApply, &user.Blocked, &user.IsAdmin, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find user by login", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetByID(ctx context.Context, userID int) (*domain.User, error) {
	query := `
        SELECT id, login, password_hash, credits, can_apply, blocked, is_admin, created_at
        FROM users
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, userID)
	var user domain.User
	err := row.Scan(&user.ID, &user.Login, &user.PasswordHash, &user.Credits, &user.CanApply, &user.Blocked, &user.IsAdmin, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't get user", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
        INSERT INTO users (login, password_hash)
        VALUES ($1, $2)
        RETURNING id, login, password_hash, credits, can_apply, blocked, is_admin, created_at
    `
	row := r.db.QueryRow(ctx, query, user.Login, user.PasswordHash)
	var created domain.User
	err := row.Scan(&created.ID, &created.Login, &created.PasswordHash, &created.Credits, &created.CanApply, &created.Blocked, &created.IsAdmin, &created.CreatedAt)
	if err != nil {
		zap.L().Error("can't create user", zap.Error(err))
		return nil, err
	}
	return &created, nil
}

// ReserveCredits decrements the balance only when it covers amount, in a
// single conditional UPDATE. ok is false when the balance was too low; the
// row is untouched in that case.
func (r *Repository) ReserveCredits(ctx context.Context, userID int, amount int64) (int64, bool, error) {
	query := `
        UPDATE users
        SET credits = credits - $2
        WHERE id = $1 AND credits >= $2
        RETURNING credits
    `
	var newBalance int64
	err := r.db.QueryRow(ctx, query, userID, amount).Scan(&newBalance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		zap.L().Error("can't reserve credits", zap.Error(err))
		return 0, false, err
	}
	return newBalance, true, nil
}

func (r *Repository) AddCredits(ctx context.Context, userID int, amount int64) (int64, error) {
	query := `
        UPDATE users
        SET credits = credits + $2
        WHERE id = $1
        RETURNING credits
    `
	var newBalance int64
	err := r.db.QueryRow(ctx, query, userID, amount).Scan(&newBalance)
	if err != nil {
		zap.L().Error("can't add credits", zap.Error(err))
		return 0, err
	}
	return newBalance, nil
}

func (r *Repository) SetBlocked(ctx context.Context, userID int, blocked bool) error {
	query := `
        UPDATE users
        SET blocked = $2, can_apply = NOT $2
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query, userID, blocked)
	if err != nil {
		zap.L().Error("can't update blocked flag", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
