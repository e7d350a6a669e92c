package applicationrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"github.com/GlebRadaev/taskmarket/internal/pg"
	"go.uber.org/zap"
)

const columns = "id, task_id, applicant_id, proposed_price, last_proposed_by, charged_credits, status, selected_at, accepted_by, created_at"

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

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var app domain.Application
	err := row.Scan(&app.ID, &app.TaskID, &app.ApplicantID, &app.ProposedPrice, &app.LastProposedBy, &app.ChargedCredits, &app.Status, &app.SelectedAt, &app.AcceptedBy, &app.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*domain.Application, error) {
	query := `
        SELECT ` + columns + `
        FROM applications
        WHERE id = $1
    `
	app, err := scanApplication(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't get application", zap.Error(err))
		return nil, err
	}
	return app, nil
}

// GetByIDForUpdate locks the application row for the rest of the enclosing
// transaction. Concurrent accept attempts serialize on this lock, so only the
// first one sees a non-terminal status.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int) (*domain.Application, error) {
	query := `
        SELECT ` + columns + `
        FROM applications
        WHERE id = $1
        FOR UPDATE
    `
	app, err := scanApplication(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't lock application", zap.Error(err))
		return nil, err
	}
	return app, nil
}

func (r *Repository) FindActive(ctx context.Context, taskID, applicantID int) (*domain.Application, error) {
	query := `
        SELECT ` + columns + `
        FROM applications
        WHERE task_id = $1 AND applicant_id = $2 AND status NOT IN ('declined', 'removed')
    `
	app, err := scanApplication(r.db.QueryRow(ctx, query, taskID, applicantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find active application", zap.Error(err))
		return nil, err
	}
	return app, nil
}

func (r *Repository) ListByTaskID(ctx context.Context, taskID int) ([]domain.Application, error) {
	query := `
        SELECT ` + columns + `
        FROM applications
        WHERE task_id = $1
        ORDER BY created_at ASC
    `
	return r.list(ctx, query, taskID)
}

// ListActiveByTaskIDForUpdate returns every non-terminal application on the
// task with the rows locked, for the rival-refund step of acceptance.
func (r *Repository) ListActiveByTaskIDForUpdate(ctx context.Context, taskID int) ([]domain.Application, error) {
	query := `
        SELECT ` + columns + `
        FROM applications
        WHERE task_id = $1 AND status NOT IN ('accepted', 'declined', 'removed')
        ORDER BY id ASC
        FOR UPDATE
    `
	return r.list(ctx, query, taskID)
}

func (r *Repository) ListByApplicantID(ctx context.Context, applicantID int) ([]domain.Application, error) {
	query := `
        SELECT ` + columns + `
        FROM applications
        WHERE applicant_id = $1
        ORDER BY created_at DESC
    `
	return r.list(ctx, query, applicantID)
}

func (r *Repository) list(ctx context.Context, query string, arg any) ([]domain.Application, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		zap.L().Error("can't get applications", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			zap.L().Error("can't scan application row", zap.Error(err))
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, nil
}

func (r *Repository) Save(ctx context.Context, app *domain.Application) error {
	query := `
        INSERT INTO applications (task_id, applicant_id, proposed_price, last_proposed_by, charged_credits, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		err := r.db.QueryRow(ctx, query, app.TaskID, app.ApplicantID, app.ProposedPrice, app.LastProposedBy, app.ChargedCredits, app.Status, app.CreatedAt).Scan(&app.ID)
		if err != nil {
			zap.L().Error("can't save application", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

// UpdateProposal persists the outcome of a price negotiation step.
func (r *Repository) UpdateProposal(ctx context.Context, id int, proposedPrice int64, lastProposedBy int, chargedCredits int64, status string) error {
	query := `
        UPDATE applications
        SET proposed_price = $2, last_proposed_by = $3, charged_credits = $4, status = $5
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, id, proposedPrice, lastProposedBy, chargedCredits, status)
	if err != nil {
		zap.L().Error("can't update application proposal", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) MarkAccepted(ctx context.Context, id int, acceptedBy int, chargedCredits int64, selectedAt time.Time) error {
	query := `
        UPDATE applications
        SET status = 'accepted', accepted_by = $2, charged_credits = $3, selected_at = $4
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, id, acceptedBy, chargedCredits, selectedAt)
	if err != nil {
		zap.L().Error("can't mark application accepted", zap.Error(err))
		return err
	}
	return nil
}

// MarkTerminal moves the application to declined or removed and zeroes the
// reservation column; the caller refunds the held credits in the same
// transaction.
func (r *Repository) MarkTerminal(ctx context.Context, id int, status string) error {
	query := `
        UPDATE applications
        SET status = $2, charged_credits = 0
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		zap.L().Error("can't mark application terminal", zap.Error(err))
		return err
	}
	return nil
}
