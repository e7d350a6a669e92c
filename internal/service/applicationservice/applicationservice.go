package applicationservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"github.com/GlebRadaev/taskmarket/internal/pg"
	"go.uber.org/zap"
)

type ApplicationRepo interface {
	GetByIDForUpdate(ctx context.Context, id int) (*domain.Application, error)
	FindActive(ctx context.Context, taskID, applicantID int) (*domain.Application, error)
	ListByTaskID(ctx context.Context, taskID int) ([]domain.Application, error)
	ListActiveByTaskIDForUpdate(ctx context.Context, taskID int) ([]domain.Application, error)
	ListByApplicantID(ctx context.Context, applicantID int) ([]domain.Application, error)
	Save(ctx context.Context, app *domain.Application) error
	UpdateProposal(ctx context.Context, id int, proposedPrice int64, lastProposedBy int, chargedCredits int64, status string) error
	MarkAccepted(ctx context.Context, id int, acceptedBy int, chargedCredits int64, selectedAt time.Time) error
	MarkTerminal(ctx context.Context, id int, status string) error
}

type TaskRepo interface {
	GetByID(ctx context.Context, taskID int) (*domain.Task, error)
	Close(ctx context.Context, taskID int) error
}

type UserRepo interface {
	GetByID(ctx context.Context, userID int) (*domain.User, error)
}

// Ledger is the credit reservation surface this service settles against.
type Ledger interface {
	Reserve(ctx context.Context, userID int, amount int64, relatedTaskID *int, description string) error
	Release(ctx context.Context, userID int, amount int64, relatedTaskID *int, description string) error
}

// Notifier delivers best-effort notifications. It is only called after the
// enclosing transaction has committed; its failures never reach the caller.
type Notifier interface {
	Notify(ctx context.Context, userID int, kind, message string, taskID *int)
}

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrTaskClosed          = errors.New("task is not accepting applications")
	ErrTaskCompleted       = errors.New("task is completed")
	ErrAlreadyApplied      = errors.New("active application already exists")
	ErrNotDirectHire       = errors.New("task is not a direct hire")
)

type Service struct {
	appRepo   ApplicationRepo
	taskRepo  TaskRepo
	userRepo  UserRepo
	ledger    Ledger
	notifier  Notifier
	txManager pg.TXManager
}

func New(appRepo ApplicationRepo, taskRepo TaskRepo, userRepo UserRepo, ledger Ledger, notifier Notifier, txManager pg.TXManager) *Service {
	return &Service{
		appRepo:   appRepo,
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		ledger:    ledger,
		notifier:  notifier,
		txManager: txManager,
	}
}

func (s *Service) actorFor(task *domain.Task, app *domain.Application, userID int) Actor {
	return Actor{
		UserID:      userID,
		IsCreator:   userID == task.CreatorID,
		IsApplicant: app != nil && userID == app.ApplicantID,
	}
}

func applyGuards(task *domain.Task, applicant *domain.User) error {
	if task.CompletedAt != nil {
		return ErrTaskCompleted
	}
	if !task.IsOpen {
		return ErrTaskClosed
	}
	if applicant.ID == task.CreatorID {
		return &UnauthorizedError{Event: EventApply, Required: "applicant"}
	}
	if applicant.Blocked || !applicant.CanApply {
		return &UnauthorizedError{Event: EventApply, Required: "applicant allowed to apply"}
	}
	if task.IsDirectHire && (task.WorkerID == nil || *task.WorkerID != applicant.ID) {
		return &UnauthorizedError{Event: EventApply, Required: "designated worker"}
	}
	return nil
}

// Apply creates a pending application. Applying at the task's own price
// reserves the backing credits immediately; proposing a different price sets
// the applicant as last proposer and defers the charge to acceptance time.
func (s *Service) Apply(ctx context.Context, applicantID, taskID int, proposedPrice *int64) (*domain.Application, error) {
	var app *domain.Application
	var task *domain.Task
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		task, err = s.taskRepo.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return ErrTaskNotFound
		}
		applicant, err := s.userRepo.GetByID(ctx, applicantID)
		if err != nil {
			return err
		}
		if applicant == nil {
			return ErrUserNotFound
		}
		if err := applyGuards(task, applicant); err != nil {
			return err
		}

		existing, err := s.appRepo.FindActive(ctx, taskID, applicantID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyApplied
		}

		app = &domain.Application{
			TaskID:      taskID,
			ApplicantID: applicantID,
			Status:      domain.StatusPending,
			CreatedAt:   time.Now(),
		}
		if proposedPrice != nil {
			app.ProposedPrice = proposedPrice
			app.LastProposedBy = &applicantID
		} else if task.Price != nil {
			credits := domain.RequiredCredits(*task.Price)
			err := s.ledger.Reserve(ctx, applicantID, credits, &taskID, fmt.Sprintf("reservation for task %d", taskID))
			if err != nil {
				return err
			}
			app.ChargedCredits = credits
		}

		return s.appRepo.Save(ctx, app)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, task.CreatorID, "application", "new application received", &app.TaskID)
	zap.L().Info("application created",
		zap.Int("applicationID", app.ID),
		zap.Int("taskID", taskID),
		zap.Int("applicantID", applicantID),
	)
	return app, nil
}

// CounterOffer moves the negotiated price and resizes the applicant's
// reservation by the credit delta in the same transaction. The delta is
// computed against the credits actually held, never recomputed from the
// previous price.
func (s *Service) CounterOffer(ctx context.Context, applicationID, actingUserID int, newPrice int64) (*domain.Application, error) {
	var app *domain.Application
	var task *domain.Task
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		app, err = s.appRepo.GetByIDForUpdate(ctx, applicationID)
		if err != nil {
			return err
		}
		if app == nil {
			return ErrApplicationNotFound
		}
		task, err = s.taskRepo.GetByID(ctx, app.TaskID)
		if err != nil {
			return err
		}
		if task == nil {
			return ErrTaskNotFound
		}
		if task.CompletedAt != nil {
			return ErrTaskCompleted
		}

		actor := s.actorFor(task, app, actingUserID)
		newStatus, err := Transition(app, EventCounterOffer, actor)
		if err != nil {
			return err
		}

		newCredits := domain.RequiredCredits(newPrice)
		if err := s.settleReservation(ctx, app, newCredits); err != nil {
			return err
		}

		if err := s.appRepo.UpdateProposal(ctx, app.ID, newPrice, actingUserID, newCredits, newStatus); err != nil {
			return err
		}
		app.ProposedPrice = &newPrice
		app.LastProposedBy = &actingUserID
		app.ChargedCredits = newCredits
		app.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}

	counterparty := app.ApplicantID
	if actingUserID == app.ApplicantID {
		counterparty = task.CreatorID
	}
	s.notifier.Notify(ctx, counterparty, "counter_offer", fmt.Sprintf("price proposal updated to %d", newPrice), &app.TaskID)
	return app, nil
}

// settleReservation charges or refunds the applicant so that exactly
// newCredits stay held against the application. A failed charge aborts the
// enclosing transaction with the shortfall preserved.
func (s *Service) settleReservation(ctx context.Context, app *domain.Application, newCredits int64) error {
	delta := newCredits - app.ChargedCredits
	switch {
	case delta > 0:
		return s.ledger.Reserve(ctx, app.ApplicantID, delta, &app.TaskID, fmt.Sprintf("reservation increase for task %d", app.TaskID))
	case delta < 0:
		return s.ledger.Release(ctx, app.ApplicantID, -delta, &app.TaskID, fmt.Sprintf("reservation decrease for task %d", app.TaskID))
	}
	return nil
}

// Accept settles one application and clears the field in a single atomic
// unit: the winner's reservation is topped up (or trimmed) to the effective
// price, every rival application is refunded and declined, and the task
// closes. Any ledger failure aborts the whole settlement.
func (s *Service) Accept(ctx context.Context, applicationID, actingUserID int) (*domain.Application, error) {
	var app *domain.Application
	var rivals []domain.Application
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		app, err = s.appRepo.GetByIDForUpdate(ctx, applicationID)
		if err != nil {
			return err
		}
		if app == nil {
			return ErrApplicationNotFound
		}
		task, err := s.taskRepo.GetByID(ctx, app.TaskID)
		if err != nil {
			return err
		}
		if task == nil {
			return ErrTaskNotFound
		}
		if task.CompletedAt != nil {
			return ErrTaskCompleted
		}

		actor := s.actorFor(task, app, actingUserID)
		if _, err := Transition(app, EventAccept, actor); err != nil {
			return err
		}

		var effectivePrice int64
		switch {
		case app.ProposedPrice != nil:
			effectivePrice = *app.ProposedPrice
		case task.Price != nil:
			effectivePrice = *task.Price
		}
		totalRequired := domain.RequiredCredits(effectivePrice)

		if err := s.settleReservation(ctx, app, totalRequired); err != nil {
			return err
		}

		now := time.Now()
		if err := s.appRepo.MarkAccepted(ctx, app.ID, actingUserID, totalRequired, now); err != nil {
			return err
		}
		app.Status = domain.StatusAccepted
		app.ChargedCredits = totalRequired
		app.SelectedAt = &now
		app.AcceptedBy = &actingUserID

		rivals, err = s.refundRivals(ctx, app)
		if err != nil {
			return err
		}

		return s.taskRepo.Close(ctx, app.TaskID)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, app.ApplicantID, "accepted", "your application was accepted", &app.TaskID)
	for _, rival := range rivals {
		s.notifier.Notify(ctx, rival.ApplicantID, "declined", "the task went to another applicant", &app.TaskID)
	}
	zap.L().Info("application accepted",
		zap.Int("applicationID", app.ID),
		zap.Int("taskID", app.TaskID),
		zap.Int64("chargedCredits", app.ChargedCredits),
		zap.Int("rivalsDeclined", len(rivals)),
	)
	return app, nil
}

// refundRivals declines every other non-terminal application on the task and
// returns its full reservation to the applicant. Runs inside the acceptance
// transaction: the winner and the refunds commit together or not at all.
func (s *Service) refundRivals(ctx context.Context, accepted *domain.Application) ([]domain.Application, error) {
	active, err := s.appRepo.ListActiveByTaskIDForUpdate(ctx, accepted.TaskID)
	if err != nil {
		return nil, err
	}

	var rivals []domain.Application
	for _, rival := range active {
		if rival.ID == accepted.ID {
			continue
		}
		if rival.ChargedCredits > 0 {
			err := s.ledger.Release(ctx, rival.ApplicantID, rival.ChargedCredits, &rival.TaskID, fmt.Sprintf("refund for task %d", rival.TaskID))
			if err != nil {
				return nil, err
			}
		}
		if err := s.appRepo.MarkTerminal(ctx, rival.ID, domain.StatusDeclined); err != nil {
			return nil, err
		}
		rivals = append(rivals, rival)
	}
	return rivals, nil
}

// Decline terminates an application (status declined, or removed when the
// creator withdraws it) and refunds the full reservation.
func (s *Service) Decline(ctx context.Context, applicationID, actingUserID int, remove bool) (*domain.Application, error) {
	event := EventDecline
	if remove {
		event = EventRemove
	}

	var app *domain.Application
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		app, err = s.appRepo.GetByIDForUpdate(ctx, applicationID)
		if err != nil {
			return err
		}
		if app == nil {
			return ErrApplicationNotFound
		}
		task, err := s.taskRepo.GetByID(ctx, app.TaskID)
		if err != nil {
			return err
		}
		if task == nil {
			return ErrTaskNotFound
		}

		actor := s.actorFor(task, app, actingUserID)
		newStatus, err := Transition(app, event, actor)
		if err != nil {
			return err
		}

		if app.ChargedCredits > 0 {
			err := s.ledger.Release(ctx, app.ApplicantID, app.ChargedCredits, &app.TaskID, fmt.Sprintf("refund for task %d", app.TaskID))
			if err != nil {
				return err
			}
		}

		if err := s.appRepo.MarkTerminal(ctx, app.ID, newStatus); err != nil {
			return err
		}
		app.Status = newStatus
		app.ChargedCredits = 0
		return nil
	})
	if err != nil {
		return nil, err
	}

	if remove {
		s.notifier.Notify(ctx, app.ApplicantID, "removed", "your application was removed", &app.TaskID)
	} else {
		s.notifier.Notify(ctx, app.ApplicantID, "declined", "your application was declined", &app.TaskID)
	}
	return app, nil
}

// HireOffer creates a creator-initiated offer on a direct-hire task. The
// worker is not pre-charged: the reservation happens when they accept.
func (s *Service) HireOffer(ctx context.Context, creatorID, taskID, workerID int, price int64) (*domain.Application, error) {
	var app *domain.Application
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		task, err := s.taskRepo.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return ErrTaskNotFound
		}
		if task.CreatorID != creatorID {
			return &UnauthorizedError{Event: EventHireOffer, Required: "task creator"}
		}
		if !task.IsDirectHire {
			return ErrNotDirectHire
		}
		if task.CompletedAt != nil {
			return ErrTaskCompleted
		}
		if !task.IsOpen {
			return ErrTaskClosed
		}
		if task.WorkerID != nil && *task.WorkerID != workerID {
			return &UnauthorizedError{Event: EventHireOffer, Required: "designated worker"}
		}

		worker, err := s.userRepo.GetByID(ctx, workerID)
		if err != nil {
			return err
		}
		if worker == nil {
			return ErrUserNotFound
		}
		if worker.Blocked || !worker.CanApply {
			return &UnauthorizedError{Event: EventHireOffer, Required: "worker allowed to apply"}
		}

		existing, err := s.appRepo.FindActive(ctx, taskID, workerID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyApplied
		}

		app = &domain.Application{
			TaskID:         taskID,
			ApplicantID:    workerID,
			ProposedPrice:  &price,
			LastProposedBy: &creatorID,
			Status:         domain.StatusOffered,
			CreatedAt:      time.Now(),
		}
		return s.appRepo.Save(ctx, app)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, workerID, "hire_offer", fmt.Sprintf("you were offered a task for %d", price), &taskID)
	return app, nil
}

func (s *Service) ListForTask(ctx context.Context, taskID, actingUserID int) ([]domain.Application, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	if task.CreatorID != actingUserID {
		return nil, ErrUnauthorized
	}
	return s.appRepo.ListByTaskID(ctx, taskID)
}

func (s *Service) ListForApplicant(ctx context.Context, applicantID int) ([]domain.Application, error) {
	return s.appRepo.ListByApplicantID(ctx, applicantID)
}
