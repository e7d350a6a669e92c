package service

import (
	"github.com/GlebRadaev/taskmarket/internal/handlers/admin"
	"github.com/GlebRadaev/taskmarket/internal/handlers/applications"
	"github.com/GlebRadaev/taskmarket/internal/handlers/auth"
	"github.com/GlebRadaev/taskmarket/internal/handlers/credits"
	"github.com/GlebRadaev/taskmarket/internal/handlers/notifications"
	"github.com/GlebRadaev/taskmarket/internal/handlers/reviews"
	"github.com/GlebRadaev/taskmarket/internal/handlers/tasks"

	pkgauth "github.com/GlebRadaev/taskmarket/pkg/auth"

	"github.com/GlebRadaev/taskmarket/internal/notification"
	"github.com/GlebRadaev/taskmarket/internal/pg"
	"github.com/GlebRadaev/taskmarket/internal/repo"
	"github.com/GlebRadaev/taskmarket/internal/service/applicationservice"
	"github.com/GlebRadaev/taskmarket/internal/service/authservice"
	"github.com/GlebRadaev/taskmarket/internal/service/ledgerservice"
	"github.com/GlebRadaev/taskmarket/internal/service/reviewservice"
	"github.com/GlebRadaev/taskmarket/internal/service/taskservice"
)

type Services struct {
	AuthService         auth.Service
	TaskService         tasks.Service
	ApplicationService  applications.Service
	LedgerService       credits.Service
	ReviewService       reviews.Service
	NotificationService notifications.Service
	AdminUserService    admin.UserService
	AdminLedgerService  admin.LedgerService
}

func New(repo *repo.Repositories, txManager pg.TXManager, notifier *notification.Service, provider ledgerservice.PaymentProvider) *Services {
	authService := authservice.New(repo.UserRepo, &pkgauth.HashService{}, &pkgauth.JWTService{})
	ledgerService := ledgerservice.New(repo.UserRepo, repo.TransactionRepo, provider, txManager)
	taskService := taskservice.New(repo.TaskRepo, repo.ApplicationRepo)
	applicationService := applicationservice.New(repo.ApplicationRepo, repo.TaskRepo, repo.UserRepo, ledgerService, notifier, txManager)
	reviewService := reviewservice.New(repo.ReviewRepo, repo.TaskRepo, repo.ApplicationRepo)

	return &Services{
		AuthService:         authService,
		TaskService:         taskService,
		ApplicationService:  applicationService,
		LedgerService:       ledgerService,
		ReviewService:       reviewService,
		NotificationService: notifier,
		AdminUserService:    authService,
		AdminLedgerService:  ledgerService,
	}
}
