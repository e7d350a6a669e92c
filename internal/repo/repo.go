package repo

import (
	"github.com/GlebRadaev/taskmarket/internal/pg"
	applicationrepo "github.com/GlebRadaev/taskmarket/internal/repo/application-repo"
	notificationrepo "github.com/GlebRadaev/taskmarket/internal/repo/notification-repo"
	reviewrepo "github.com/GlebRadaev/taskmarket/internal/repo/review-repo"
	taskrepo "github.com/GlebRadaev/taskmarket/internal/repo/task-repo"
	transactionrepo "github.com/GlebRadaev/taskmarket/internal/repo/transaction-repo"
	userrepo "github.com/GlebRadaev/taskmarket/internal/repo/user-repo"
)

type Repositories struct {
	UserRepo         *userrepo.Repository
	TaskRepo         *taskrepo.Repository
	ApplicationRepo  *applicationrepo.Repository
	TransactionRepo  *transactionrepo.Repository
	ReviewRepo       *reviewrepo.Repository
	NotificationRepo *notificationrepo.Repository
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		UserRepo:         userrepo.New(conn),
		TaskRepo:         taskrepo.New(conn, txManager),
		ApplicationRepo:  applicationrepo.New(conn, txManager),
		TransactionRepo:  transactionrepo.New(conn),
		ReviewRepo:       reviewrepo.New(conn),
		NotificationRepo: notificationrepo.New(conn),
	}
}
