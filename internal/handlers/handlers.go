package handlers

import (
	"net/http"

	_ "github.com/GlebRadaev/taskmarket/docs"
	adminhandlers "github.com/GlebRadaev/taskmarket/internal/handlers/admin"
	applicationhandlers "github.com/GlebRadaev/taskmarket/internal/handlers/applications"
	authhandlers "github.com/GlebRadaev/taskmarket/internal/handlers/auth"
	credithandlers "github.com/GlebRadaev/taskmarket/internal/handlers/credits"
	notificationhandlers "github.com/GlebRadaev/taskmarket/internal/handlers/notifications"
	reviewhandlers "github.com/GlebRadaev/taskmarket/internal/handlers/reviews"
	taskhandlers "github.com/GlebRadaev/taskmarket/internal/handlers/tasks"
	"github.com/GlebRadaev/taskmarket/internal/service"
	"github.com/GlebRadaev/taskmarket/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type TaskHandler interface {
	CreateTask(w http.ResponseWriter, r *http.Request)
	GetTasks(w http.ResponseWriter, r *http.Request)
	GetTask(w http.ResponseWriter, r *http.Request)
	CompleteTask(w http.ResponseWriter, r *http.Request)
}

type ApplicationHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	CounterOffer(w http.ResponseWriter, r *http.Request)
	Accept(w http.ResponseWriter, r *http.Request)
	Decline(w http.ResponseWriter, r *http.Request)
	HireOffer(w http.ResponseWriter, r *http.Request)
	GetTaskApplications(w http.ResponseWriter, r *http.Request)
	GetMyApplications(w http.ResponseWriter, r *http.Request)
}

type CreditHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	GetHistory(w http.ResponseWriter, r *http.Request)
	Purchase(w http.ResponseWriter, r *http.Request)
}

type ReviewHandler interface {
	CreateReview(w http.ResponseWriter, r *http.Request)
	GetUserReviews(w http.ResponseWriter, r *http.Request)
}

type NotificationHandler interface {
	GetNotifications(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	BlockUser(w http.ResponseWriter, r *http.Request)
	UnblockUser(w http.ResponseWriter, r *http.Request)
	RewardUser(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler         AuthHandler
	TaskHandler         TaskHandler
	ApplicationHandler  ApplicationHandler
	CreditHandler       CreditHandler
	ReviewHandler       ReviewHandler
	NotificationHandler NotificationHandler
	AdminHandler        AdminHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:         authhandlers.New(s.AuthService),
		TaskHandler:         taskhandlers.New(s.TaskService),
		ApplicationHandler:  applicationhandlers.New(s.ApplicationService),
		CreditHandler:       credithandlers.New(s.LedgerService),
		ReviewHandler:       reviewhandlers.New(s.ReviewService),
		NotificationHandler: notificationhandlers.New(s.NotificationService),
		AdminHandler:        adminhandlers.New(s.AdminUserService, s.AdminLedgerService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api", func(r chi.Router) {
		r.Post("/user/register", h.AuthHandler.Register)
		r.Post("/user/login", h.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", h.TaskHandler.CreateTask)
				r.Get("/", h.TaskHandler.GetTasks)
				r.Route("/{taskID}", func(r chi.Router) {
					r.Get("/", h.TaskHandler.GetTask)
					r.Post("/complete", h.TaskHandler.CompleteTask)
					r.Post("/applications", h.ApplicationHandler.Apply)
					r.Get("/applications", h.ApplicationHandler.GetTaskApplications)
					r.Post("/hire", h.ApplicationHandler.HireOffer)
					r.Post("/reviews", h.ReviewHandler.CreateReview)
				})
			})
			r.Route("/applications/{applicationID}", func(r chi.Router) {
				r.Post("/counter-offer", h.ApplicationHandler.CounterOffer)
				r.Post("/accept", h.ApplicationHandler.Accept)
				r.Post("/decline", h.ApplicationHandler.Decline)
			})
			r.Route("/user", func(r chi.Router) {
				r.Get("/applications", h.ApplicationHandler.GetMyApplications)
				r.Get("/notifications", h.NotificationHandler.GetNotifications)
				r.Route("/credits", func(r chi.Router) {
					r.Get("/", h.CreditHandler.GetBalance)
					r.Get("/history", h.CreditHandler.GetHistory)
					r.Post("/purchase", h.CreditHandler.Purchase)
				})
			})
			r.Get("/users/{userID}/reviews", h.ReviewHandler.GetUserReviews)

			r.Route("/admin/users/{userID}", func(r chi.Router) {
				r.Use(auth.AdminMiddleware)
				r.Post("/block", h.AdminHandler.BlockUser)
				r.Post("/unblock", h.AdminHandler.UnblockUser)
				r.Post("/reward", h.AdminHandler.RewardUser)
			})
		})
	})

	return r
}
