package applications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"github.com/GlebRadaev/taskmarket/internal/dto"
	"github.com/GlebRadaev/taskmarket/internal/service/applicationservice"
	"github.com/GlebRadaev/taskmarket/internal/service/ledgerservice"
	"github.com/GlebRadaev/taskmarket/pkg/auth"
	"github.com/GlebRadaev/taskmarket/pkg/utils"
)

type Service interface {
	Apply(ctx context.Context, applicantID, taskID int, proposedPrice *int64) (*domain.Application, error)
	CounterOffer(ctx context.Context, applicationID, actingUserID int, newPrice int64) (*domain.Application, error)
	Accept(ctx context.Context, applicationID, actingUserID int) (*domain.Application, error)
	Decline(ctx context.Context, applicationID, actingUserID int, remove bool) (*domain.Application, error)
	HireOffer(ctx context.Context, creatorID, taskID, workerID int, price int64) (*domain.Application, error)
	ListForTask(ctx context.Context, taskID, actingUserID int) ([]domain.Application, error)
	ListForApplicant(ctx context.Context, applicantID int) ([]domain.Application, error)
}

type ApplicationHandler struct {
	applicationService Service
}

func New(applicationService Service) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
	}
}

func toApplicationDTO(app *domain.Application) dto.ApplicationResponseDTO {
	resp := dto.ApplicationResponseDTO{
		ID:             app.ID,
		TaskID:         app.TaskID,
		ApplicantID:    app.ApplicantID,
		ProposedPrice:  app.ProposedPrice,
		ChargedCredits: app.ChargedCredits,
		Status:         app.Status,
		CreatedAt:      app.CreatedAt.Format(time.RFC3339),
	}
	if app.SelectedAt != nil {
		resp.SelectedAt = app.SelectedAt.Format(time.RFC3339)
	}
	return resp
}

// respondServiceError maps lifecycle and ledger errors onto HTTP statuses.
// Shortfalls are surfaced for the user; other parties' balances never are.
func respondServiceError(w http.ResponseWriter, err error) {
	var insufficient *ledgerservice.InsufficientCreditsError
	switch {
	case errors.As(err, &insufficient):
		utils.RespondWithError(w, http.StatusPaymentRequired, insufficient.Error())
	case errors.Is(err, ledgerservice.ErrInsufficientCredits):
		utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, applicationservice.ErrUnauthorized):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, applicationservice.ErrInvalidState),
		errors.Is(err, applicationservice.ErrAlreadyApplied),
		errors.Is(err, applicationservice.ErrTaskClosed),
		errors.Is(err, applicationservice.ErrTaskCompleted),
		errors.Is(err, applicationservice.ErrNotDirectHire):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, applicationservice.ErrTaskNotFound),
		errors.Is(err, applicationservice.ErrApplicationNotFound),
		errors.Is(err, applicationservice.ErrUserNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// Apply godoc
//
//	@Summary		Apply to a task
//	@Description	Create an application, optionally proposing a price. Applying at the task price reserves the backing credits immediately.
//	@Tags			Applications
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			taskID	path		int					true	"Task ID"
//	@Param			request	body		dto.ApplyRequestDTO	false	"Optional price proposal"
//	@Success		201		{object}	dto.ApplicationResponseDTO
//	@Failure		402		{object}	utils.Response	"Insufficient credits"
//	@Failure		403		{object}	utils.Response	"Not allowed to apply"
//	@Failure		404		{object}	utils.Response	"Task not found"
//	@Failure		409		{object}	utils.Response	"Already applied or task closed"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/tasks/{taskID}/applications [post]
func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	taskID, err := strconv.Atoi(chi.URLParam(r, "taskID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	var req dto.ApplyRequestDTO
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.ProposedPrice != nil && *req.ProposedPrice <= 0 {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Price must be positive")
		return
	}

	app, err := h.applicationService.Apply(r.Context(), userID, taskID, req.ProposedPrice)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toApplicationDTO(app))
}

// CounterOffer godoc
//
//	@Summary		Counter-offer a price
//	@Description	Either party moves the negotiated price; the applicant's reservation is resized in the same transaction.
//	@Tags			Applications
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			applicationID	path		int							true	"Application ID"
//	@Param			request			body		dto.CounterOfferRequestDTO	true	"New price"
//	@Success		200				{object}	dto.ApplicationResponseDTO
//	@Failure		402				{object}	utils.Response	"Insufficient credits"
//	@Failure		403				{object}	utils.Response	"Wrong actor"
//	@Failure		404				{object}	utils.Response	"Application not found"
//	@Failure		409				{object}	utils.Response	"Terminal application"
//	@Failure		500				{object}	utils.Response	"Internal server error"
//	@Router			/api/applications/{applicationID}/counter-offer [post]
func (h *ApplicationHandler) CounterOffer(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	applicationID, err := strconv.Atoi(chi.URLParam(r, "applicationID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid application id")
		return
	}

	var req dto.CounterOfferRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Price <= 0 {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Price must be positive")
		return
	}

	app, err := h.applicationService.CounterOffer(r.Context(), applicationID, userID, req.Price)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toApplicationDTO(app))
}

// Accept godoc
//
//	@Summary		Accept an application
//	@Description	Settles the winner's reservation, refunds and declines every rival and closes the task atomically.
//	@Tags			Applications
//	@Security		BearerAuth
//	@Produce		json
//	@Param			applicationID	path		int	true	"Application ID"
//	@Success		200				{object}	dto.ApplicationResponseDTO
//	@Failure		402				{object}	utils.Response	"Insufficient credits"
//	@Failure		403				{object}	utils.Response	"Wrong actor"
//	@Failure		404				{object}	utils.Response	"Application not found"
//	@Failure		409				{object}	utils.Response	"Terminal application"
//	@Failure		500				{object}	utils.Response	"Internal server error"
//	@Router			/api/applications/{applicationID}/accept [post]
func (h *ApplicationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	applicationID, err := strconv.Atoi(chi.URLParam(r, "applicationID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid application id")
		return
	}

	app, err := h.applicationService.Accept(r.Context(), applicationID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toApplicationDTO(app))
}

// Decline godoc
//
//	@Summary		Decline an application
//	@Description	Creator-only; refunds the full reservation. Pass remove=true to withdraw instead of decline.
//	@Tags			Applications
//	@Security		BearerAuth
//	@Produce		json
//	@Param			applicationID	path		int		true	"Application ID"
//	@Param			remove			query		bool	false	"Remove instead of decline"
//	@Success		200				{object}	dto.ApplicationResponseDTO
//	@Failure		403				{object}	utils.Response	"Wrong actor"
//	@Failure		404				{object}	utils.Response	"Application not found"
//	@Failure		409				{object}	utils.Response	"Terminal application"
//	@Failure		500				{object}	utils.Response	"Internal server error"
//	@Router			/api/applications/{applicationID}/decline [post]
func (h *ApplicationHandler) Decline(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	applicationID, err := strconv.Atoi(chi.URLParam(r, "applicationID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid application id")
		return
	}
	remove := r.URL.Query().Get("remove") == "true"

	app, err := h.applicationService.Decline(r.Context(), applicationID, userID, remove)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toApplicationDTO(app))
}

// HireOffer godoc
//
//	@Summary		Offer a direct-hire task to a worker
//	@Description	Creator-only, direct-hire tasks only. The worker is not pre-charged.
//	@Tags			Applications
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			taskID	path		int						true	"Task ID"
//	@Param			request	body		dto.HireOfferRequestDTO	true	"Worker and price"
//	@Success		201		{object}	dto.ApplicationResponseDTO
//	@Failure		403		{object}	utils.Response	"Wrong actor"
//	@Failure		404		{object}	utils.Response	"Task or worker not found"
//	@Failure		409		{object}	utils.Response	"Not a direct hire or offer already exists"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/tasks/{taskID}/hire [post]
func (h *ApplicationHandler) HireOffer(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	taskID, err := strconv.Atoi(chi.URLParam(r, "taskID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	var req dto.HireOfferRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Price <= 0 {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Price must be positive")
		return
	}

	app, err := h.applicationService.HireOffer(r.Context(), userID, taskID, req.WorkerID, req.Price)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toApplicationDTO(app))
}

// GetTaskApplications godoc
//
//	@Summary		List applications for a task
//	@Description	Creator-only view of every application on the task
//	@Tags			Applications
//	@Security		BearerAuth
//	@Produce		json
//	@Param			taskID	path		int	true	"Task ID"
//	@Success		200		{array}		dto.ApplicationResponseDTO
//	@Success		204		{object}	utils.Response	"No applications"
//	@Failure		403		{object}	utils.Response	"Not the task creator"
//	@Failure		404		{object}	utils.Response	"Task not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/tasks/{taskID}/applications [get]
func (h *ApplicationHandler) GetTaskApplications(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	taskID, err := strconv.Atoi(chi.URLParam(r, "taskID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	apps, err := h.applicationService.ListForTask(r.Context(), taskID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if len(apps) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No applications")
		return
	}

	response := make([]dto.ApplicationResponseDTO, len(apps))
	for i := range apps {
		response[i] = toApplicationDTO(&apps[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetMyApplications godoc
//
//	@Summary		List own applications
//	@Tags			Applications
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.ApplicationResponseDTO
//	@Success		204	{object}	utils.Response	"No applications"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/applications [get]
func (h *ApplicationHandler) GetMyApplications(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	apps, err := h.applicationService.ListForApplicant(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(apps) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No applications")
		return
	}

	response := make([]dto.ApplicationResponseDTO, len(apps))
	for i := range apps {
		response[i] = toApplicationDTO(&apps[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}
