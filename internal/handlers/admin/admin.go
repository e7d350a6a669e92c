package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"github.com/GlebRadaev/taskmarket/internal/dto"
	"github.com/GlebRadaev/taskmarket/internal/service/authservice"
	"github.com/GlebRadaev/taskmarket/internal/service/ledgerservice"
	"github.com/GlebRadaev/taskmarket/pkg/utils"
)

type UserService interface {
	SetBlocked(ctx context.Context, userID int, blocked bool) error
}

type LedgerService interface {
	Credit(ctx context.Context, userID int, amount int64, txnType, description string) error
}

type AdminHandler struct {
	userService   UserService
	ledgerService LedgerService
}

func New(userService UserService, ledgerService LedgerService) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		ledgerService: ledgerService,
	}
}

// BlockUser godoc
//
//	@Summary		Block a user
//	@Description	A blocked user cannot authenticate or apply to tasks
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			userID	path		int	true	"User ID"
//	@Success		200		{object}	utils.Response	"User blocked"
//	@Failure		403		{object}	utils.Response	"Admin only"
//	@Failure		404		{object}	utils.Response	"User not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/users/{userID}/block [post]
func (h *AdminHandler) BlockUser(w http.ResponseWriter, r *http.Request) {
	h.setBlocked(w, r, true, "User blocked")
}

// UnblockUser godoc
//
//	@Summary		Unblock a user
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			userID	path		int	true	"User ID"
//	@Success		200		{object}	utils.Response	"User unblocked"
//	@Failure		403		{object}	utils.Response	"Admin only"
//	@Failure		404		{object}	utils.Response	"User not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/users/{userID}/unblock [post]
func (h *AdminHandler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	h.setBlocked(w, r, false, "User unblocked")
}

func (h *AdminHandler) setBlocked(w http.ResponseWriter, r *http.Request, blocked bool, okMessage string) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.userService.SetBlocked(r.Context(), userID, blocked); err != nil {
		if errors.Is(err, authservice.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: okMessage})
}

// RewardUser godoc
//
//	@Summary		Grant promotional credits to a user
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			userID	path		int					true	"User ID"
//	@Param			request	body		dto.RewardRequestDTO	true	"Credit amount and reason"
//	@Success		200		{object}	utils.Response	"Credits granted"
//	@Failure		403		{object}	utils.Response	"Admin only"
//	@Failure		404		{object}	utils.Response	"User not found"
//	@Failure		422		{object}	utils.Response	"Invalid amount"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/users/{userID}/reward [post]
func (h *AdminHandler) RewardUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req dto.RewardRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = h.ledgerService.Credit(r.Context(), userID, req.Amount, domain.TxnReward, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, ledgerservice.ErrInvalidAmount):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, "Amount must be positive")
		case errors.Is(err, ledgerservice.ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Credits granted"})
}
