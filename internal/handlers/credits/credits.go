package credits

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"github.com/GlebRadaev/taskmarket/internal/dto"
	"github.com/GlebRadaev/taskmarket/internal/service/ledgerservice"
	"github.com/GlebRadaev/taskmarket/pkg/auth"
	"github.com/GlebRadaev/taskmarket/pkg/utils"
	"github.com/GlebRadaev/taskmarket/pkg/validate"
)

type Service interface {
	Balance(ctx context.Context, userID int) (int64, error)
	History(ctx context.Context, userID int) ([]domain.CreditTransaction, error)
	Purchase(ctx context.Context, userID int, cardNumber string, amount int64) error
}

type CreditHandler struct {
	ledgerService Service
}

func New(ledgerService Service) *CreditHandler {
	return &CreditHandler{
		ledgerService: ledgerService,
	}
}

// GetBalance godoc
//
//	@Summary		Get current credit balance
//	@Tags			Credits
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.BalanceResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/credits [get]
func (h *CreditHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	balance, err := h.ledgerService.Balance(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ledgerservice.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{Credits: balance})
}

// GetHistory godoc
//
//	@Summary		Get credit transaction history
//	@Description	Every reservation, refund, purchase and reward, newest first
//	@Tags			Credits
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.TransactionResponseDTO
//	@Success		204	{object}	utils.Response	"No transactions"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/credits/history [get]
func (h *CreditHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	txns, err := h.ledgerService.History(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(txns) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No transactions")
		return
	}

	response := make([]dto.TransactionResponseDTO, len(txns))
	for i, txn := range txns {
		response[i] = dto.TransactionResponseDTO{
			Amount:        txn.Amount,
			Type:          txn.Type,
			RelatedTaskID: txn.RelatedTaskID,
			Description:   txn.Description,
			ProcessedAt:   txn.CreatedAt,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Purchase godoc
//
//	@Summary		Buy credits
//	@Description	Charges the card through the payment provider and credits the balance
//	@Tags			Credits
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.PurchaseRequestDTO	true	"Card number and credit amount"
//	@Success		200		{object}	utils.Response	"Credits added"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		402		{object}	utils.Response	"Payment declined"
//	@Failure		422		{object}	utils.Response	"Invalid card number or amount"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/credits/purchase [post]
func (h *CreditHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.PurchaseRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validate.IsCardNumber(req.CardNumber) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid card number")
		return
	}

	err := h.ledgerService.Purchase(r.Context(), userID, req.CardNumber, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ledgerservice.ErrInvalidAmount):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, "Amount must be positive")
		case errors.Is(err, ledgerservice.ErrPaymentDeclined):
			utils.RespondWithError(w, http.StatusPaymentRequired, "Payment declined")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Credits added"})
}
