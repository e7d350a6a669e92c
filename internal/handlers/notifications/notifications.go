package notifications

import (
	"context"
	"net/http"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"github.com/GlebRadaev/taskmarket/internal/dto"
	"github.com/GlebRadaev/taskmarket/pkg/auth"
	"github.com/GlebRadaev/taskmarket/pkg/utils"
)

type Service interface {
	ListForUser(ctx context.Context, userID int) ([]domain.Notification, error)
}

type NotificationHandler struct {
	notificationService Service
}

func New(notificationService Service) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GetNotifications godoc
//
//	@Summary		List own notifications
//	@Description	Lifecycle events for the user's tasks and applications, newest first
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.NotificationResponseDTO
//	@Success		204	{object}	utils.Response	"No notifications"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/notifications [get]
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	items, err := h.notificationService.ListForUser(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(items) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No notifications")
		return
	}

	response := make([]dto.NotificationResponseDTO, len(items))
	for i, n := range items {
		response[i] = dto.NotificationResponseDTO{
			Kind:      n.Kind,
			Message:   n.Message,
			TaskID:    n.TaskID,
			CreatedAt: n.CreatedAt,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}
