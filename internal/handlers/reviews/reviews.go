package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GlebRadaev/taskmarket/internal/domain"
	"github.com/GlebRadaev/taskmarket/internal/dto"
	"github.com/GlebRadaev/taskmarket/internal/service/reviewservice"
	"github.com/GlebRadaev/taskmarket/pkg/auth"
	"github.com/GlebRadaev/taskmarket/pkg/utils"
)

type Service interface {
	Create(ctx context.Context, taskID, authorID, rating int, comment string) (*domain.Review, error)
	ListForUser(ctx context.Context, userID int) ([]domain.Review, error)
}

type ReviewHandler struct {
	reviewService Service
}

func New(reviewService Service) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

func toReviewDTO(rev *domain.Review) dto.ReviewResponseDTO {
	return dto.ReviewResponseDTO{
		ID:        rev.ID,
		TaskID:    rev.TaskID,
		AuthorID:  rev.AuthorID,
		TargetID:  rev.TargetID,
		Rating:    rev.Rating,
		Comment:   rev.Comment,
		CreatedAt: rev.CreatedAt,
	}
}

// CreateReview godoc
//
//	@Summary		Leave a review on a completed task
//	@Description	Creator reviews the worker, worker reviews the creator. One review per author per task.
//	@Tags			Reviews
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			taskID	path		int							true	"Task ID"
//	@Param			request	body		dto.CreateReviewRequestDTO	true	"Rating 1..5 and optional comment"
//	@Success		201		{object}	dto.ReviewResponseDTO
//	@Failure		403		{object}	utils.Response	"Not a task participant"
//	@Failure		404		{object}	utils.Response	"Task not found"
//	@Failure		409		{object}	utils.Response	"Task not completed or already reviewed"
//	@Failure		422		{object}	utils.Response	"Invalid rating"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/tasks/{taskID}/reviews [post]
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	taskID, err := strconv.Atoi(chi.URLParam(r, "taskID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	var req dto.CreateReviewRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rev, err := h.reviewService.Create(r.Context(), taskID, userID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, reviewservice.ErrInvalidRating):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, reviewservice.ErrTaskNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, reviewservice.ErrNotParticipant):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, reviewservice.ErrTaskNotCompleted),
			errors.Is(err, reviewservice.ErrAlreadyReviewed):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toReviewDTO(rev))
}

// GetUserReviews godoc
//
//	@Summary		List reviews received by a user
//	@Tags			Reviews
//	@Security		BearerAuth
//	@Produce		json
//	@Param			userID	path		int	true	"User ID"
//	@Success		200		{array}		dto.ReviewResponseDTO
//	@Success		204		{object}	utils.Response	"No reviews"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/users/{userID}/reviews [get]
func (h *ReviewHandler) GetUserReviews(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	revs, err := h.reviewService.ListForUser(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(revs) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No reviews")
		return
	}

	response := make([]dto.ReviewResponseDTO, len(revs))
	for i := range revs {
		response[i] = toReviewDTO(&revs[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}
