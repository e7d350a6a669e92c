package tasks

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
	"github.com/GlebRadaev/taskmarket/internal/service/taskservice"
	"github.com/GlebRadaev/taskmarket/pkg/auth"
	"github.com/GlebRadaev/taskmarket/pkg/utils"
)

type Service interface {
	Create(ctx context.Context, creatorID int, title, description string, price *int64, isDirectHire bool, workerID *int) (*domain.Task, error)
	Get(ctx context.Context, taskID int) (*domain.Task, error)
	ListOpen(ctx context.Context) ([]domain.Task, error)
	Complete(ctx context.Context, taskID, actingUserID int) (*domain.Task, error)
}

type TaskHandler struct {
	taskService Service
}

func New(taskService Service) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

func toTaskDTO(task *domain.Task) dto.TaskResponseDTO {
	resp := dto.TaskResponseDTO{
		ID:           task.ID,
		CreatorID:    task.CreatorID,
		Title:        task.Title,
		Description:  task.Description,
		Price:        task.Price,
		IsOpen:       task.IsOpen,
		IsDirectHire: task.IsDirectHire,
		CreatedAt:    task.CreatedAt.Format(time.RFC3339),
	}
	if task.CompletedAt != nil {
		resp.CompletedAt = task.CompletedAt.Format(time.RFC3339)
	}
	return resp
}

// CreateTask godoc
//
//	@Summary		Post a new task
//	@Description	Create a task, optionally with a reference price or as a direct hire for a specific worker
//	@Tags			Tasks
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateTaskRequestDTO	true	"Task payload"
//	@Success		201		{object}	dto.TaskResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/tasks [post]
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.CreateTaskRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}

	task, err := h.taskService.Create(r.Context(), userID, req.Title, req.Description, req.Price, req.IsDirectHire, req.WorkerID)
	if err != nil {
		switch {
		case errors.Is(err, taskservice.ErrInvalidPrice),
			errors.Is(err, taskservice.ErrWorkerRequired),
			errors.Is(err, taskservice.ErrCreatorCannotWork):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toTaskDTO(task))
}

// GetTasks godoc
//
//	@Summary		List open tasks
//	@Description	Retrieve every task that is open and not completed
//	@Tags			Tasks
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.TaskResponseDTO
//	@Success		204	{object}	utils.Response	"No tasks available"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/tasks [get]
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListOpen(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(tasks) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No tasks available")
		return
	}

	response := make([]dto.TaskResponseDTO, len(tasks))
	for i := range tasks {
		response[i] = toTaskDTO(&tasks[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetTask godoc
//
//	@Summary		Get a single task
//	@Tags			Tasks
//	@Security		BearerAuth
//	@Produce		json
//	@Param			taskID	path		int	true	"Task ID"
//	@Success		200		{object}	dto.TaskResponseDTO
//	@Failure		404		{object}	utils.Response	"Task not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/tasks/{taskID} [get]
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.Atoi(chi.URLParam(r, "taskID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	task, err := h.taskService.Get(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, taskservice.ErrTaskNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toTaskDTO(task))
}

// CompleteTask godoc
//
//	@Summary		Mark a task completed
//	@Description	Creator-only; requires an accepted application. A completed task is immutable.
//	@Tags			Tasks
//	@Security		BearerAuth
//	@Produce		json
//	@Param			taskID	path		int	true	"Task ID"
//	@Success		200		{object}	dto.TaskResponseDTO
//	@Failure		403		{object}	utils.Response	"Not the task creator"
//	@Failure		404		{object}	utils.Response	"Task not found"
//	@Failure		409		{object}	utils.Response	"No accepted application or already completed"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/tasks/{taskID}/complete [post]
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	taskID, err := strconv.Atoi(chi.URLParam(r, "taskID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	task, err := h.taskService.Complete(r.Context(), taskID, userID)
	if err != nil {
		switch {
		case errors.Is(err, taskservice.ErrTaskNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, taskservice.ErrNotCreator):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, taskservice.ErrTaskCompleted), errors.Is(err, taskservice.ErrNoAcceptedWork):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toTaskDTO(task))
}
