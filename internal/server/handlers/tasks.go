package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iudanet/taskapi/internal/models"
	"github.com/iudanet/taskapi/internal/server/tasks"
	"github.com/iudanet/taskapi/pkg/api"
)

// TaskService определяет операции над задачами владельца
type TaskService interface {
	List(ctx context.Context, userID int64) ([]*models.Task, error)
	Get(ctx context.Context, userID, taskID int64) (*models.Task, error)
	Create(ctx context.Context, userID int64, in tasks.Input) (*models.Task, error)
	Update(ctx context.Context, userID, taskID int64, in tasks.Input) (*models.Task, error)
	Delete(ctx context.Context, userID, taskID int64) error
	ToggleCompletion(ctx context.Context, userID, taskID int64) (*models.Task, error)
}

// TaskHandler handles /api/tasks requests. Every method requires an
// identity bound by the auth middleware.
type TaskHandler struct {
	logger  *slog.Logger
	service TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(logger *slog.Logger, service TaskService) *TaskHandler {
	return &TaskHandler{
		logger:  logger,
		service: service,
	}
}

// List обрабатывает GET /api/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := CurrentUser(r.Context())
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	list, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	resp := make([]api.TaskResponse, 0, len(list))
	for _, task := range list {
		resp = append(resp, toResponse(task))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Create обрабатывает POST /api/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := CurrentUser(r.Context())
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	var req api.TaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	task, err := h.service.Create(r.Context(), user.ID, toInput(req))
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	sendJSON(h.logger, w, toResponse(task), http.StatusCreated)
}

// Get обрабатывает GET /api/tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, id, err := h.target(r)
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	task, err := h.service.Get(r.Context(), user.ID, id)
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	sendJSON(h.logger, w, toResponse(task), http.StatusOK)
}

// Update обрабатывает PUT /api/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, id, err := h.target(r)
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	var req api.TaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	task, err := h.service.Update(r.Context(), user.ID, id, toInput(req))
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	sendJSON(h.logger, w, toResponse(task), http.StatusOK)
}

// Delete обрабатывает DELETE /api/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, id, err := h.target(r)
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleCompletion обрабатывает PATCH /api/tasks/{id}/complete
func (h *TaskHandler) ToggleCompletion(w http.ResponseWriter, r *http.Request) {
	user, id, err := h.target(r)
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	task, err := h.service.ToggleCompletion(r.Context(), user.ID, id)
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	sendJSON(h.logger, w, toResponse(task), http.StatusOK)
}

// target возвращает текущего пользователя и id задачи из пути.
// Личность проверяется первой: без нее id не имеет значения.
func (h *TaskHandler) target(r *http.Request) (*models.User, int64, error) {
	user, err := CurrentUser(r.Context())
	if err != nil {
		return nil, 0, err
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return nil, 0, &requestError{message: "invalid task id"}
	}

	return user, id, nil
}

func toInput(req api.TaskRequest) tasks.Input {
	return tasks.Input{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
}

func toResponse(task *models.Task) api.TaskResponse {
	return api.TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
