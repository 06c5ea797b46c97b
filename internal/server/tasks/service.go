// Package tasks содержит CRUD логику задач. Каждая операция выполняется
// от имени владельца, чужие задачи неотличимы от несуществующих.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/taskapi/internal/models"
	"github.com/iudanet/taskapi/internal/server/storage"
)

// ErrTaskNotFound задача не существует или принадлежит другому пользователю
var ErrTaskNotFound = errors.New("task not found")

// Input изменяемые поля задачи.
// Completed == nil: при создании false, при обновлении без изменений.
type Input struct {
	Completed   *bool
	Title       string
	Description string
}

// Service implements owner-scoped task operations.
type Service struct {
	logger *slog.Logger
	store  storage.TaskStorage
	now    func() time.Time
}

// NewService создает сервис задач
func NewService(logger *slog.Logger, store storage.TaskStorage) *Service {
	return &Service{
		logger: logger,
		store:  store,
		now:    time.Now,
	}
}

// List returns every task of the owner.
func (s *Service) List(ctx context.Context, userID int64) ([]*models.Task, error) {
	tasks, err := s.store.ListTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns a single task of the owner.
func (s *Service) Get(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, translate(err)
	}
	return task, nil
}

// Create stores a new task owned by userID.
func (s *Service) Create(ctx context.Context, userID int64, in Input) (*models.Task, error) {
	now := s.now()
	task := &models.Task{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Completed != nil {
		task.Completed = *in.Completed
	}

	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.DebugContext(ctx, "task created",
		slog.Int64("user_id", userID),
		slog.Int64("task_id", task.ID))

	return task, nil
}

// Update replaces title and description; completed changes only when given.
func (s *Service) Update(ctx context.Context, userID, taskID int64, in Input) (*models.Task, error) {
	return s.mutate(ctx, userID, taskID, func(task *models.Task) {
		task.Title = in.Title
		task.Description = in.Description
		if in.Completed != nil {
			task.Completed = *in.Completed
		}
	})
}

// ToggleCompletion flips the completed flag.
func (s *Service) ToggleCompletion(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	return s.mutate(ctx, userID, taskID, func(task *models.Task) {
		task.Completed = !task.Completed
	})
}

// Delete removes a task of the owner.
func (s *Service) Delete(ctx context.Context, userID, taskID int64) error {
	if err := s.store.DeleteTask(ctx, userID, taskID); err != nil {
		return translate(err)
	}

	s.logger.DebugContext(ctx, "task deleted",
		slog.Int64("user_id", userID),
		slog.Int64("task_id", taskID))

	return nil
}

// mutate читает задачу владельца, применяет изменение и сохраняет ее
// с новым updated_at
func (s *Service) mutate(ctx context.Context, userID, taskID int64, apply func(*models.Task)) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, translate(err)
	}

	apply(task)
	task.UpdatedAt = s.now()

	if err := s.store.UpdateTask(ctx, task); err != nil {
		return nil, translate(err)
	}

	return task, nil
}

func translate(err error) error {
	if errors.Is(err, storage.ErrTaskNotFound) {
		return ErrTaskNotFound
	}
	return fmt.Errorf("task storage: %w", err)
}
