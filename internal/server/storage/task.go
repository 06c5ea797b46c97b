package storage

import (
	"context"

	"github.com/iudanet/taskapi/internal/models"
)

// TaskStorage defines interface for task persistence.
// Every method is scoped to the owner: a task of another user behaves
// exactly like a task that does not exist.
type TaskStorage interface {
	// CreateTask inserts a new task and sets task.ID
	CreateTask(ctx context.Context, task *models.Task) error

	// GetTask retrieves task by ID for the given owner
	// Returns ErrTaskNotFound if task doesn't exist or belongs to another user
	GetTask(ctx context.Context, userID, taskID int64) (*models.Task, error)

	// ListTasks retrieves all tasks of the owner ordered by ID
	// Returns empty slice if no tasks found
	ListTasks(ctx context.Context, userID int64) ([]*models.Task, error)

	// UpdateTask stores title, description, completed and updated_at
	// Returns ErrTaskNotFound if task doesn't exist or belongs to another user
	UpdateTask(ctx context.Context, task *models.Task) error

	// DeleteTask deletes task by ID for the given owner
	// Returns ErrTaskNotFound if task doesn't exist or belongs to another user
	DeleteTask(ctx context.Context, userID, taskID int64) error
}
