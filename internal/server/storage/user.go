package storage

import (
	"context"

	"github.com/iudanet/taskapi/internal/models"
)

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage and sets user.ID
	// Returns ErrUsernameTaken or ErrEmailTaken if unique constraint is violated
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves user by username
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// ExistsByUsername reports whether a user with this username exists
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail reports whether a user with this email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
