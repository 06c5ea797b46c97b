package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken indicates that user with this username already exists
	ErrUsernameTaken = errors.New("username already exists")

	// ErrEmailTaken indicates that user with this email already exists
	ErrEmailTaken = errors.New("email already exists")

	// ErrTaskNotFound indicates that task was not found or belongs to another user
	ErrTaskNotFound = errors.New("task not found")
)
