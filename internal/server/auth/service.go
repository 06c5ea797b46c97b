// Package auth реализует регистрацию и вход пользователей.
// Это единственное место, где создаются пользователи и выпускаются токены.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/taskapi/internal/models"
	"github.com/iudanet/taskapi/internal/server/storage"
)

// Ошибки бизнес-логики аутентификации
var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordTooLong    = errors.New("password must not exceed 72 bytes")
)

// TokenIssuer выпускает токен доступа для username
type TokenIssuer interface {
	Issue(subject string, now time.Time) (string, error)
}

// Result результат успешной регистрации или входа
type Result struct {
	Token    string
	Username string
}

// Service orchestrates registration and login.
type Service struct {
	logger     *slog.Logger
	users      storage.UserStorage
	tokens     TokenIssuer
	now        func() time.Time
	dummyHash  []byte
	bcryptCost int
}

// Option настраивает Service
type Option func(*Service)

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithBcryptCost задает стоимость bcrypt
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

// NewService создает сервис аутентификации
func NewService(logger *slog.Logger, users storage.UserStorage, tokens TokenIssuer, opts ...Option) (*Service, error) {
	s := &Service{
		logger:     logger,
		users:      users,
		tokens:     tokens,
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.bcryptCost < bcrypt.MinCost || s.bcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, s.bcryptCost)
	}

	// Хеш для сравнения, когда пользователя нет: время ответа не выдает,
	// существует ли username
	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	s.dummyHash = dummy

	return s, nil
}

// Register creates a user and returns a token for it.
func (s *Service) Register(ctx context.Context, username, email, password string) (*Result, error) {
	// Предварительные проверки дают точное сообщение об ошибке.
	// От гонки защищает UNIQUE constraint в хранилище.
	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, ErrDuplicateUsername
	}

	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrUsernameTaken):
			return nil, ErrDuplicateUsername
		case errors.Is(err, storage.ErrEmailTaken):
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.Username, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("username", user.Username),
		slog.Int64("user_id", user.ID))

	return &Result{Token: token, Username: user.Username}, nil
}

// Login verifies credentials and returns a fresh token. Unknown username and
// wrong password both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*Result, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		s.logger.WarnContext(ctx, "login failed: user not found", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.WarnContext(ctx, "login failed: invalid password", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("username", user.Username),
		slog.Int64("user_id", user.ID))

	return &Result{Token: token, Username: user.Username}, nil
}
