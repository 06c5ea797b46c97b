package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/iudanet/taskapi/internal/server/auth"
	"github.com/iudanet/taskapi/pkg/api"
)

// AuthService определяет операции регистрации и входа
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*auth.Result, error)
	Login(ctx context.Context, username, password string) (*auth.Result, error)
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger  *slog.Logger
	service AuthService
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, service AuthService) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		service: service,
	}
}

// Register обрабатывает POST /api/auth/register
// Регистрация нового пользователя
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid register request", slog.Any("error", err))
		respondError(h.logger, w, r, err)
		return
	}

	result, err := h.service.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	sendJSON(h.logger, w, api.AuthResponse{
		Token:    result.Token,
		Type:     api.TokenTypeBearer,
		Username: result.Username,
	}, http.StatusCreated)
}

// Login обрабатывает POST /api/auth/login
// Аутентификация пользователя
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid login request", slog.Any("error", err))
		respondError(h.logger, w, r, err)
		return
	}

	result, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	sendJSON(h.logger, w, api.AuthResponse{
		Token:    result.Token,
		Type:     api.TokenTypeBearer,
		Username: result.Username,
	}, http.StatusOK)
}
