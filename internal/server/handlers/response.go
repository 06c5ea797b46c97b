package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/taskapi/internal/server/auth"
	"github.com/iudanet/taskapi/internal/server/tasks"
	"github.com/iudanet/taskapi/internal/validation"
	"github.com/iudanet/taskapi/pkg/api"
)

// maxBodyBytes ограничение на размер тела запроса
const maxBodyBytes = 1 << 20

// requestError ошибка разбора запроса (невалидный JSON, id), всегда 400
type requestError struct {
	message string
}

func (e *requestError) Error() string {
	return e.message
}

// sendJSON отправляет JSON ответ
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// WriteError отправляет ответ с ошибкой в едином формате API
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int, message string, fields map[string]string) {
	resp := api.ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    statusCode,
		Error:     http.StatusText(statusCode),
		Message:   message,
		Path:      r.URL.Path,
		Errors:    fields,
	}
	if fields != nil && statusCode == http.StatusBadRequest {
		resp.Error = "Validation Failed"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

// respondError переводит доменную ошибку в HTTP ответ.
// Единственное место, где ошибки сервисов превращаются в статусы.
func respondError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var (
		fields validation.FieldErrors
		reqErr *requestError
	)
	switch {
	case errors.As(err, &fields):
		WriteError(w, r, http.StatusBadRequest, "Validation failed", fields)
	case errors.As(err, &reqErr):
		WriteError(w, r, http.StatusBadRequest, reqErr.message, nil)
	case errors.Is(err, auth.ErrPasswordTooLong):
		WriteError(w, r, http.StatusBadRequest, "Validation failed",
			map[string]string{"password": "Password must not exceed 72 bytes"})
	case errors.Is(err, auth.ErrDuplicateUsername):
		WriteError(w, r, http.StatusConflict, "Username already exists",
			map[string]string{"username": "Username already exists"})
	case errors.Is(err, auth.ErrDuplicateEmail):
		WriteError(w, r, http.StatusConflict, "Email already exists",
			map[string]string{"email": "Email already exists"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		WriteError(w, r, http.StatusUnauthorized, "Invalid username or password", nil)
	case errors.Is(err, ErrUnauthenticated):
		WriteError(w, r, http.StatusUnauthorized, "authentication required", nil)
	case errors.Is(err, tasks.ErrTaskNotFound):
		WriteError(w, r, http.StatusNotFound, "Task not found with id: "+r.PathValue("id"), nil)
	default:
		// Детали только в лог, клиенту generic сообщение
		logger.ErrorContext(ctx, "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		WriteError(w, r, http.StatusInternalServerError, "internal server error", nil)
	}
}

// decodeJSON читает и валидирует тело запроса
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &requestError{message: "invalid request body"}
	}
	return validation.Struct(dst)
}
