package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/iudanet/taskapi/internal/models"
	"github.com/iudanet/taskapi/internal/server/handlers"
	"github.com/iudanet/taskapi/internal/server/storage"
)

// TokenVerifier проверяет токен и возвращает subject (username)
type TokenVerifier interface {
	Verify(token string, now time.Time) (string, error)
}

// UserLookup ищет владельца токена
type UserLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Authenticate создает middleware, устанавливающий личность запроса.
//
// Запрос без заголовка Authorization (или с заголовком не вида
// "Bearer <token>") проходит дальше неаутентифицированным; защищенные
// маршруты закрываются RequireUser. Невалидный токен и удаленный
// пользователь дают 401, ошибка хранилища дает 500.
func Authenticate(logger *slog.Logger, verifier TokenVerifier, users UserLookup) func(http.Handler) http.Handler {
	return AuthenticateWithClock(logger, verifier, users, time.Now)
}

// AuthenticateWithClock как Authenticate, но с заданными часами
func AuthenticateWithClock(
	logger *slog.Logger,
	verifier TokenVerifier,
	users UserLookup,
	now func() time.Time,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			username, err := verifier.Verify(tokenString, now())
			if err != nil {
				// Сам токен не логируем
				logger.WarnContext(ctx, "token rejected",
					slog.String("path", r.URL.Path),
					slog.Any("error", err))
				handlers.WriteError(w, r, http.StatusUnauthorized, "invalid or expired token", nil)
				return
			}

			user, err := users.GetUserByUsername(ctx, username)
			if err != nil {
				if errors.Is(err, storage.ErrUserNotFound) {
					logger.WarnContext(ctx, "token subject not found",
						slog.String("username", username))
					handlers.WriteError(w, r, http.StatusUnauthorized, "user not found", nil)
					return
				}

				logger.ErrorContext(ctx, "failed to load token subject",
					slog.String("username", username),
					slog.Any("error", err))
				handlers.WriteError(w, r, http.StatusInternalServerError, "internal server error", nil)
				return
			}

			logger.DebugContext(ctx, "user authenticated",
				slog.Int64("user_id", user.ID),
				slog.String("username", user.Username))

			next.ServeHTTP(w, r.WithContext(handlers.WithUser(ctx, user)))
		})
	}
}

// RequireUser отклоняет запросы без установленной личности
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := handlers.CurrentUser(r.Context()); err != nil {
			handlers.WriteError(w, r, http.StatusUnauthorized, "authentication required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken извлекает токен из заголовка вида "Bearer <token>"
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	return token, true
}
