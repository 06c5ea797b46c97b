package handlers

import (
	"context"
	"errors"

	"github.com/iudanet/taskapi/internal/models"
)

// ErrUnauthenticated запрос дошел до защищенного обработчика без личности
var ErrUnauthenticated = errors.New("authentication required")

// contextKey тип для ключей контекста
type contextKey string

// userKey ключ для хранения текущего пользователя в контексте запроса
const userKey contextKey = "user"

// WithUser привязывает пользователя к контексту запроса.
// Вызывается только middleware аутентификации.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// CurrentUser извлекает пользователя из контекста запроса.
// Возвращает ErrUnauthenticated, если middleware не установил личность.
func CurrentUser(ctx context.Context) (*models.User, error) {
	user, ok := ctx.Value(userKey).(*models.User)
	if !ok || user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}
