package storage

import (
	"context"
	"time"
)

// SessionStorage хранит bearer токен текущего пользователя между запусками клиента
type SessionStorage interface {
	// SaveSession заменяет сохраненную сессию
	SaveSession(ctx context.Context, session *Session) error

	// GetSession возвращает ErrSessionNotFound, если сессии нет
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession удаляет сессию (logout).
	// Возвращает ErrSessionNotFound, если удалять нечего.
	DeleteSession(ctx context.Context) error
}

// Session данные авторизации, сохраненные на клиенте
type Session struct {
	ExpiresAt time.Time `json:"expires_at"`
	SavedAt   time.Time `json:"saved_at"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ServerURL string    `json:"server_url"`
}

// Expired сообщает, истек ли токен к моменту now.
// Сессия без известного срока считается действующей.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
