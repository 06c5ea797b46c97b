package models

import "time"

// User представляет пользователя в системе
type User struct {
	CreatedAt    time.Time `json:"created_at"` // время регистрации
	Username     string    `json:"username"`   // уникальный username (3-50 символов)
	Email        string    `json:"email"`      // уникальный email
	PasswordHash string    `json:"-"`          // bcrypt хеш пароля, наружу не отдается
	ID           int64     `json:"id"`
}
