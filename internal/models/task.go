package models

import "time"

// Task представляет задачу пользователя.
// Задача всегда принадлежит ровно одному пользователю (UserID).
type Task struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"` // обновляется при каждой мутации
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Completed   bool      `json:"completed"`
}
