package api

import "time"

// TaskRequest представляет тело запроса на создание или изменение задачи
type TaskRequest struct {
	Completed   *bool  `json:"completed,omitempty"` // nil означает "не менять" (или false при создании)
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description"`
}

// TaskResponse представляет задачу в ответе API
type TaskResponse struct {
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ID          int64     `json:"id"`
	Completed   bool      `json:"completed"`
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
