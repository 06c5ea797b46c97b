package api

import "time"

// ErrorResponse представляет ответ с ошибкой.
// Единый формат для всех ошибок API, включая 401 из middleware.
type ErrorResponse struct {
	Timestamp time.Time         `json:"timestamp"`
	Errors    map[string]string `json:"errors,omitempty"` // field -> message для ошибок валидации
	Error     string            `json:"error"`            // текстовое описание HTTP статуса
	Message   string            `json:"message"`
	Path      string            `json:"path"`
	Status    int               `json:"status"`
}
