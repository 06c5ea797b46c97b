package api

// TokenTypeBearer тип токена, который возвращается клиенту
const TokenTypeBearer = "Bearer"

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"` // bcrypt учитывает только первые 72 байта
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse представляет ответ на успешную регистрацию или логин
type AuthResponse struct {
	Token    string `json:"token"`    // JWT access token
	Type     string `json:"type"`     // всегда "Bearer"
	Username string `json:"username"` // username владельца токена
}
