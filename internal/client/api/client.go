package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/taskapi/pkg/api"
)

// Error ответ сервера с кодом не 2xx
type Error struct {
	Fields  map[string]string
	Message string
	Status  int
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
	}

	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return fmt.Sprintf("server error (%d): %s (%s)", e.Status, e.Message, strings.Join(parts, "; "))
}

// IsUnauthorized сообщает, отверг ли сервер токен или учетные данные
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken задает bearer токен для запросов к /api/tasks
func (c *Client) SetToken(token string) {
	c.token = token
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// ListTasks возвращает задачи текущего пользователя
func (c *Client) ListTasks(ctx context.Context) ([]api.TaskResponse, error) {
	var resp []api.TaskResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/tasks", nil, &resp); err != nil {
		return nil, fmt.Errorf("list tasks request failed: %w", err)
	}
	return resp, nil
}

// GetTask возвращает задачу по id
func (c *Client) GetTask(ctx context.Context, id int64) (*api.TaskResponse, error) {
	var resp api.TaskResponse
	if err := c.doRequest(ctx, http.MethodGet, taskPath(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("get task request failed: %w", err)
	}
	return &resp, nil
}

// CreateTask создает задачу
func (c *Client) CreateTask(ctx context.Context, req api.TaskRequest) (*api.TaskResponse, error) {
	var resp api.TaskResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/tasks", req, &resp); err != nil {
		return nil, fmt.Errorf("create task request failed: %w", err)
	}
	return &resp, nil
}

// UpdateTask заменяет заголовок и описание задачи
func (c *Client) UpdateTask(ctx context.Context, id int64, req api.TaskRequest) (*api.TaskResponse, error) {
	var resp api.TaskResponse
	if err := c.doRequest(ctx, http.MethodPut, taskPath(id), req, &resp); err != nil {
		return nil, fmt.Errorf("update task request failed: %w", err)
	}
	return &resp, nil
}

// ToggleTask переключает признак выполнения
func (c *Client) ToggleTask(ctx context.Context, id int64) (*api.TaskResponse, error) {
	var resp api.TaskResponse
	if err := c.doRequest(ctx, http.MethodPatch, taskPath(id)+"/complete", nil, &resp); err != nil {
		return nil, fmt.Errorf("toggle task request failed: %w", err)
	}
	return &resp, nil
}

// DeleteTask удаляет задачу
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, taskPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete task request failed: %w", err)
	}
	return nil
}

func taskPath(id int64) string {
	return "/api/tasks/" + strconv.FormatInt(id, 10)
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", api.TokenTypeBearer+" "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			apiErr.Message = errResp.Message
			apiErr.Fields = errResp.Errors
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
