package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/taskapi/pkg/api"
)

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	assert.NotNil(t, client)
	assert.Equal(t, "http://localhost:8080", client.baseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

// TestClient_Register проверяет успешную регистрацию
func TestClient_Register(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var req api.RegisterRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Username)
		assert.Equal(t, "alice@example.com", req.Email)
		assert.Equal(t, "secret1", req.Password)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(api.AuthResponse{Token: "tok", Type: "Bearer", Username: "alice"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Register(context.Background(), api.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "alice", resp.Username)
}

// TestClient_ErrorResponse проверяет разбор ошибки в стандартном формате
func TestClient_ErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{
			Status:  http.StatusConflict,
			Error:   "Conflict",
			Message: "Username already exists",
			Path:    r.URL.Path,
			Errors:  map[string]string{"username": "Username already exists"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Register(context.Background(), api.RegisterRequest{Username: "alice"})
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Username already exists", apiErr.Message)
	assert.Equal(t, "Username already exists", apiErr.Fields["username"])
	assert.Contains(t, err.Error(), "username: Username already exists")
	assert.False(t, IsUnauthorized(err))
}

// TestClient_PlainTextError проверяет ответ без JSON тела
func TestClient_PlainTextError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "404 page not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Health(context.Background())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "404 page not found", apiErr.Message)
}

// TestClient_Tasks проверяет запросы к задачам с bearer токеном
func TestClient_Tasks(t *testing.T) {
	task := api.TaskResponse{ID: 42, Title: "Buy milk"}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(api.ErrorResponse{Status: http.StatusUnauthorized, Message: "authentication required"})
			return
		}

		switch r.Method + " " + r.URL.Path {
		case "GET /api/tasks":
			_ = json.NewEncoder(w).Encode([]api.TaskResponse{task})
		case "POST /api/tasks":
			var req api.TaskRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(api.TaskResponse{ID: 43, Title: req.Title, Description: req.Description})
		case "GET /api/tasks/42":
			_ = json.NewEncoder(w).Encode(task)
		case "PUT /api/tasks/42":
			var req api.TaskRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			_ = json.NewEncoder(w).Encode(api.TaskResponse{ID: 42, Title: req.Title})
		case "PATCH /api/tasks/42/complete":
			_ = json.NewEncoder(w).Encode(api.TaskResponse{ID: 42, Title: task.Title, Completed: true})
		case "DELETE /api/tasks/42":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	defer server.Close()

	ctx := context.Background()
	client := NewClient(server.URL)

	// Без токена сервер отвечает 401
	_, err := client.ListTasks(ctx)
	assert.True(t, IsUnauthorized(err))

	client.SetToken("tok")

	list, err := client.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(42), list[0].ID)

	created, err := client.CreateTask(ctx, api.TaskRequest{Title: "Walk dog", Description: "park"})
	require.NoError(t, err)
	assert.Equal(t, int64(43), created.ID)
	assert.Equal(t, "park", created.Description)

	got, err := client.GetTask(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)

	updated, err := client.UpdateTask(ctx, 42, api.TaskRequest{Title: "Buy oat milk"})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)

	toggled, err := client.ToggleTask(ctx, 42)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	require.NoError(t, client.DeleteTask(ctx, 42))
}

// TestClient_ContextCanceled проверяет отмену запроса
func TestClient_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(server.URL).Health(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
