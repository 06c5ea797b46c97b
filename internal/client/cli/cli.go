// Package cli реализует команды консольного клиента TaskAPI.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/taskapi/internal/client/api"
	"github.com/iudanet/taskapi/internal/client/iocli"
	"github.com/iudanet/taskapi/internal/client/storage"
	pkgapi "github.com/iudanet/taskapi/pkg/api"
)

// ErrNotAuthenticated нет сохраненной сессии или она истекла
var ErrNotAuthenticated = errors.New("not authenticated. Please run 'taskapi login' first")

// APIClient операции сервера, нужные командам
type APIClient interface {
	SetToken(token string)
	Register(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.AuthResponse, error)
	Login(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.AuthResponse, error)
	ListTasks(ctx context.Context) ([]pkgapi.TaskResponse, error)
	GetTask(ctx context.Context, id int64) (*pkgapi.TaskResponse, error)
	CreateTask(ctx context.Context, req pkgapi.TaskRequest) (*pkgapi.TaskResponse, error)
	UpdateTask(ctx context.Context, id int64, req pkgapi.TaskRequest) (*pkgapi.TaskResponse, error)
	ToggleTask(ctx context.Context, id int64) (*pkgapi.TaskResponse, error)
	DeleteTask(ctx context.Context, id int64) error
}

type Cli struct {
	io        iocli.IO
	apiClient APIClient
	sessions  storage.SessionStorage
	now       func() time.Time
	serverURL string
}

func New(io iocli.IO, apiClient APIClient, sessions storage.SessionStorage, serverURL string) *Cli {
	return &Cli{
		io:        io,
		apiClient: apiClient,
		sessions:  sessions,
		now:       time.Now,
		serverURL: serverURL,
	}
}

// Run выполняет команду с аргументами
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "list":
		return c.runList(ctx)
	case "add":
		return c.runAdd(ctx, args)
	case "show":
		return c.withTaskID(ctx, args, c.runShow)
	case "edit":
		return c.withTaskID(ctx, args, c.runEdit)
	case "done":
		return c.withTaskID(ctx, args, c.runToggle)
	case "delete":
		return c.withTaskID(ctx, args, c.runDelete)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// authorize загружает сессию и передает токен API клиенту
func (c *Cli) authorize(ctx context.Context) (*storage.Session, error) {
	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.Expired(c.now()) {
		return nil, fmt.Errorf("session expired: %w", ErrNotAuthenticated)
	}

	// Токен выпущен другим сервером и туда не отправляется
	if normalizeURL(session.ServerURL) != normalizeURL(c.serverURL) {
		return nil, fmt.Errorf("session belongs to %q: %w", session.ServerURL, ErrNotAuthenticated)
	}

	c.apiClient.SetToken(session.Token)
	return session, nil
}

func normalizeURL(u string) string {
	return strings.TrimRight(strings.TrimSpace(u), "/")
}

// withTaskID разбирает <id> и вызывает команду от имени текущего пользователя
func (c *Cli) withTaskID(ctx context.Context, args []string, run func(ctx context.Context, id int64) error) error {
	if len(args) == 0 {
		return fmt.Errorf("missing task ID")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid task ID: %s", args[0])
	}

	if _, err := c.authorize(ctx); err != nil {
		return err
	}

	return explain(run(ctx, id))
}

// explain добавляет подсказку, если сервер отверг токен
func explain(err error) error {
	if err != nil && api.IsUnauthorized(err) {
		return fmt.Errorf("%w (run 'taskapi login' to refresh the session)", err)
	}
	return err
}

func PrintUsage(w io.Writer) {
	_, _ = fmt.Fprint(w, `TaskAPI Client

Usage:
  taskapi [OPTIONS] COMMAND [ARGS]

Options:
  --version        Show version information
  --server URL     Server URL (default: http://localhost:8080, env TASKAPI_SERVER)
  --session PATH   Path to local session database (default: taskapi-client.db)

Commands:
  register         Register new user
  login            Login to server
  logout           Delete local session
  status           Show authentication status
  list             List your tasks
  add [title]      Create a task (prompts for missing fields)
  show <id>        Show task details
  edit <id>        Change task title and description
  done <id>        Toggle task completion
  delete <id>      Delete task

Examples:
  taskapi register
  taskapi login
  taskapi add Buy milk
  taskapi done 1
  taskapi --server https://tasks.example.com list
`)
}
