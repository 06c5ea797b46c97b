// Package server собирает HTTP API: маршруты, цепочку middleware и
// жизненный цикл http.Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/iudanet/taskapi/internal/server/handlers"
	"github.com/iudanet/taskapi/internal/server/middleware"
)

// Deps зависимости роутера
type Deps struct {
	Logger      *slog.Logger
	Auth        handlers.AuthService
	Tasks       handlers.TaskService
	DB          handlers.Pinger
	Tokens      middleware.TokenVerifier
	Users       middleware.UserLookup
	RateLimiter *middleware.RateLimiter
	Version     string
}

// NewRouter создает http.Handler со всеми маршрутами API.
//
// Порядок middleware: logging -> recovery -> маршрут. Только маршруты
// задач проходят Authenticate и RequireUser; /api/auth/* и /api/health
// заголовок Authorization не читают. Маршруты /api/auth/* ограничены
// по частоте, если передан RateLimiter.
func NewRouter(deps Deps) http.Handler {
	authHandler := handlers.NewAuthHandler(deps.Logger, deps.Auth)
	taskHandler := handlers.NewTaskHandler(deps.Logger, deps.Tasks)
	healthHandler := handlers.NewHealthHandler(deps.Logger, deps.DB, deps.Version)

	limited := func(h http.HandlerFunc) http.Handler {
		if deps.RateLimiter == nil {
			return h
		}
		return deps.RateLimiter.Middleware(h)
	}
	authn := middleware.Authenticate(deps.Logger, deps.Tokens, deps.Users)
	protected := func(h http.HandlerFunc) http.Handler {
		return authn(middleware.RequireUser(h))
	}

	mux := http.NewServeMux()

	// Публичные маршруты
	mux.Handle("POST /api/auth/register", limited(authHandler.Register))
	mux.Handle("POST /api/auth/login", limited(authHandler.Login))
	mux.HandleFunc("GET /api/health", healthHandler.Health)

	// Задачи текущего пользователя
	mux.Handle("GET /api/tasks", protected(taskHandler.List))
	mux.Handle("POST /api/tasks", protected(taskHandler.Create))
	mux.Handle("GET /api/tasks/{id}", protected(taskHandler.Get))
	mux.Handle("PUT /api/tasks/{id}", protected(taskHandler.Update))
	mux.Handle("DELETE /api/tasks/{id}", protected(taskHandler.Delete))
	mux.Handle("PATCH /api/tasks/{id}/complete", protected(taskHandler.ToggleCompletion))

	var handler http.Handler = mux
	handler = middleware.Recovery(deps.Logger)(handler)
	handler = middleware.Logging(deps.Logger, "/api/health")(handler)

	return handler
}

// Server HTTP сервер с graceful shutdown
type Server struct {
	httpServer      *http.Server
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// New создает сервер на адресе addr
func New(logger *slog.Logger, addr string, handler http.Handler, shutdownTimeout time.Duration) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}
}

// Run слушает addr до отмены ctx, затем корректно завершает соединения
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve обслуживает ln до отмены ctx
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server started", slog.String("addr", ln.Addr().String()))
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server", slog.Duration("timeout", s.shutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
