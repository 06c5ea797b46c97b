package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/taskapi/internal/server"
	"github.com/iudanet/taskapi/internal/server/auth"
	"github.com/iudanet/taskapi/internal/server/config"
	"github.com/iudanet/taskapi/internal/server/middleware"
	"github.com/iudanet/taskapi/internal/server/storage/sqlite"
	"github.com/iudanet/taskapi/internal/server/tasks"
	"github.com/iudanet/taskapi/internal/server/token"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Parse flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Хранилище
	store, err := sqlite.New(ctx, cfg.DBPath, sqlite.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	// Токены: слабый секрет останавливает запуск
	codec, err := token.NewCodec([]byte(cfg.JWTSecret), cfg.TokenLifetime())
	if err != nil {
		return fmt.Errorf("failed to create token codec: %w", err)
	}

	authService, err := auth.NewService(logger, store, codec, auth.WithBcryptCost(cfg.BcryptCost))
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow, logger)
	defer limiter.Stop()

	router := server.NewRouter(server.Deps{
		Logger:      logger,
		Auth:        authService,
		Tasks:       tasks.NewService(logger, store),
		DB:          store,
		Tokens:      codec,
		Users:       store,
		RateLimiter: limiter,
		Version:     Version,
	})

	logger.Info("TaskAPI server starting",
		slog.String("version", Version),
		slog.String("addr", cfg.Addr),
		slog.String("db_path", cfg.DBPath),
		slog.Duration("token_lifetime", codec.Lifetime()),
	)

	return server.New(logger, cfg.Addr, router, cfg.ShutdownTimeout).Run(ctx)
}

func printVersion() {
	fmt.Printf("TaskAPI Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
