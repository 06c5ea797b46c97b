package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/iudanet/taskapi/internal/client/api"
	"github.com/iudanet/taskapi/internal/client/cli"
	"github.com/iudanet/taskapi/internal/client/iocli"
	"github.com/iudanet/taskapi/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	defaultServer := "http://localhost:8080"
	if env := os.Getenv("TASKAPI_SERVER"); env != "" {
		defaultServer = env
	}

	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", defaultServer, "Server URL")
	sessionPath := flag.String("session", "taskapi-client.db", "Path to local session database")
	flag.Usage = func() {
		cli.PrintUsage(os.Stderr)
	}

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage(os.Stderr)
		os.Exit(1)
	}

	if err := run(*serverURL, *sessionPath, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(serverURL, sessionPath, command string, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sessions, err := boltdb.New(ctx, sessionPath)
	if err != nil {
		return fmt.Errorf("failed to open session database: %w", err)
	}
	defer func() {
		_ = sessions.Close()
	}()

	c := cli.New(iocli.NewStdio(), api.NewClient(serverURL), sessions, serverURL)
	return c.Run(ctx, command, args)
}

func printVersion() {
	fmt.Printf("TaskAPI Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
