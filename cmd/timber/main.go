package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/timbertrack/timber/internal/cli"
	"github.com/timbertrack/timber/internal/config"
	"github.com/timbertrack/timber/internal/db"
	"github.com/timbertrack/timber/internal/domain"
	"github.com/timbertrack/timber/internal/logging"
	"github.com/timbertrack/timber/internal/repository"
	"github.com/timbertrack/timber/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.WithRunID(logging.NewLogger(os.Stderr, logging.LoggerConfig{
		Format: cfg.Log.Format,
		Level:  logging.ParseLevel(cfg.Log.Level),
	}))

	// A failed migration leaves the store unusable; stop here.
	database, err := db.OpenDB(cfg.DatabasePath)
	if err != nil {
		logger.Error("opening database", "path", cfg.DatabasePath, "error", err)
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	clientRepo := repository.NewSQLiteClientRepo(database)
	sessionRepo := repository.NewSQLiteSessionRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewLogUseCaseObserver(logger)
	clock := domain.RealClock{}

	app := &cli.App{
		Clients:  service.NewClientService(clientRepo, uow, observer),
		Sessions: service.NewSessionService(sessionRepo, clientRepo, uow, clock, observer),
		Summary:  service.NewSummaryService(sessionRepo, clientRepo, clock, observer),
		Clock:    clock,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return cli.Execute(ctx, app, os.Args[1:])
}
