// Package server initializes and runs the application: it selects the storage
// backend, wires the services and external clients, and starts the HTTP
// server with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"codexplain/internal/logging"
	"codexplain/internal/server/config"
	"codexplain/internal/server/generation"
	"codexplain/internal/server/httpapi"
	"codexplain/internal/server/ocr"
	"codexplain/internal/server/services"
	"codexplain/internal/server/storage"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  *storage.Repositories
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	if cfg.DefaultSecretInUse() {
		logger.Warn(ctx, "Using the built-in signing secret; set SECRET_KEY in any real deployment")
	}

	var repos *storage.Repositories
	var err error
	if cfg.DatabaseDSN != "" {
		repos, err = storage.NewPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
	} else {
		repos = storage.NewFile(cfg.UsersFile, cfg.HistoryFile, logger)
	}

	us := services.NewUserService(repos.Users, cfg)
	hs := services.NewHistoryService(repos.History, cfg)

	generator := generation.NewClient(cfg.GenerationAPIURL, cfg.GenerationAPIKey, cfg.GenerationModel, cfg.ProxySecret)
	gs := services.NewGenerationService(generator, hs, cfg, logger)

	extractor := ocr.NewClient(cfg.OCRAPIURL, cfg.OCRAPIKey)

	srv := httpapi.NewServer(cfg, logger, us, hs, gs, extractor)

	return &App{config: cfg, logger: logger, repos: repos, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
