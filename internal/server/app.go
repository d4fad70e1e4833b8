// Package server wires the application together: configuration, logging,
// the database connection manager, domain services and the HTTP router.
// It owns the run loop and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ktkar/maintron/internal/logging"
	"github.com/ktkar/maintron/internal/server/accounts"
	"github.com/ktkar/maintron/internal/server/config"
	"github.com/ktkar/maintron/internal/server/db"
	"github.com/ktkar/maintron/internal/server/httpapi"
	"github.com/ktkar/maintron/internal/server/payments"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager *db.Manager
	handler http.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	manager := db.NewManager(cfg.DatabaseDSN, cfg.DBConnectMaxRetries, logger)
	if err := manager.Open(ctx); err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repo := accounts.NewPostgresRepository(manager.Conn())
	accountSvc := accounts.NewService(repo, manager, logger)
	paymentClient := payments.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayBaseURL, logger)

	handler := httpapi.NewRouter(accountSvc, paymentClient, cfg, logger)

	return &App{config: cfg, logger: logger, manager: manager, handler: handler}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handler,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		app.logger.Error(ctx, "server error", "error", err)
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(ctx, "shutdown error", "error", err)
		return err
	}

	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
		return err
	}

	app.logger.Info(ctx, "Shutdown complete")
	return nil
}
