// Package server owns the application lifecycle: the Telegram poller, the
// ops HTTP server, and graceful shutdown of both.
package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	domainrepo "TrenchScan/internal/domain/repository"
	tgtransport "TrenchScan/internal/transport/telegram"
	"TrenchScan/pkg/config"
	xhttp "TrenchScan/pkg/http"
	applogger "TrenchScan/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	poller      *tgtransport.Poller
	httpHandler xhttp.Handler
	httpServer  *xhttp.Server
	publisher   domainrepo.Publisher
	logger      *applogger.Logger
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	poller *tgtransport.Poller,
	httpHandler xhttp.Handler,
	publisher domainrepo.Publisher,
	logger *applogger.Logger,
) *App {
	return &App{
		cfg:         cfg,
		poller:      poller,
		httpHandler: httpHandler,
		publisher:   publisher,
		logger:      logger,
	}
}

// Run starts the application and blocks until interrupted or until the
// poller dies.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	pollerDone := make(chan error, 1)
	go func() {
		pollerDone <- a.poller.Run(ctx)
	}()
	a.logger.Info("bot started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("http_port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	var pollerErr error
	select {
	case sig := <-sigCh:
		a.logger.Info("shutdown signal received", applogger.String("signal", sig.String()))
	case pollerErr = <-pollerDone:
		if pollerErr != nil && !errors.Is(pollerErr, context.Canceled) {
			a.logger.Error("poller stopped", applogger.Error(pollerErr))
		}
	}

	cancel()
	if err := a.shutdown(); err != nil {
		return err
	}
	if pollerErr != nil && !errors.Is(pollerErr, context.Canceled) {
		return pollerErr
	}
	return nil
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}

	a.logger.RemoveCollector()

	a.logger.Info("shutdown complete")
	return nil
}
