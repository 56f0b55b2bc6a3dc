package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/rates"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/transit"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/trip"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/infra/config"
)

// App encapsulates the HTTP server lifecycle plus the background workers
// that keep transit suggestions and the exchange rate fresh.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	server    *http.Server
	trips     *trip.Service
	scheduler *transit.Scheduler
	rates     *rates.Service
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, trips *trip.Service, scheduler *transit.Scheduler, ratesSvc *rates.Service) *App {
	return &App{
		cfg:       cfg,
		logger:    logger.With("component", "bootstrap"),
		server:    server,
		trips:     trips,
		scheduler: scheduler,
		rates:     ratesSvc,
	}
}

// Run starts the background workers and the HTTP server, blocking until
// shutdown.
func (a *App) Run(ctx context.Context) error {
	refreshCtx, cancelRefresh := context.WithTimeout(ctx, 15*time.Second)
	a.rates.Refresh(refreshCtx)
	cancelRefresh()

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	go a.scheduler.Run(workerCtx)

	// Schedule edits feed the transit worker from here on.
	a.trips.SetScheduleObserver(a.scheduler.Sync)
	for _, day := range a.trips.Days() {
		a.scheduler.Sync(day)
	}

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
