package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/spf13/cobra"

	"github.com/datallboy/toolfetch/internal/api"
	"github.com/datallboy/toolfetch/internal/engine"
	"github.com/datallboy/toolfetch/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API used by the browsing front end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	appCtx, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer appCtx.Logger.Close()
	log := appCtx.Logger

	warnings, err := appCtx.Helpers.ValidateDependencies()
	for _, w := range warnings {
		log.Warn("%s", w)
	}
	if err != nil {
		// Downloads will fail with DownloadLaunchFailed until this is fixed
		log.Error("Helper check failed: %v", err)
	}

	db, err := store.NewPersistentStore(appCtx.Config.Store.Driver, appCtx.Config.Store.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	board := engine.NewStatusBoard()
	orch := engine.NewOrchestrator(appCtx, engine.Sinks{
		engine.LogSink{Logger: log.Named("events")},
		board,
		store.NewRecorder(db, log),
	})

	appCtx.Downloads = orch
	appCtx.Status = board
	appCtx.Events = db

	e := echo.New()
	api.RegisterRoutes(e, appCtx)

	srv := &http.Server{
		Addr:              ":" + appCtx.Config.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Cancelled when the user hits Ctrl+C
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down...")
	case serveErr = <-errCh:
		log.Error("Server stopped: %v", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown: %v", err)
	}
	if err := orch.Shutdown(shutdownCtx); err != nil {
		log.Warn("Orchestrator shutdown: %v", err)
	}

	return serveErr
}
