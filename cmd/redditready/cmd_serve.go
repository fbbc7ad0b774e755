package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/AmolDerickSoans/RedditReady/internal/adapters/http"
	"github.com/AmolDerickSoans/RedditReady/internal/app/records"
	"github.com/AmolDerickSoans/RedditReady/internal/app/research"
	"github.com/AmolDerickSoans/RedditReady/internal/observability"
)

const shutdownGrace = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and run sessions concurrently",
	RunE:  serve,
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	// Sessions outlive single requests, so the pool gets its own root.
	pool := research.NewPool(context.Background(), a.orchestrator, cfg.Research.MaxConcurrentSessions)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           httpadapter.NewServer(pool, records.NewService(a.store)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		observability.WithFields("addr", srv.Addr).Info("RedditReady API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	observability.Logger().Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		observability.Logger().Warn("http shutdown", "error", err)
	}
	return pool.Shutdown(shutdownCtx)
}
