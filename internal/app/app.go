// Package app wires configuration, storage, services, and the HTTP server
// into a runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/meeplelog/meeplelog-backend/internal/adapter/postgres"
	gamerepo "github.com/meeplelog/meeplelog-backend/internal/adapter/postgres/game"
	metadatarepo "github.com/meeplelog/meeplelog-backend/internal/adapter/postgres/metadata"
	"github.com/meeplelog/meeplelog-backend/internal/adapter/provider/bgg"
	"github.com/meeplelog/meeplelog-backend/internal/config"
	gamesvc "github.com/meeplelog/meeplelog-backend/internal/service/game"
	"github.com/meeplelog/meeplelog-backend/internal/transport/middleware"
	"github.com/meeplelog/meeplelog-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to the
// database, builds the service graph, and serves HTTP until the context is
// canceled. Shutdown is graceful within the configured timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	games := gamerepo.New(pool, txm)
	metadata := metadatarepo.New(pool)
	source := bgg.NewProviderWithURL(cfg.BGG.BaseURL, logger)

	svc := gamesvc.NewService(logger, games, metadata, source)

	router := rest.NewRouter(
		rest.NewGameHandler(svc, logger),
		rest.NewHealthHandler(pool, Version),
	)

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      chain(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
