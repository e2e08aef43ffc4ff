package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"movieflix/bootstrap"
	"movieflix/httpserver"
	"movieflix/movie"
	"movieflix/pkg/config"
	"movieflix/pkg/logger"
	"movieflix/pkg/sentry"

	_ "github.com/lib/pq"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Cannot load config", "error", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{Debug: cfg.Log.Debug, Path: cfg.Log.Path})
	if err != nil {
		slog.Error("Cannot init logger", "error", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint: errcheck

	err = sentry.Init(sentry.Options{DSN: cfg.SentryDSN, Environment: cfg.AppEnv})
	if err != nil {
		slog.Error("Cannot init sentry", "error", err)
		os.Exit(1)
	}
	defer sentry.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := bootstrap.NewRepository(ctx, cfg)
	if err != nil {
		slog.Error("Cannot open record store", "driver", cfg.DB.Driver, "error", err)
		os.Exit(1)
	}
	defer closeRepo() //nolint: errcheck

	posters, err := bootstrap.NewPosterStore(ctx, cfg)
	if err != nil {
		slog.Error("Cannot open poster store", "store", cfg.Poster.Store, "error", err)
		os.Exit(1)
	}

	movieService := movie.NewUsecase(repo, posters, movie.Options{
		PosterDir: cfg.Poster.Dir,
		BaseURL:   cfg.BaseURL,
		Logger:    log,
	})

	server, err := httpserver.New(
		httpserver.WithConfig(cfg),
		httpserver.WithLogger(log),
		httpserver.WithMovieService(movieService),
		httpserver.WithPosterReader(posters),
	)
	if err != nil {
		slog.Error("Cannot create server", "error", err)
		os.Exit(1)
	}

	go func() {
		slog.Info("server started!", "addr", server.Addr, "driver", cfg.DB.Driver, "posters", cfg.Poster.Store)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped with error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
