package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"movieflix/bootstrap"
	"movieflix/movie"
	"movieflix/pkg/config"
	"movieflix/pkg/logger"

	_ "github.com/lib/pq"
	"github.com/spf13/afero"
)

func main() {
	var (
		csvPath string
		dir     string
		limit   int
	)

	flag.StringVar(&csvPath, "csv", "", "Path to the catalog csv")
	flag.StringVar(&dir, "dir", ".", "Directory poster paths in the csv are relative to")
	flag.IntVar(&limit, "limit", 0, "Limit number of rows to import (0 = all)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if csvPath == "" {
		slog.Error("-csv is required")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{Debug: cfg.Log.Debug, Path: cfg.Log.Path})
	if err != nil {
		slog.Error("init logger failed", "error", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint: errcheck

	ctx := context.Background()
	repo, closeRepo, err := bootstrap.NewRepository(ctx, cfg)
	if err != nil {
		slog.Error("cannot open record store", "error", err)
		os.Exit(1)
	}
	defer closeRepo() //nolint: errcheck

	posters, err := bootstrap.NewPosterStore(ctx, cfg)
	if err != nil {
		slog.Error("cannot open poster store", "error", err)
		os.Exit(1)
	}

	svc := movie.NewUsecase(repo, posters, movie.Options{
		PosterDir: cfg.Poster.Dir,
		BaseURL:   cfg.BaseURL,
		Logger:    log,
	})

	s := seeder{svc: svc, fs: afero.NewBasePathFs(afero.NewOsFs(), dir), logger: log, limit: limit}
	file, err := os.Open(csvPath)
	if err != nil {
		slog.Error("cannot open csv", "error", err)
		os.Exit(1)
	}
	defer file.Close()

	res, err := s.run(ctx, file)
	if err != nil {
		slog.Error("import failed", "error", err, "added", res.Added)
		os.Exit(1)
	}

	slog.Info("import completed", "added", res.Added, "skipped", res.Skipped)
}
