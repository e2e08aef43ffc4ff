// Package bootstrap builds the record and poster stores selected by config.
package bootstrap

import (
	"context"
	"fmt"
	"strconv"

	"movieflix/disk"
	"movieflix/dynamodb"
	"movieflix/minio"
	"movieflix/movie"
	"movieflix/pkg/config"
	"movieflix/postgres"

	"github.com/spf13/afero"
)

const (
	DriverPostgres = "postgres"
	DriverDynamoDB = "dynamodb"

	StoreDisk  = "disk"
	StoreMinio = "minio"
)

// NewRepository opens the record store named by DB_DRIVER. The returned
// func releases its connections.
func NewRepository(ctx context.Context, cfg *config.Config) (movie.Repository, func() error, error) {
	switch cfg.DB.Driver {
	case "", DriverPostgres:
		db, err := postgres.NewConnection(postgres.Options{
			DBName:       cfg.DB.Name,
			DBUser:       cfg.DB.User,
			Password:     cfg.DB.Pass,
			Host:         cfg.DB.Host,
			Port:         strconv.Itoa(cfg.DB.Port),
			SSLMode:      cfg.DB.EnableSSL,
			MaxOpenConns: 10,
			Debug:        cfg.Log.Debug,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		return postgres.NewMovieRepository(db), sqlDB.Close, nil

	case DriverDynamoDB:
		client, err := dynamodb.NewClient(ctx, dynamodb.Options{
			Region:       cfg.DynamoDB.Region,
			Endpoint:     cfg.DynamoDB.Endpoint,
			AccessKey:    cfg.DynamoDB.AccessKey,
			SecretKey:    cfg.DynamoDB.SecretKey,
			SessionToken: cfg.DynamoDB.SessionToken,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := dynamodb.EnsureTable(ctx, client, cfg.DynamoDB.MoviesTable); err != nil {
			return nil, nil, err
		}
		return dynamodb.NewMovieRepository(client, cfg.DynamoDB.MoviesTable), func() error { return nil }, nil
	}

	return nil, nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DB.Driver)
}

// NewPosterStore returns the poster store named by POSTER_STORE.
func NewPosterStore(ctx context.Context, cfg *config.Config) (movie.PosterStore, error) {
	switch cfg.Poster.Store {
	case "", StoreDisk:
		return disk.NewPosterStore(afero.NewOsFs()), nil

	case StoreMinio:
		return minio.NewPosterStore(ctx, minio.Options{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		})
	}

	return nil, fmt.Errorf("unknown POSTER_STORE %q", cfg.Poster.Store)
}
