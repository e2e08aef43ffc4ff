package minio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"movieflix/movie"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// PosterStore keeps posters as objects keyed "<dir>/<name>" in one bucket.
type PosterStore struct {
	client *miniogo.Client
	bucket string
}

// NewPosterStore connects to MinIO and ensures the bucket exists.
func NewPosterStore(ctx context.Context, opts Options) (*PosterStore, error) {
	client, err := miniogo.New(opts.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: init client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio: check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, miniogo.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio: create bucket: %w", err)
		}
	}

	return &PosterStore{client: client, bucket: opts.Bucket}, nil
}

func objectKey(dir, name string) string {
	return path.Join(dir, name)
}

func (s *PosterStore) Exists(ctx context.Context, dir, name string) (bool, error) {
	if err := movie.CheckFileName(name); err != nil {
		return false, err
	}
	_, err := s.client.StatObject(ctx, s.bucket, objectKey(dir, name), miniogo.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("minio: stat poster: %w", err)
	}
	return true, nil
}

// Put uploads f keeping its original name. An unknown size streams the
// upload in parts.
func (s *PosterStore) Put(ctx context.Context, dir string, f movie.File) (string, error) {
	if err := movie.CheckFileName(f.Name); err != nil {
		return "", err
	}
	size := f.Size
	if size <= 0 {
		size = -1
	}
	_, err := s.client.PutObject(ctx, s.bucket, objectKey(dir, f.Name), f.Content, size, miniogo.PutObjectOptions{
		ContentType: f.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("minio: put poster: %w", err)
	}
	return f.Name, nil
}

// Delete removes the object. Removing a missing key is not an error in S3.
func (s *PosterStore) Delete(ctx context.Context, dir, name string) error {
	if err := movie.CheckFileName(name); err != nil {
		return err
	}
	err := s.client.RemoveObject(ctx, s.bucket, objectKey(dir, name), miniogo.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("minio: delete poster: %w", err)
	}
	return nil
}

func (s *PosterStore) Open(ctx context.Context, dir, name string) (io.ReadCloser, error) {
	if err := movie.CheckFileName(name); err != nil {
		return nil, err
	}
	key := objectKey(dir, name)
	if _, err := s.client.StatObject(ctx, s.bucket, key, miniogo.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return nil, movie.ErrPosterNotFound
		}
		return nil, fmt.Errorf("minio: stat poster: %w", err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio: get poster: %w", err)
	}
	return obj, nil
}

func isNotFound(err error) bool {
	resp := miniogo.ToErrorResponse(err)
	return resp.StatusCode == http.StatusNotFound || resp.Code == "NoSuchKey"
}
