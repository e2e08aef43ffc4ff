package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"movieflix/movie"

	"github.com/spf13/afero"
)

// PosterStore keeps posters as plain files, one directory per poster dir.
type PosterStore struct {
	fs afero.Fs
}

// NewPosterStore wraps fs. Use afero.NewOsFs() for the real filesystem.
func NewPosterStore(fs afero.Fs) *PosterStore {
	return &PosterStore{fs: fs}
}

func (s *PosterStore) Exists(_ context.Context, dir, name string) (bool, error) {
	if err := movie.CheckFileName(name); err != nil {
		return false, err
	}
	ok, err := afero.Exists(s.fs, filepath.Join(dir, name))
	if err != nil {
		return false, fmt.Errorf("disk: stat poster: %w", err)
	}
	return ok, nil
}

// Put writes f under dir using its original name and returns that name.
func (s *PosterStore) Put(_ context.Context, dir string, f movie.File) (string, error) {
	if err := movie.CheckFileName(f.Name); err != nil {
		return "", err
	}
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("disk: create poster dir: %w", err)
	}

	path := filepath.Join(dir, f.Name)
	out, err := s.fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("disk: create poster: %w", err)
	}

	_, err = io.Copy(out, f.Content)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// a partial file would make the name look taken
		_ = s.fs.Remove(path)
		return "", fmt.Errorf("disk: write poster: %w", err)
	}
	return f.Name, nil
}

func (s *PosterStore) Delete(_ context.Context, dir, name string) error {
	if err := movie.CheckFileName(name); err != nil {
		return err
	}
	err := s.fs.Remove(filepath.Join(dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("disk: delete poster: %w", err)
	}
	return nil
}

func (s *PosterStore) Open(_ context.Context, dir, name string) (io.ReadCloser, error) {
	if err := movie.CheckFileName(name); err != nil {
		return nil, err
	}
	f, err := s.fs.Open(filepath.Join(dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, movie.ErrPosterNotFound
		}
		return nil, fmt.Errorf("disk: open poster: %w", err)
	}
	return f, nil
}
