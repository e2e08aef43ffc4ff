package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strconv"
	"strings"

	"movieflix/errs"
	"movieflix/movie"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var seedColumns = []string{"title", "director", "studio", "cast", "releaseYear", "poster"}

type seedResult struct {
	Added   int
	Skipped int
}

// seeder adds every csv row through the catalog service. Rows the service
// rejects as invalid or duplicate are skipped; any other failure stops the run.
type seeder struct {
	svc    movie.Service
	fs     afero.Fs
	logger *zap.SugaredLogger
	limit  int
}

func (s seeder) run(ctx context.Context, r io.Reader) (seedResult, error) {
	var res seedResult

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	idx, err := parseSeedHeader(reader)
	if err != nil {
		return res, err
	}

	line := 1
	for s.limit <= 0 || res.Added < s.limit {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return res, fmt.Errorf("line %d: %w", line, err)
		}

		in, poster, err := parseSeedRecord(record, idx)
		if err != nil {
			s.logger.Warnw("row skipped", "line", line, "error", err)
			res.Skipped++
			continue
		}

		m, err := s.add(ctx, in, poster)
		switch code := errs.ErrorCode(err); {
		case err == nil:
			s.logger.Infow("movie added", "line", line, "movie_id", m.ID, "title", m.Title)
			res.Added++
		case code == errs.ECONFLICT || code == errs.EINVALID:
			s.logger.Warnw("row skipped", "line", line, "poster", poster, "error", errs.ErrorMessage(err))
			res.Skipped++
		default:
			return res, fmt.Errorf("line %d: %w", line, err)
		}
	}

	return res, nil
}

func (s seeder) add(ctx context.Context, in movie.Input, poster string) (movie.Movie, error) {
	f, err := s.fs.Open(poster)
	if err != nil {
		return movie.Movie{}, errs.Errorf(errs.EINVALID, "cannot open poster %s", poster)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return movie.Movie{}, err
	}
	if info.Size() == 0 {
		return movie.Movie{}, movie.ErrEmptyFile
	}

	return s.svc.AddMovie(ctx, in, movie.File{
		Name:        filepath.Base(poster),
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(poster)),
		Content:     f,
	})
}

func parseSeedHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range seedColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q in csv header", col)
		}
	}
	return idx, nil
}

func parseSeedRecord(record []string, idx map[string]int) (movie.Input, string, error) {
	get := func(col string) string {
		i := idx[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	year, err := strconv.Atoi(get("releaseYear"))
	if err != nil {
		return movie.Input{}, "", fmt.Errorf("releaseYear %q is not a number", get("releaseYear"))
	}

	in := movie.Input{
		Title:       get("title"),
		Director:    get("director"),
		Studio:      get("studio"),
		ReleaseYear: year,
	}
	if in.Title == "" || in.Director == "" || in.Studio == "" {
		return movie.Input{}, "", errors.New("missing title/director/studio")
	}
	for _, member := range strings.Split(get("cast"), "|") {
		if member = strings.TrimSpace(member); member != "" {
			in.Cast = append(in.Cast, member)
		}
	}

	poster := get("poster")
	if poster == "" {
		return movie.Input{}, "", errors.New("poster is required")
	}
	return in, poster, nil
}
