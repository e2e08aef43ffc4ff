package movie

import (
	"context"
	"io"
	"math"

	"movieflix/pkg/logger"

	"go.uber.org/zap"
)

type Service interface {
	AddMovie(ctx context.Context, in Input, f File) (Movie, error)
	GetMovie(ctx context.Context, id int64) (Movie, error)
	ListMovies(ctx context.Context) ([]Movie, error)
	UpdateMovie(ctx context.Context, id int64, in Input, f *File) (Movie, error)
	DeleteMovie(ctx context.Context, id int64) (string, error)
	ListMoviesPaged(ctx context.Context, pageNumber, pageSize int) (Page, error)
	ListMoviesPagedSorted(ctx context.Context, pageNumber, pageSize int, sortBy, sortDirection string) (Page, error)
}

type Repository interface {
	Save(ctx context.Context, r Record) (Record, error)
	FindByID(ctx context.Context, id int64) (Record, error)
	FindAll(ctx context.Context) ([]Record, error)
	FindPage(ctx context.Context, q PageQuery) (RecordPage, error)
	DeleteByID(ctx context.Context, id int64) error
}

// FileStore keeps poster blobs under a directory. Delete must succeed when
// the blob is already gone.
type FileStore interface {
	Exists(ctx context.Context, dir, name string) (bool, error)
	Put(ctx context.Context, dir string, f File) (string, error)
	Delete(ctx context.Context, dir, name string) error
}

// PosterReader streams stored posters back to clients.
type PosterReader interface {
	Open(ctx context.Context, dir, name string) (io.ReadCloser, error)
}

// PosterStore is a FileStore that can also serve its posters.
type PosterStore interface {
	FileStore
	PosterReader
}

type Options struct {
	// PosterDir is the directory posters are stored under.
	PosterDir string

	// BaseURL prefixes every poster URL.
	BaseURL string

	Logger *zap.SugaredLogger
}

type Usecase struct {
	r      Repository
	files  FileStore
	dir    string
	base   string
	logger *zap.SugaredLogger
}

func NewUsecase(r Repository, files FileStore, opts Options) *Usecase {
	l := opts.Logger
	if l == nil {
		l = logger.NOOPLogger
	}
	return &Usecase{
		r:      r,
		files:  files,
		dir:    opts.PosterDir,
		base:   opts.BaseURL,
		logger: l,
	}
}

func (uc *Usecase) AddMovie(ctx context.Context, in Input, f File) (Movie, error) {
	exists, err := uc.files.Exists(ctx, uc.dir, f.Name)
	if err != nil {
		return Movie{}, err
	}
	if exists {
		return Movie{}, ErrFileExists
	}

	stored, err := uc.files.Put(ctx, uc.dir, f)
	if err != nil {
		return Movie{}, err
	}

	saved, err := uc.r.Save(ctx, ToRecord(in, stored))
	if err != nil {
		uc.logger.Warnw("movie not saved, poster left orphaned", "poster", stored, "error", err)
		return Movie{}, err
	}

	return ToView(saved, uc.base), nil
}

func (uc *Usecase) GetMovie(ctx context.Context, id int64) (Movie, error) {
	r, err := uc.r.FindByID(ctx, id)
	if err != nil {
		return Movie{}, err
	}
	return ToView(r, uc.base), nil
}

func (uc *Usecase) ListMovies(ctx context.Context) ([]Movie, error) {
	records, err := uc.r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToViews(records, uc.base), nil
}

// UpdateMovie replaces every field of the movie. A nil file keeps the
// current poster.
func (uc *Usecase) UpdateMovie(ctx context.Context, id int64, in Input, f *File) (Movie, error) {
	existing, err := uc.r.FindByID(ctx, id)
	if err != nil {
		return Movie{}, err
	}

	poster := existing.Poster
	if f != nil {
		if err := uc.files.Delete(ctx, uc.dir, poster); err != nil {
			return Movie{}, err
		}
		poster, err = uc.files.Put(ctx, uc.dir, *f)
		if err != nil {
			uc.logger.Warnw("old poster removed but new poster not stored", "movie_id", id, "poster", existing.Poster, "error", err)
			return Movie{}, err
		}
	}

	r := ToRecord(in, poster)
	r.ID = existing.ID

	updated, err := uc.r.Save(ctx, r)
	if err != nil {
		if f != nil {
			uc.logger.Warnw("poster replaced but movie not saved", "movie_id", id, "poster", poster, "error", err)
		}
		return Movie{}, err
	}

	return ToView(updated, uc.base), nil
}

func (uc *Usecase) DeleteMovie(ctx context.Context, id int64) (string, error) {
	existing, err := uc.r.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	if err := uc.files.Delete(ctx, uc.dir, existing.Poster); err != nil {
		return "", err
	}

	if err := uc.r.DeleteByID(ctx, id); err != nil {
		uc.logger.Warnw("poster deleted but movie kept", "movie_id", id, "poster", existing.Poster, "error", err)
		return "", err
	}

	return DeletedMessage, nil
}

func (uc *Usecase) ListMoviesPaged(ctx context.Context, pageNumber, pageSize int) (Page, error) {
	return uc.listPage(ctx, pageNumber, pageSize, nil)
}

func (uc *Usecase) ListMoviesPagedSorted(ctx context.Context, pageNumber, pageSize int, sortBy, sortDirection string) (Page, error) {
	return uc.listPage(ctx, pageNumber, pageSize, NewSort(sortBy, sortDirection))
}

func (uc *Usecase) listPage(ctx context.Context, pageNumber, pageSize int, sort *Sort) (Page, error) {
	if pageNumber < 1 {
		return Page{}, ErrInvalidPage
	}
	if pageSize < 1 {
		return Page{}, ErrInvalidPageSize
	}
	// the end offset of the page, pageNumber*pageSize, must fit in an int
	if pageNumber > math.MaxInt/pageSize {
		return Page{}, ErrInvalidPage
	}
	index := pageNumber - 1

	rp, err := uc.r.FindPage(ctx, PageQuery{Index: index, Size: pageSize, Sort: sort})
	if err != nil {
		return Page{}, err
	}

	return Page{
		Movies:        ToViews(rp.Records, uc.base),
		PageNumber:    index + 1,
		PageSize:      pageSize,
		TotalElements: rp.TotalElements,
		TotalPages:    rp.TotalPages,
		IsLast:        rp.IsLast,
	}, nil
}
