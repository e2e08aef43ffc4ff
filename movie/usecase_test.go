// nolint: funlen
package movie_test

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"testing"

	"movieflix/errs"
	"movieflix/movie"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	posterDir = "posters"
	baseURL   = "http://localhost:8080"
)

type MockMovieRepository struct {
	mock.Mock
}

func (m *MockMovieRepository) Save(ctx context.Context, r movie.Record) (movie.Record, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(movie.Record), args.Error(1)
}

func (m *MockMovieRepository) FindByID(ctx context.Context, id int64) (movie.Record, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(movie.Record), args.Error(1)
}

func (m *MockMovieRepository) FindAll(ctx context.Context) ([]movie.Record, error) {
	args := m.Called(ctx)
	return args.Get(0).([]movie.Record), args.Error(1)
}

func (m *MockMovieRepository) FindPage(ctx context.Context, q movie.PageQuery) (movie.RecordPage, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(movie.RecordPage), args.Error(1)
}

func (m *MockMovieRepository) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Exists(ctx context.Context, dir, name string) (bool, error) {
	args := m.Called(ctx, dir, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockFileStore) Put(ctx context.Context, dir string, f movie.File) (string, error) {
	args := m.Called(ctx, dir, f)
	return args.String(0), args.Error(1)
}

func (m *MockFileStore) Delete(ctx context.Context, dir, name string) error {
	args := m.Called(ctx, dir, name)
	return args.Error(0)
}

func newUsecase() (*movie.Usecase, *MockMovieRepository, *MockFileStore) {
	r := new(MockMovieRepository)
	fs := new(MockFileStore)
	uc := movie.NewUsecase(r, fs, movie.Options{PosterDir: posterDir, BaseURL: baseURL})
	return uc, r, fs
}

func inception() movie.Input {
	return movie.Input{
		Title:       "Inception",
		Director:    "Christopher Nolan",
		Studio:      "Warner Bros.",
		Cast:        []string{"Leonardo DiCaprio", "Elliot Page"},
		ReleaseYear: 2010,
	}
}

func posterFile(name string) movie.File {
	return movie.File{Name: name, Size: 5, ContentType: "image/png", Content: strings.NewReader("bytes")}
}

func TestAddMovie(t *testing.T) {
	t.Run("should store poster then save record", func(t *testing.T) {
		uc, r, fs := newUsecase()
		in := inception()
		f := posterFile("inception.png")
		unsaved := movie.ToRecord(in, "inception.png")
		saved := unsaved
		saved.ID = 7

		fs.On("Exists", mock.Anything, posterDir, "inception.png").Return(false, nil).Once()
		fs.On("Put", mock.Anything, posterDir, f).Return("inception.png", nil).Once()
		r.On("Save", mock.Anything, unsaved).Return(saved, nil).Once()

		got, err := uc.AddMovie(context.Background(), in, f)

		require.NoError(t, err)
		assert.Equal(t, int64(7), got.ID)
		assert.Equal(t, in.Title, got.Title)
		assert.Equal(t, in.Director, got.Director)
		assert.Equal(t, in.Studio, got.Studio)
		assert.Equal(t, in.Cast, got.Cast)
		assert.Equal(t, in.ReleaseYear, got.ReleaseYear)
		assert.Equal(t, baseURL+"/file/inception.png", got.PosterURL)
		fs.AssertExpectations(t)
		r.AssertExpectations(t)
	})

	t.Run("should fail on duplicate file without writing", func(t *testing.T) {
		uc, r, fs := newUsecase()
		fs.On("Exists", mock.Anything, posterDir, "taken.png").Return(true, nil).Once()

		_, err := uc.AddMovie(context.Background(), inception(), posterFile("taken.png"))

		assert.Equal(t, movie.ErrFileExists, err)
		assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(err))
		fs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
		r.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("should pass exists failure through", func(t *testing.T) {
		uc, r, fs := newUsecase()
		storeErr := errors.New("stat: permission denied")
		fs.On("Exists", mock.Anything, posterDir, "a.png").Return(false, storeErr).Once()

		_, err := uc.AddMovie(context.Background(), inception(), posterFile("a.png"))

		assert.ErrorIs(t, err, storeErr)
		r.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("should not save when upload fails", func(t *testing.T) {
		uc, r, fs := newUsecase()
		f := posterFile("a.png")
		storeErr := errors.New("disk full")
		fs.On("Exists", mock.Anything, posterDir, "a.png").Return(false, nil).Once()
		fs.On("Put", mock.Anything, posterDir, f).Return("", storeErr).Once()

		_, err := uc.AddMovie(context.Background(), inception(), f)

		assert.ErrorIs(t, err, storeErr)
		r.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("should leave poster in place when save fails", func(t *testing.T) {
		uc, r, fs := newUsecase()
		f := posterFile("a.png")
		dbErr := errors.New("connection refused")
		fs.On("Exists", mock.Anything, posterDir, "a.png").Return(false, nil).Once()
		fs.On("Put", mock.Anything, posterDir, f).Return("a.png", nil).Once()
		r.On("Save", mock.Anything, mock.Anything).Return(movie.Record{}, dbErr).Once()

		_, err := uc.AddMovie(context.Background(), inception(), f)

		assert.ErrorIs(t, err, dbErr)
		assert.Equal(t, errs.EINTERNAL, errs.ErrorCode(err))
		fs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetMovie(t *testing.T) {
	t.Run("should return movie view", func(t *testing.T) {
		uc, r, _ := newUsecase()
		rec := movie.ToRecord(inception(), "inception.png")
		rec.ID = 3
		r.On("FindByID", mock.Anything, int64(3)).Return(rec, nil).Once()

		got, err := uc.GetMovie(context.Background(), 3)

		require.NoError(t, err)
		assert.Equal(t, movie.ToView(rec, baseURL), got)
	})

	t.Run("should fail when movie is missing", func(t *testing.T) {
		uc, r, _ := newUsecase()
		r.On("FindByID", mock.Anything, int64(99)).Return(movie.Record{}, movie.ErrMovieNotFound).Once()

		_, err := uc.GetMovie(context.Background(), 99)

		assert.Equal(t, movie.ErrMovieNotFound, err)
	})
}

func TestListMovies(t *testing.T) {
	t.Run("should keep store order", func(t *testing.T) {
		uc, r, _ := newUsecase()
		records := []movie.Record{
			{ID: 2, Title: "B", Poster: "b.png"},
			{ID: 1, Title: "A", Poster: "a.png"},
		}
		r.On("FindAll", mock.Anything).Return(records, nil).Once()

		got, err := uc.ListMovies(context.Background())

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, int64(2), got[0].ID)
		assert.Equal(t, baseURL+"/file/a.png", got[1].PosterURL)
	})

	t.Run("should return empty list", func(t *testing.T) {
		uc, r, _ := newUsecase()
		r.On("FindAll", mock.Anything).Return([]movie.Record{}, nil).Once()

		got, err := uc.ListMovies(context.Background())

		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestUpdateMovie(t *testing.T) {
	existing := movie.Record{ID: 5, Title: "Old", Director: "D", Studio: "S", ReleaseYear: 1999, Poster: "old.png"}

	t.Run("should keep poster without a new file", func(t *testing.T) {
		uc, r, fs := newUsecase()
		in := inception()
		want := movie.ToRecord(in, "old.png")
		want.ID = 5
		r.On("FindByID", mock.Anything, int64(5)).Return(existing, nil).Once()
		r.On("Save", mock.Anything, want).Return(want, nil).Once()

		got, err := uc.UpdateMovie(context.Background(), 5, in, nil)

		require.NoError(t, err)
		assert.Equal(t, baseURL+"/file/old.png", got.PosterURL)
		assert.Equal(t, in.Title, got.Title)
		fs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
		fs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should replace poster with a new file", func(t *testing.T) {
		uc, r, fs := newUsecase()
		in := inception()
		f := posterFile("new.png")
		want := movie.ToRecord(in, "new.png")
		want.ID = 5
		r.On("FindByID", mock.Anything, int64(5)).Return(existing, nil).Once()
		fs.On("Delete", mock.Anything, posterDir, "old.png").Return(nil).Once()
		fs.On("Put", mock.Anything, posterDir, f).Return("new.png", nil).Once()
		r.On("Save", mock.Anything, want).Return(want, nil).Once()

		got, err := uc.UpdateMovie(context.Background(), 5, in, &f)

		require.NoError(t, err)
		assert.Equal(t, int64(5), got.ID)
		assert.Equal(t, baseURL+"/file/new.png", got.PosterURL)
		fs.AssertExpectations(t)
		r.AssertExpectations(t)
	})

	t.Run("should fail when movie is missing", func(t *testing.T) {
		uc, r, fs := newUsecase()
		f := posterFile("new.png")
		r.On("FindByID", mock.Anything, int64(8)).Return(movie.Record{}, movie.ErrMovieNotFound).Once()

		_, err := uc.UpdateMovie(context.Background(), 8, inception(), &f)

		assert.Equal(t, movie.ErrMovieNotFound, err)
		fs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
		r.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("should stop when old poster cannot be removed", func(t *testing.T) {
		uc, r, fs := newUsecase()
		f := posterFile("new.png")
		storeErr := errors.New("read-only file system")
		r.On("FindByID", mock.Anything, int64(5)).Return(existing, nil).Once()
		fs.On("Delete", mock.Anything, posterDir, "old.png").Return(storeErr).Once()

		_, err := uc.UpdateMovie(context.Background(), 5, inception(), &f)

		assert.ErrorIs(t, err, storeErr)
		fs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
		r.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestDeleteMovie(t *testing.T) {
	t.Run("should delete poster then record", func(t *testing.T) {
		uc, r, fs := newUsecase()
		rec := movie.Record{ID: 4, Poster: "p.png"}
		r.On("FindByID", mock.Anything, int64(4)).Return(rec, nil).Once()
		fs.On("Delete", mock.Anything, posterDir, "p.png").Return(nil).Once()
		r.On("DeleteByID", mock.Anything, int64(4)).Return(nil).Once()

		msg, err := uc.DeleteMovie(context.Background(), 4)

		require.NoError(t, err)
		assert.Equal(t, movie.DeletedMessage, msg)
		fs.AssertExpectations(t)
		r.AssertExpectations(t)
	})

	t.Run("should fail the second time", func(t *testing.T) {
		uc, r, fs := newUsecase()
		rec := movie.Record{ID: 4, Poster: "p.png"}
		r.On("FindByID", mock.Anything, int64(4)).Return(rec, nil).Once()
		fs.On("Delete", mock.Anything, posterDir, "p.png").Return(nil).Once()
		r.On("DeleteByID", mock.Anything, int64(4)).Return(nil).Once()
		r.On("FindByID", mock.Anything, int64(4)).Return(movie.Record{}, movie.ErrMovieNotFound).Once()

		_, err := uc.DeleteMovie(context.Background(), 4)
		require.NoError(t, err)
		_, err = uc.DeleteMovie(context.Background(), 4)

		assert.Equal(t, movie.ErrMovieNotFound, err)
		r.AssertNumberOfCalls(t, "DeleteByID", 1)
	})

	t.Run("should report record failure after poster removal", func(t *testing.T) {
		uc, r, fs := newUsecase()
		dbErr := errors.New("deadlock detected")
		r.On("FindByID", mock.Anything, int64(4)).Return(movie.Record{ID: 4, Poster: "p.png"}, nil).Once()
		fs.On("Delete", mock.Anything, posterDir, "p.png").Return(nil).Once()
		r.On("DeleteByID", mock.Anything, int64(4)).Return(dbErr).Once()

		_, err := uc.DeleteMovie(context.Background(), 4)

		assert.ErrorIs(t, err, dbErr)
		fs.AssertExpectations(t)
	})
}

func TestListMoviesPaged(t *testing.T) {
	t.Run("should return empty first page", func(t *testing.T) {
		uc, r, _ := newUsecase()
		q := movie.PageQuery{Index: 0, Size: 10}
		r.On("FindPage", mock.Anything, q).Return(movie.NewRecordPage(nil, 0, q), nil).Once()

		page, err := uc.ListMoviesPaged(context.Background(), 1, 10)

		require.NoError(t, err)
		assert.Empty(t, page.Movies)
		assert.Equal(t, 1, page.PageNumber)
		assert.Equal(t, 10, page.PageSize)
		assert.Equal(t, int64(0), page.TotalElements)
		assert.Equal(t, 0, page.TotalPages)
		assert.True(t, page.IsLast)
	})

	t.Run("should convert page number to index", func(t *testing.T) {
		uc, r, _ := newUsecase()
		q := movie.PageQuery{Index: 1, Size: 2}
		records := []movie.Record{{ID: 3, Poster: "c.png"}, {ID: 4, Poster: "d.png"}}
		r.On("FindPage", mock.Anything, q).Return(movie.NewRecordPage(records, 5, q), nil).Once()

		page, err := uc.ListMoviesPaged(context.Background(), 2, 2)

		require.NoError(t, err)
		assert.Equal(t, 2, page.PageNumber)
		assert.Equal(t, int64(5), page.TotalElements)
		assert.Equal(t, 3, page.TotalPages)
		assert.False(t, page.IsLast)
		assert.Len(t, page.Movies, 2)
		assert.Equal(t, baseURL+"/file/c.png", page.Movies[0].PosterURL)
	})

	t.Run("should reject page zero", func(t *testing.T) {
		uc, r, _ := newUsecase()

		_, err := uc.ListMoviesPaged(context.Background(), 0, 10)

		assert.Equal(t, movie.ErrInvalidPage, err)
		r.AssertNotCalled(t, "FindPage", mock.Anything, mock.Anything)
	})

	t.Run("should reject the smallest int page", func(t *testing.T) {
		uc, r, _ := newUsecase()

		_, err := uc.ListMoviesPaged(context.Background(), math.MinInt, 10)

		assert.Equal(t, movie.ErrInvalidPage, err)
		r.AssertNotCalled(t, "FindPage", mock.Anything, mock.Anything)
	})

	t.Run("should reject pages whose offset overflows", func(t *testing.T) {
		tests := []struct {
			name       string
			pageNumber int
			pageSize   int
		}{
			{name: "max int page", pageNumber: math.MaxInt, pageSize: 10},
			{name: "huge page", pageNumber: 922337203685477582, pageSize: 10},
			{name: "huge size", pageNumber: 2, pageSize: math.MaxInt},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				uc, r, _ := newUsecase()

				_, err := uc.ListMoviesPaged(context.Background(), tt.pageNumber, tt.pageSize)

				assert.Equal(t, movie.ErrInvalidPage, err)
				r.AssertNotCalled(t, "FindPage", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("should accept the largest page that fits", func(t *testing.T) {
		uc, r, _ := newUsecase()
		r.On("FindPage", mock.Anything, movie.PageQuery{Index: math.MaxInt/10 - 1, Size: 10}).Return(movie.RecordPage{IsLast: true}, nil).Once()

		page, err := uc.ListMoviesPaged(context.Background(), math.MaxInt/10, 10)

		require.NoError(t, err)
		assert.Equal(t, math.MaxInt/10, page.PageNumber)
		r.AssertExpectations(t)
	})

	t.Run("should reject empty page size", func(t *testing.T) {
		uc, _, _ := newUsecase()

		_, err := uc.ListMoviesPaged(context.Background(), 1, 0)

		assert.Equal(t, movie.ErrInvalidPageSize, err)
	})
}

func TestListMoviesPagedSorted(t *testing.T) {
	records := []movie.Record{
		{ID: 1, ReleaseYear: 2010, Poster: "a.png"},
		{ID: 2, ReleaseYear: 1994, Poster: "b.png"},
		{ID: 3, ReleaseYear: 2019, Poster: "c.png"},
	}

	// sortedStore orders records by release year the way a real store would.
	sortedStore := func(q movie.PageQuery) movie.RecordPage {
		out := append([]movie.Record(nil), records...)
		sort.SliceStable(out, func(i, j int) bool {
			if q.Sort.Ascending {
				return out[i].ReleaseYear < out[j].ReleaseYear
			}
			return out[i].ReleaseYear > out[j].ReleaseYear
		})
		return movie.NewRecordPage(out, int64(len(out)), q)
	}

	tests := []struct {
		name      string
		direction string
		ascending bool
	}{
		{name: "asc sorts ascending", direction: "asc", ascending: true},
		{name: "ASC is case-insensitive", direction: "ASC", ascending: true},
		{name: "desc sorts descending", direction: "desc", ascending: false},
		{name: "typo sorts descending", direction: "ascending", ascending: false},
		{name: "empty sorts descending", direction: "", ascending: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, r, _ := newUsecase()
			q := movie.PageQuery{Index: 0, Size: 10, Sort: &movie.Sort{Field: movie.SortByReleaseYear, Ascending: tt.ascending}}
			r.On("FindPage", mock.Anything, q).Return(sortedStore(q), nil).Once()

			page, err := uc.ListMoviesPagedSorted(context.Background(), 1, 10, movie.SortByReleaseYear, tt.direction)

			require.NoError(t, err)
			require.Len(t, page.Movies, 3)
			for i := 1; i < len(page.Movies); i++ {
				prev, cur := page.Movies[i-1].ReleaseYear, page.Movies[i].ReleaseYear
				if tt.ascending {
					assert.LessOrEqual(t, prev, cur)
				} else {
					assert.GreaterOrEqual(t, prev, cur)
				}
			}
			r.AssertExpectations(t)
		})
	}

	t.Run("should reject page zero", func(t *testing.T) {
		uc, _, _ := newUsecase()

		_, err := uc.ListMoviesPagedSorted(context.Background(), 0, 10, movie.SortByTitle, "asc")

		assert.Equal(t, movie.ErrInvalidPage, err)
	})

	t.Run("should reject the smallest int page", func(t *testing.T) {
		uc, r, _ := newUsecase()

		_, err := uc.ListMoviesPagedSorted(context.Background(), math.MinInt, 10, movie.SortByTitle, "asc")

		assert.Equal(t, movie.ErrInvalidPage, err)
		r.AssertNotCalled(t, "FindPage", mock.Anything, mock.Anything)
	})

	t.Run("should pass unknown sort field error through", func(t *testing.T) {
		uc, r, _ := newUsecase()
		r.On("FindPage", mock.Anything, mock.Anything).Return(movie.RecordPage{}, movie.ErrInvalidSortField).Once()

		_, err := uc.ListMoviesPagedSorted(context.Background(), 1, 10, "budget", "asc")

		assert.Equal(t, movie.ErrInvalidSortField, err)
	})
}
