package movie

import (
	"io"
	"strings"

	"movieflix/errs"
)

var (
	ErrMovieNotFound    = errs.Errorf(errs.ENOTFOUND, "movie not found")
	ErrFileExists       = errs.Errorf(errs.ECONFLICT, "file already exists, please enter another file name")
	ErrInvalidPage      = errs.Errorf(errs.EINVALID, "page number must be at least 1")
	ErrInvalidPageSize  = errs.Errorf(errs.EINVALID, "page size must be at least 1")
	ErrInvalidSortField = errs.Errorf(errs.EINVALID, "invalid sort field")
	ErrEmptyFile        = errs.Errorf(errs.EINVALID, "file is empty, please send another file")
	ErrPosterNotFound   = errs.Errorf(errs.ENOTFOUND, "poster not found")
	ErrInvalidFileName  = errs.Errorf(errs.EINVALID, "invalid file name")
)

// DeletedMessage is returned by a successful delete.
const DeletedMessage = "Movie deleted successfully!"

// Record is the persisted shape of a movie. Poster holds the stored file
// name, never a URL.
type Record struct {
	ID          int64
	Title       string
	Director    string
	Studio      string
	Cast        []string
	ReleaseYear int
	Poster      string
}

// Movie is the representation handed to callers.
type Movie struct {
	ID          int64    `json:"movieId"`
	Title       string   `json:"title"`
	Director    string   `json:"director"`
	Studio      string   `json:"studio"`
	Cast        []string `json:"movieCast"`
	ReleaseYear int      `json:"releaseYear"`
	PosterURL   string   `json:"posterUrl"`
}

// Input carries the caller supplied fields for create and replace.
type Input struct {
	Title       string
	Director    string
	Studio      string
	Cast        []string
	ReleaseYear int
}

// File is an uploaded poster.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Content     io.Reader
}

// CheckFileName rejects names that would escape the poster directory.
func CheckFileName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return ErrInvalidFileName
	}
	return nil
}
