package httpserver

import (
	"movieflix/movie"
)

// MovieRequest is the movieDto JSON part of add and update requests. Poster
// fields sent by clients are ignored.
type MovieRequest struct {
	Title       string   `json:"title" validate:"notblank,max=200"`
	Director    string   `json:"director" validate:"notblank,max=200"`
	Studio      string   `json:"studio" validate:"notblank,max=200"`
	MovieCast   []string `json:"movieCast" validate:"dive,notblank"`
	ReleaseYear int      `json:"releaseYear" validate:"required"`
}

func (r MovieRequest) ToInput() movie.Input {
	return movie.Input{
		Title:       r.Title,
		Director:    r.Director,
		Studio:      r.Studio,
		Cast:        r.MovieCast,
		ReleaseYear: r.ReleaseYear,
	}
}

type PageRequest struct {
	PageNumber int    `query:"pageNumber"`
	PageSize   int    `query:"pageSize"`
	SortBy     string `query:"sortBy"`
	Dir        string `query:"dir"`
}

func defaultPageRequest() PageRequest {
	return PageRequest{
		PageNumber: 1,
		PageSize:   10,
		SortBy:     movie.SortByID,
		Dir:        "asc",
	}
}
