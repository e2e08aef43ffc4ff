package movie

import "strings"

// Sortable fields as exposed to callers.
const (
	SortByID          = "movieId"
	SortByTitle       = "title"
	SortByDirector    = "director"
	SortByStudio      = "studio"
	SortByReleaseYear = "releaseYear"
	SortByPoster      = "poster"
)

// Page is a 1-based page of movies.
type Page struct {
	Movies        []Movie `json:"movieDto"`
	PageNumber    int     `json:"pageNumber"`
	PageSize      int     `json:"pageSize"`
	TotalElements int64   `json:"totalElements"`
	TotalPages    int     `json:"totalPages"`
	IsLast        bool    `json:"isLast"`
}

// Sort names a record field and direction.
type Sort struct {
	Field     string
	Ascending bool
}

// NewSort resolves a direction string: only a case-insensitive "asc" sorts
// ascending, every other value sorts descending.
func NewSort(field, direction string) *Sort {
	return &Sort{
		Field:     field,
		Ascending: strings.EqualFold(direction, "asc"),
	}
}

// PageQuery addresses a 0-based page in a record store.
type PageQuery struct {
	Index int
	Size  int
	Sort  *Sort
}

// Offset is the number of records before the page.
func (q PageQuery) Offset() int {
	return q.Index * q.Size
}

// RecordPage is one page read from a record store with its totals.
type RecordPage struct {
	Records       []Record
	TotalElements int64
	TotalPages    int
	IsLast        bool
}

// NewRecordPage fills in page totals for a store that counted total rows.
func NewRecordPage(records []Record, total int64, q PageQuery) RecordPage {
	totalPages := 0
	if q.Size > 0 && total > 0 {
		totalPages = int((total + int64(q.Size) - 1) / int64(q.Size))
	}
	return RecordPage{
		Records:       records,
		TotalElements: total,
		TotalPages:    totalPages,
		IsLast:        q.Index >= totalPages-1,
	}
}
