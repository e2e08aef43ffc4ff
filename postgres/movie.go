package postgres

import (
	"context"
	"errors"

	"movieflix/movie"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MovieModel represents the database model for movies
type MovieModel struct {
	ID          int64          `gorm:"primaryKey"`
	Title       string         `gorm:"not null;size:200"`
	Director    string         `gorm:"not null"`
	Studio      string         `gorm:"not null"`
	Cast        pq.StringArray `gorm:"column:movie_cast;type:text[]"`
	ReleaseYear int            `gorm:"column:release_year;not null"`
	Poster      string         `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (MovieModel) TableName() string {
	return "movies"
}

// sortColumns maps caller visible field names to columns.
var sortColumns = map[string]string{
	movie.SortByID:          "id",
	movie.SortByTitle:       "title",
	movie.SortByDirector:    "director",
	movie.SortByStudio:      "studio",
	movie.SortByReleaseYear: "release_year",
	movie.SortByPoster:      "poster",
}

// MovieRepository implements movie.Repository interface
type MovieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Save inserts a movie without an id and replaces one that has it.
func (r *MovieRepository) Save(ctx context.Context, m movie.Record) (movie.Record, error) {
	model := toModelMovie(m)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return movie.Record{}, err
	}
	return toDomainMovie(model), nil
}

func (r *MovieRepository) FindByID(ctx context.Context, id int64) (movie.Record, error) {
	var model MovieModel

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return movie.Record{}, movie.ErrMovieNotFound
		}
		return movie.Record{}, err
	}

	return toDomainMovie(model), nil
}

func (r *MovieRepository) FindAll(ctx context.Context) ([]movie.Record, error) {
	var models []MovieModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}
	return toDomainMovies(models), nil
}

// FindPage counts every movie then loads one page. Ties on the sort column
// are broken by id so page boundaries are stable.
func (r *MovieRepository) FindPage(ctx context.Context, q movie.PageQuery) (movie.RecordPage, error) {
	query := r.db.WithContext(ctx).Model(&MovieModel{})

	if q.Sort != nil {
		column, ok := sortColumns[q.Sort.Field]
		if !ok {
			return movie.RecordPage{}, movie.ErrInvalidSortField
		}
		query = query.Order(clause.OrderByColumn{
			Column: clause.Column{Name: column},
			Desc:   !q.Sort.Ascending,
		})
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&MovieModel{}).Count(&total).Error; err != nil {
		return movie.RecordPage{}, err
	}

	var models []MovieModel
	err := query.Order("id").Offset(q.Offset()).Limit(q.Size).Find(&models).Error
	if err != nil {
		return movie.RecordPage{}, err
	}

	return movie.NewRecordPage(toDomainMovies(models), total, q), nil
}

func (r *MovieRepository) DeleteByID(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&MovieModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

func toDomainMovies(models []MovieModel) []movie.Record {
	records := make([]movie.Record, len(models))
	for i, model := range models {
		records[i] = toDomainMovie(model)
	}
	return records
}

func toDomainMovie(model MovieModel) movie.Record {
	return movie.Record{
		ID:          model.ID,
		Title:       model.Title,
		Director:    model.Director,
		Studio:      model.Studio,
		Cast:        []string(model.Cast),
		ReleaseYear: model.ReleaseYear,
		Poster:      model.Poster,
	}
}

func toModelMovie(m movie.Record) MovieModel {
	return MovieModel{
		ID:          m.ID,
		Title:       m.Title,
		Director:    m.Director,
		Studio:      m.Studio,
		Cast:        pq.StringArray(m.Cast),
		ReleaseYear: m.ReleaseYear,
		Poster:      m.Poster,
	}
}
