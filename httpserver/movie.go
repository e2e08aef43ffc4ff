package httpserver

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"movieflix/errs"
	"movieflix/movie"

	"github.com/labstack/echo/v4"
)

var (
	errMissingFile     = errs.Errorf(errs.EINVALID, "file is required")
	errMissingMovieDto = errs.Errorf(errs.EINVALID, "movieDto is required")
	errInvalidMovieDto = errs.Errorf(errs.EINVALID, "movieDto must be a valid JSON object")
	errInvalidMovieID  = errs.Errorf(errs.EINVALID, "movieId must be a number")
	errInvalidPaging   = errs.Errorf(errs.EINVALID, "pageNumber and pageSize must be numbers")
	errNotMultipart    = errs.Errorf(errs.EINVALID, "request must be multipart/form-data")
)

func (s *Server) RegisterMovieRoutes(g *echo.Group) {
	g.POST("/add-movie", s.handleAddMovie)
	g.GET("/all", s.handleListMovies)
	g.GET("/allMoviesPage", s.handleListMoviesPage)
	g.GET("/allMoviePageSort", s.handleListMoviesPageSort)
	g.GET("/:movieId", s.handleGetMovie)
	g.PUT("/update/:movieId", s.handleUpdateMovie)
	g.DELETE("/delete/:movieId", s.handleDeleteMovie)
}

func (s *Server) movieService() (movie.Service, error) {
	if s.MovieService == nil {
		return nil, errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
	}
	return s.MovieService, nil
}

func (s *Server) handleAddMovie(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return errMissingFile
		}
		return errNotMultipart
	}
	if fh.Size == 0 {
		return movie.ErrEmptyFile
	}

	req, err := bindMovieRequest(c)
	if err != nil {
		return err
	}

	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	m, err := svc.AddMovie(c.Request().Context(), req.ToInput(), formFile(fh, src))
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusCreated, m)
}

func (s *Server) handleGetMovie(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	id, err := movieID(c)
	if err != nil {
		return err
	}

	m, err := svc.GetMovie(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, m)
}

func (s *Server) handleListMovies(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	movies, err := svc.ListMovies(c.Request().Context())
	if err != nil {
		return err
	}

	return writeList(c, http.StatusOK, movies)
}

// handleUpdateMovie replaces the movie. A missing or empty file part keeps
// the current poster.
func (s *Server) handleUpdateMovie(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	id, err := movieID(c)
	if err != nil {
		return err
	}

	var file *movie.File
	fh, err := c.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		return errNotMultipart
	case fh.Size > 0:
		src, err := fh.Open()
		if err != nil {
			return err
		}
		defer src.Close()
		f := formFile(fh, src)
		file = &f
	}

	req, err := bindMovieRequest(c)
	if err != nil {
		return err
	}

	m, err := svc.UpdateMovie(c.Request().Context(), id, req.ToInput(), file)
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, m)
}

func (s *Server) handleDeleteMovie(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	id, err := movieID(c)
	if err != nil {
		return err
	}

	msg, err := svc.DeleteMovie(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, msg)
}

func (s *Server) handleListMoviesPage(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	req, err := bindPageRequest(c)
	if err != nil {
		return err
	}

	page, err := svc.ListMoviesPaged(c.Request().Context(), req.PageNumber, req.PageSize)
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, page)
}

func (s *Server) handleListMoviesPageSort(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	req, err := bindPageRequest(c)
	if err != nil {
		return err
	}

	page, err := svc.ListMoviesPagedSorted(c.Request().Context(), req.PageNumber, req.PageSize, req.SortBy, req.Dir)
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, page)
}

func movieID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("movieId"), 10, 64)
	if err != nil {
		return 0, errInvalidMovieID
	}
	return id, nil
}

func bindMovieRequest(c echo.Context) (MovieRequest, error) {
	var req MovieRequest
	raw := c.FormValue("movieDto")
	if raw == "" {
		return req, errMissingMovieDto
	}
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return req, errInvalidMovieDto
	}
	if err := c.Validate(&req); err != nil {
		return req, err
	}
	return req, nil
}

func bindPageRequest(c echo.Context) (PageRequest, error) {
	req := defaultPageRequest()
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return req, errInvalidPaging
	}
	return req, nil
}

func formFile(fh *multipart.FileHeader, src multipart.File) movie.File {
	return movie.File{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Content:     src,
	}
}
