package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"movieflix/movie"
	"movieflix/pkg/config"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type apiResponse struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
	Info    string          `json:"info"`
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Poster.Dir = "posters"
	return cfg
}

func decodeAPIResponse(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "failed to decode response: %s", rec.Body.String())
	return resp
}

func decodeAPIResult(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v), "failed to decode result")
}

type formPoster struct {
	name    string
	content []byte
}

// newMovieFormRequest builds a multipart request with an optional file part
// and an optional movieDto part.
func newMovieFormRequest(t *testing.T, method, target string, poster *formPoster, movieDto string) *http.Request {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)

	if poster != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+poster.name+`"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(poster.content)
		require.NoError(t, err)
	}
	if movieDto != "" {
		require.NoError(t, w.WriteField("movieDto", movieDto))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func movieDtoJSON(t *testing.T, in movie.Input) string {
	t.Helper()
	b, err := json.Marshal(map[string]interface{}{
		"title":       in.Title,
		"director":    in.Director,
		"studio":      in.Studio,
		"movieCast":   in.Cast,
		"releaseYear": in.ReleaseYear,
	})
	require.NoError(t, err)
	return string(b)
}

type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) AddMovie(ctx context.Context, in movie.Input, f movie.File) (movie.Movie, error) {
	args := m.Called(ctx, in, f)
	return args.Get(0).(movie.Movie), args.Error(1)
}

func (m *MockMovieService) GetMovie(ctx context.Context, id int64) (movie.Movie, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(movie.Movie), args.Error(1)
}

func (m *MockMovieService) ListMovies(ctx context.Context) ([]movie.Movie, error) {
	args := m.Called(ctx)
	return args.Get(0).([]movie.Movie), args.Error(1)
}

func (m *MockMovieService) UpdateMovie(ctx context.Context, id int64, in movie.Input, f *movie.File) (movie.Movie, error) {
	args := m.Called(ctx, id, in, f)
	return args.Get(0).(movie.Movie), args.Error(1)
}

func (m *MockMovieService) DeleteMovie(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockMovieService) ListMoviesPaged(ctx context.Context, pageNumber, pageSize int) (movie.Page, error) {
	args := m.Called(ctx, pageNumber, pageSize)
	return args.Get(0).(movie.Page), args.Error(1)
}

func (m *MockMovieService) ListMoviesPagedSorted(ctx context.Context, pageNumber, pageSize int, sortBy, sortDirection string) (movie.Page, error) {
	args := m.Called(ctx, pageNumber, pageSize, sortBy, sortDirection)
	return args.Get(0).(movie.Page), args.Error(1)
}
