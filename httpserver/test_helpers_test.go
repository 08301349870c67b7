package httpserver_test

import (
	"context"
	"moviefav/movie"
	"moviefav/pkg/config"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/stretchr/testify/mock"
)

func testConfig() *config.Config {
	cfg := &config.Config{Port: 8080}
	cfg.AllowOrigins = "*"
	return cfg
}

type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) BestMatch(ctx context.Context, title string) (movie.Movie, error) {
	args := m.Called(ctx, title)
	return args.Get(0).(movie.Movie), args.Error(1)
}

func (m *MockMovieService) AddFavorite(ctx context.Context, mv movie.Movie) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

func (m *MockMovieService) ListFavorites(ctx context.Context) ([]movie.Movie, error) {
	args := m.Called(ctx)
	return args.Get(0).([]movie.Movie), args.Error(1)
}

func (m *MockMovieService) RemoveFavorite(ctx context.Context, title string) error {
	args := m.Called(ctx, title)
	return args.Error(0)
}

func (m *MockMovieService) RemoveAllFavorites(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newFormRequest(path string, form url.Values) *http.Request {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return request
}

func newAddMovieRequest(m movie.Movie) *http.Request {
	return newFormRequest("/addMovie", url.Values{
		"movieTitle": {m.Title},
		"year":       {m.Year},
		"castStars":  {m.CastStars},
		"cover":      {m.Cover},
	})
}

func newRemoveMovieRequest(title string) *http.Request {
	return newFormRequest("/processRemove", url.Values{"movieTitle": {title}})
}

func newSearchRequest(title string) *http.Request {
	return httptest.NewRequest(http.MethodGet, "/processSearch?"+url.Values{"movieTitle": {title}}.Encode(), nil)
}
