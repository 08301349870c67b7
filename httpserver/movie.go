package httpserver

import (
	"errors"
	"log/slog"
	"moviefav/errs"
	"moviefav/movie"
	"moviefav/pkg/sentry"
	"net/http"

	"github.com/labstack/echo/v4"
)

var errMovieServiceMissing = errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")

// RegisterPageRoutes registers the pages that only render a form or a menu.
func (s *Server) RegisterPageRoutes() {
	s.Router.GET("/", s.page("home"))
	s.Router.GET("/searchMovies", s.page("searchMovies"))
	s.Router.GET("/removeMovie", s.page("removeMovie"))
	s.Router.GET("/removeAllMovies", s.page("removeAllMovies"))
}

func (s *Server) RegisterMovieRoutes() {
	s.Router.GET("/processSearch", s.handleProcessSearch)
	s.Router.POST("/addMovie", s.handleAddMovie)
	s.Router.GET("/reviewFavorites", s.handleReviewFavorites)
	s.Router.POST("/processRemove", s.handleProcessRemove)
	s.Router.POST("/removeAllMovies", s.handleRemoveAllMovies)
}

func (s *Server) page(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, name, nil)
	}
}

// handleProcessSearch shows the best ranked candidate. A failed search is not
// an error for the visitor: it renders the not found page instead.
func (s *Server) handleProcessSearch(c echo.Context) error {
	if s.MovieService == nil {
		return errMovieServiceMissing
	}

	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m, err := s.MovieService.BestMatch(c.Request().Context(), req.MovieTitle)
	if errors.Is(err, movie.ErrNoResults) {
		return err
	}
	if err != nil {
		slog.Error("movie search failed", "movieTitle", req.MovieTitle, "error", err)
		sentry.WithExtras(map[string]interface{}{"movieTitle": req.MovieTitle}).
			WithContext(c).
			Warning("movie search failed: " + err.Error())
		return c.Render(http.StatusOK, "notFound", map[string]interface{}{
			"MovieTitle": req.MovieTitle,
		})
	}

	return c.Render(http.StatusOK, "processSearch", m)
}

func (s *Server) handleAddMovie(c echo.Context) error {
	if s.MovieService == nil {
		return errMovieServiceMissing
	}

	var req AddMovieRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := s.MovieService.AddFavorite(c.Request().Context(), req.ToMovie()); err != nil {
		return storeFailure(c, err, "Error adding movie to database")
	}
	slog.Info("movie added to favorites", "movieTitle", req.MovieTitle)

	return c.Render(http.StatusOK, "processAdd", map[string]interface{}{
		"MovieName": req.MovieTitle,
	})
}

func (s *Server) handleReviewFavorites(c echo.Context) error {
	if s.MovieService == nil {
		return errMovieServiceMissing
	}

	movies, err := s.MovieService.ListFavorites(c.Request().Context())
	if err != nil {
		return storeFailure(c, err, "Error fetching movies from database")
	}

	return c.Render(http.StatusOK, "reviewFavorites", map[string]interface{}{
		"Movies": movies,
	})
}

func (s *Server) handleProcessRemove(c echo.Context) error {
	if s.MovieService == nil {
		return errMovieServiceMissing
	}

	var req RemoveMovieRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := s.MovieService.RemoveFavorite(c.Request().Context(), req.MovieTitle); err != nil {
		return storeFailure(c, err, "Error removing movie from favorites")
	}
	slog.Info("movie removed from favorites", "movieTitle", req.MovieTitle)

	return c.Render(http.StatusOK, "processRemove", map[string]interface{}{
		"RemovedTitle": req.MovieTitle,
	})
}

func (s *Server) handleRemoveAllMovies(c echo.Context) error {
	if s.MovieService == nil {
		return errMovieServiceMissing
	}

	if err := s.MovieService.RemoveAllFavorites(c.Request().Context()); err != nil {
		return storeFailure(c, err, "Error removing all movies from favorites")
	}
	slog.Info("all movies removed from favorites")

	return c.Render(http.StatusOK, "processRemoveAll", nil)
}

// storeFailure logs and reports err, then answers 500 with message.
func storeFailure(c echo.Context, err error, message string) error {
	slog.Error(message, "error", err, "request_id", c.Response().Header().Get(echo.HeaderXRequestID))
	sentry.WithTags(map[string]string{"route": c.Path()}).WithContext(c).Error(err)
	return echo.NewHTTPError(http.StatusInternalServerError, message).SetInternal(err)
}
