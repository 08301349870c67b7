package httpserver

import (
	"moviefav/movie"
)

type SearchRequest struct {
	MovieTitle string `query:"movieTitle" validate:"max=1024"`
}

type AddMovieRequest struct {
	MovieTitle string `form:"movieTitle" validate:"max=1024"`
	Year       string `form:"year" validate:"max=16"`
	CastStars  string `form:"castStars" validate:"max=1024"`
	Cover      string `form:"cover" validate:"max=2048"`
}

func (r AddMovieRequest) ToMovie() movie.Movie {
	return movie.Movie{
		Title:     r.MovieTitle,
		Year:      r.Year,
		CastStars: r.CastStars,
		Cover:     r.Cover,
	}
}

type RemoveMovieRequest struct {
	MovieTitle string `form:"movieTitle" validate:"max=1024"`
}
