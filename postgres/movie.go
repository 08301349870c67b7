package postgres

import (
	"context"
	"fmt"
	"moviefav/movie"

	"gorm.io/gorm"
)

// FavoriteMovieModel represents the database model for favorite movies
type FavoriteMovieModel struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"column:movie_title;not null"`
	Year      string `gorm:"not null"`
	CastStars string `gorm:"column:cast_stars;not null"`
	Cover     string `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (FavoriteMovieModel) TableName() string {
	return "favorite_movies"
}

// MovieRepository implements movie.Repository interface.
// Insertion order (the serial id) is the store order.
type MovieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new favorites repository
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) Insert(ctx context.Context, m movie.Movie) error {
	model := FavoriteMovieModel{
		Title:     m.Title,
		Year:      m.Year,
		CastStars: m.CastStars,
		Cover:     m.Cover,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("postgres: insert movie: %w", err)
	}
	return nil
}

func (r *MovieRepository) All(ctx context.Context) ([]movie.Movie, error) {
	var models []FavoriteMovieModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("postgres: list movies: %w", err)
	}

	movies := make([]movie.Movie, len(models))
	for i, model := range models {
		movies[i] = movie.Movie{
			Title:     model.Title,
			Year:      model.Year,
			CastStars: model.CastStars,
			Cover:     model.Cover,
		}
	}
	return movies, nil
}

func (r *MovieRepository) DeleteByTitle(ctx context.Context, title string) error {
	const sql = `
DELETE FROM favorite_movies
WHERE id = (
	SELECT id FROM favorite_movies WHERE movie_title = ? ORDER BY id LIMIT 1
)`

	if err := r.db.WithContext(ctx).Exec(sql, title).Error; err != nil {
		return fmt.Errorf("postgres: delete movie %q: %w", title, err)
	}
	return nil
}

func (r *MovieRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Exec("DELETE FROM favorite_movies").Error; err != nil {
		return fmt.Errorf("postgres: delete all movies: %w", err)
	}
	return nil
}
