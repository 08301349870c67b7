package postgres_test

import (
	"context"
	"testing"

	"moviefav/movie"
	"moviefav/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	heat   = movie.Movie{Title: "Heat", Year: "1995", CastStars: "Al Pacino, Robert De Niro", Cover: "https://img/heat._V1_UX500.jpg"}
	alien  = movie.Movie{Title: "Alien", Year: "1979", CastStars: "Sigourney Weaver", Cover: "https://img/alien._V1_UX500.jpg"}
	heat86 = movie.Movie{Title: "Heat", Year: "1986", CastStars: "Burt Reynolds", Cover: "https://img/heat86.jpg"}
)

func TestMovieRepository(t *testing.T) {
	// Arrange - one container shared by the subtests
	db := CreateConnection(t, "movie_test", "testuser", "testpass")
	MigrateTestDatabase(t, db, "../migrations")
	repo := postgres.NewMovieRepository(db)
	ctx := context.Background()

	t.Run("insert then list returns records in insertion order", func(t *testing.T) {
		cleanupMovieDatabase(t, db)

		require.NoError(t, repo.Insert(ctx, heat))
		require.NoError(t, repo.Insert(ctx, alien))

		movies, err := repo.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, []movie.Movie{heat, alien}, movies)
	})

	t.Run("returns empty list when no movies exist", func(t *testing.T) {
		cleanupMovieDatabase(t, db)

		movies, err := repo.All(ctx)

		require.NoError(t, err)
		assert.Empty(t, movies)
	})

	t.Run("delete of a missing title is a no-op", func(t *testing.T) {
		cleanupMovieDatabase(t, db)
		require.NoError(t, repo.Insert(ctx, heat))

		require.NoError(t, repo.DeleteByTitle(ctx, "Casablanca"))

		assertMovieCount(t, db, 1)
	})

	t.Run("delete removes only the first duplicate", func(t *testing.T) {
		cleanupMovieDatabase(t, db)
		require.NoError(t, repo.Insert(ctx, heat))
		require.NoError(t, repo.Insert(ctx, alien))
		require.NoError(t, repo.Insert(ctx, heat86))

		require.NoError(t, repo.DeleteByTitle(ctx, "Heat"))

		movies, err := repo.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, []movie.Movie{alien, heat86}, movies)
	})

	t.Run("delete all empties the table", func(t *testing.T) {
		cleanupMovieDatabase(t, db)
		require.NoError(t, repo.Insert(ctx, heat))
		require.NoError(t, repo.Insert(ctx, alien))

		require.NoError(t, repo.DeleteAll(ctx))

		assertMovieCount(t, db, 0)
	})

	t.Run("fails with closed database connection", func(t *testing.T) {
		require.NoError(t, postgres.Close(db))

		_, err := repo.All(ctx)
		assert.Error(t, err)
		assert.Error(t, repo.Insert(ctx, heat))
		assert.Error(t, repo.DeleteByTitle(ctx, "Heat"))
		assert.Error(t, repo.DeleteAll(ctx))
	})
}

func assertMovieCount(t testing.TB, db *gorm.DB, expected int64) {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&postgres.FavoriteMovieModel{}).Count(&count).Error)
	assert.Equal(t, expected, count)
}

// cleanupMovieDatabase truncates the favorites table to ensure test isolation
func cleanupMovieDatabase(t testing.TB, db *gorm.DB) {
	t.Helper()
	err := db.Exec("TRUNCATE TABLE favorite_movies RESTART IDENTITY").Error
	require.NoError(t, err)
}
