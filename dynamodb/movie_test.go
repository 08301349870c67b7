package dynamodb_test

import (
	"context"
	"fmt"
	"testing"

	"moviefav/dynamodb"
	"moviefav/movie"

	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testTable = "favorites"

var (
	heat   = movie.Movie{Title: "Heat", Year: "1995", CastStars: "Al Pacino, Robert De Niro", Cover: "https://img/heat._V1_UX500.jpg"}
	alien  = movie.Movie{Title: "Alien", Year: "1979", CastStars: "Sigourney Weaver", Cover: "https://img/alien._V1_UX500.jpg"}
	heat86 = movie.Movie{Title: "Heat", Year: "1986", CastStars: "Burt Reynolds", Cover: "https://img/heat86.jpg"}
)

func TestNewClient_RequiresRegion(t *testing.T) {
	_, err := dynamodb.NewClient(context.Background(), dynamodb.Options{})

	assert.Error(t, err)
}

func TestNewClient_RequiresKeyPair(t *testing.T) {
	_, err := dynamodb.NewClient(context.Background(), dynamodb.Options{Region: "us-east-1", AccessKey: "only-access"})

	assert.Error(t, err)
}

func TestMovieRepository_RequiresTable(t *testing.T) {
	client, err := dynamodb.NewClient(context.Background(), dynamodb.Options{Region: "us-east-1", AccessKey: "x", SecretKey: "y"})
	require.NoError(t, err)
	repo := dynamodb.NewMovieRepository(client, " ")

	assert.Error(t, repo.Insert(context.Background(), heat))
	_, err = repo.All(context.Background())
	assert.Error(t, err)
}

func TestMovieRepository(t *testing.T) {
	client := CreateLocalClient(t)
	ctx := context.Background()
	require.NoError(t, dynamodb.CreateTable(ctx, client, testTable))
	require.NoError(t, dynamodb.CreateTable(ctx, client, testTable), "creating an existing table is a no-op")
	repo := dynamodb.NewMovieRepository(client, testTable)

	t.Run("insert then list returns the record unchanged", func(t *testing.T) {
		require.NoError(t, repo.DeleteAll(ctx))

		require.NoError(t, repo.Insert(ctx, heat))
		require.NoError(t, repo.Insert(ctx, alien))

		movies, err := repo.All(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []movie.Movie{heat, alien}, movies)
	})

	t.Run("delete of a missing title is a no-op", func(t *testing.T) {
		require.NoError(t, repo.DeleteAll(ctx))
		require.NoError(t, repo.Insert(ctx, heat))

		require.NoError(t, repo.DeleteByTitle(ctx, "Casablanca"))

		movies, err := repo.All(ctx)
		require.NoError(t, err)
		assert.Len(t, movies, 1)
	})

	t.Run("delete removes at most one duplicate", func(t *testing.T) {
		require.NoError(t, repo.DeleteAll(ctx))
		require.NoError(t, repo.Insert(ctx, heat))
		require.NoError(t, repo.Insert(ctx, heat86))
		require.NoError(t, repo.Insert(ctx, alien))

		require.NoError(t, repo.DeleteByTitle(ctx, "Heat"))

		movies, err := repo.All(ctx)
		require.NoError(t, err)
		assert.Len(t, movies, 2)
		assert.Contains(t, movies, alien)
	})

	t.Run("delete all empties the table", func(t *testing.T) {
		require.NoError(t, repo.Insert(ctx, heat))

		require.NoError(t, repo.DeleteAll(ctx))

		movies, err := repo.All(ctx)
		require.NoError(t, err)
		assert.Empty(t, movies)
	})
}

func CreateLocalClient(t testing.TB) *awsdynamodb.Client {
	t.Helper()
	ctx := context.Background()

	cont, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "amazon/dynamodb-local:2.2.1",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"-jar", "DynamoDBLocal.jar", "-inMemory", "-sharedDb"},
			WaitingFor:   wait.ForListeningPort("8000/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start dynamodb-local container")
	t.Cleanup(func() {
		assert.NoError(t, cont.Terminate(ctx))
	})

	host, err := cont.Host(ctx)
	require.NoError(t, err)
	port, err := cont.MappedPort(ctx, nat.Port("8000/tcp"))
	require.NoError(t, err)

	client, err := dynamodb.NewClient(ctx, dynamodb.Options{
		Region:    "us-east-1",
		Endpoint:  fmt.Sprintf("http://%s:%s", host, port.Port()),
		AccessKey: "local",
		SecretKey: "local",
	})
	require.NoError(t, err)
	return client
}
