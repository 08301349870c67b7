// Package store opens the favorites gateway selected by STORE_DRIVER.
package store

import (
	"context"
	"fmt"
	"moviefav/dynamodb"
	"moviefav/mongodb"
	"moviefav/movie"
	"moviefav/pkg/config"
	"moviefav/postgres"
	"strconv"
)

// Store is an open gateway plus the function that releases its connection.
type Store struct {
	Repository movie.Repository
	Driver     string

	close func(ctx context.Context) error
}

func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongoDB:
		return openMongo(ctx, cfg)
	case config.DriverDynamoDB:
		return openDynamo(ctx, cfg)
	case config.DriverPostgres:
		return openPostgres(cfg)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Store.Driver)
	}
}

func openMongo(ctx context.Context, cfg *config.Config) (*Store, error) {
	client, err := mongodb.NewClient(ctx, mongodb.Options{URI: cfg.Mongo.ConnectionString})
	if err != nil {
		return nil, err
	}

	return &Store{
		Repository: mongodb.NewMovieRepository(client, cfg.Mongo.DBName, cfg.Mongo.Collection),
		Driver:     config.DriverMongoDB,
		close:      client.Disconnect,
	}, nil
}

func openDynamo(ctx context.Context, cfg *config.Config) (*Store, error) {
	client, err := dynamodb.NewClient(ctx, dynamodb.Options{
		Region:       cfg.DynamoDB.Region,
		Endpoint:     cfg.DynamoDB.Endpoint,
		AccessKey:    cfg.DynamoDB.AccessKey,
		SecretKey:    cfg.DynamoDB.SecretKey,
		SessionToken: cfg.DynamoDB.SessionToken,
	})
	if err != nil {
		return nil, err
	}
	if err := dynamodb.CreateTable(ctx, client, cfg.DynamoDB.FavoritesTable); err != nil {
		return nil, err
	}

	return &Store{
		Repository: dynamodb.NewMovieRepository(client, cfg.DynamoDB.FavoritesTable),
		Driver:     config.DriverDynamoDB,
	}, nil
}

func openPostgres(cfg *config.Config) (*Store, error) {
	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		return nil, err
	}

	return &Store{
		Repository: postgres.NewMovieRepository(db),
		Driver:     config.DriverPostgres,
		close: func(context.Context) error {
			return postgres.Close(db)
		},
	}, nil
}
