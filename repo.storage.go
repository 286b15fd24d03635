package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// NewBookStorage connects to the configured storage backend and provides
// the book storage on top of it. The caller owns the returned storage and
// must close it once the application stops.
func NewBookStorage(logger *zap.Logger, config *Config) (BookStorage, error) {
	switch config.Storage {
	case StorageMongoDB:
		client, err := GetMongoDBClient(config)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongodb server: %s", err)
		}
		ms := NewMongoBookStorage(logger, &config.MongoDB, client)
		ctx, cancel := context.WithTimeout(context.Background(), config.MongoDB.ConnectTimeout)
		defer cancel()
		if err = ms.EnsureIndexes(ctx); err != nil {
			_ = ms.Close(context.Background())
			return nil, err
		}
		return ms, nil

	case StorageRedis:
		client, err := GetRedisClient(config)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis server: %s", err)
		}
		return NewRedisBookStorage(logger, &config.Redis, client), nil

	case StorageBoltDB:
		client, err := GetBoltDBClient(config)
		if err != nil {
			return nil, fmt.Errorf("failed to open boltdb database: %s", err)
		}
		return NewBoltBookStorage(logger, &config.BoltDB, client), nil
	}
	return nil, fmt.Errorf("unsupported storage %q", config.Storage)
}
