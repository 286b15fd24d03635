package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// updateIfExistsScript replaces a hash field only when it already exists.
// It returns 1 on replacement and 0 when the field is missing.
var updateIfExistsScript = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 1 then
	redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
	return 1
end
return 0
`)

// redisBookStorage keeps all books as json documents inside a single hash.
type redisBookStorage struct {
	logger *zap.Logger
	client *redis.Client
	hash   string
}

// NewRedisBookStorage provides an instance of redis-based book storage.
func NewRedisBookStorage(logger *zap.Logger, redisConfig *RedisConfig, client *redis.Client) BookStorage {
	return &redisBookStorage{
		logger: logger,
		client: client,
		hash:   redisConfig.HashKey,
	}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// Close closes the underlying client and its connections pool.
func (rs *redisBookStorage) Close(_ context.Context) error {
	return rs.client.Close()
}

// Add inserts a new book record under a fresh id.
func (rs *redisBookStorage) Add(ctx context.Context, book Book) (string, error) {
	id := NewBookID()
	bookBytes, err := json.Marshal(StoredBook{ID: id, Book: book})
	if err != nil {
		return "", err
	}
	if err = rs.client.HSet(ctx, rs.hash, id, bookBytes).Err(); err != nil {
		return "", fmt.Errorf("redis: insert book: %w", err)
	}
	return id, nil
}

// GetOne retrieves a book record based on its ID.
func (rs *redisBookStorage) GetOne(ctx context.Context, id string) (StoredBook, error) {
	var book StoredBook
	bookJSONString, err := rs.client.HGet(ctx, rs.hash, id).Result()
	if errors.Is(err, redis.Nil) {
		return book, ErrBookNotFound
	}
	if err != nil {
		return book, fmt.Errorf("redis: get book: %w", err)
	}
	err = json.Unmarshal([]byte(bookJSONString), &book)
	return book, err
}

// Update replaces existing book record data. It fails if the book does not exist.
func (rs *redisBookStorage) Update(ctx context.Context, id string, book Book) error {
	bookBytes, err := json.Marshal(StoredBook{ID: id, Book: book})
	if err != nil {
		return err
	}
	replaced, err := updateIfExistsScript.Run(ctx, rs.client, []string{rs.hash}, id, bookBytes).Int()
	if err != nil {
		return fmt.Errorf("redis: update book: %w", err)
	}
	if replaced == 0 {
		return ErrBookNotFound
	}
	return nil
}

// Delete removes a book record based on its ID.
func (rs *redisBookStorage) Delete(ctx context.Context, id string) error {
	removed, err := rs.client.HDel(ctx, rs.hash, id).Result()
	if err != nil {
		return fmt.Errorf("redis: delete book: %w", err)
	}
	if removed == 0 {
		return ErrBookNotFound
	}
	return nil
}

// GetAll retrieves a list of all books stored in the redis database. Hash
// values come in no particular order so they are sorted by id, that is by
// creation time.
func (rs *redisBookStorage) GetAll(ctx context.Context) ([]StoredBook, error) {
	mapBooks, err := rs.client.HVals(ctx, rs.hash).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: get books: %w", err)
	}
	books := []StoredBook{}
	for _, bookJSONString := range mapBooks {
		var book StoredBook
		if err = json.Unmarshal([]byte(bookJSONString), &book); err != nil {
			return nil, fmt.Errorf("redis: decode book: %w", err)
		}
		books = append(books, book)
	}
	sort.Slice(books, func(i, j int) bool {
		return books[i].ID < books[j].ID
	})
	return books, nil
}

// Search loads every book and keeps the ones matching the filter.
func (rs *redisBookStorage) Search(ctx context.Context, filter BookFilter) ([]StoredBook, error) {
	books, err := rs.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterBooks(books, filter), nil
}

// Statistics loads every book and computes the statistics in process.
func (rs *redisBookStorage) Statistics(ctx context.Context, limit int) (BookStatistics, error) {
	books, err := rs.GetAll(ctx)
	if err != nil {
		return BookStatistics{}, err
	}
	return ComputeStatistics(books, limit), nil
}
