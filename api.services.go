package main

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

type BookServiceProvider interface {
	Add(ctx context.Context, book Book) (string, error)
	GetOne(ctx context.Context, id string) (StoredBook, error)
	Update(ctx context.Context, id string, book Book) error
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]StoredBook, error)
	Search(ctx context.Context, filter BookFilter) ([]StoredBook, error)
	Statistics(ctx context.Context) (BookStatistics, error)
}

// BookService runs each catalog operation as a single storage call.
type BookService struct {
	logger  *zap.Logger
	config  *Config
	storage BookStorage
}

func NewBookService(logger *zap.Logger, config *Config, storage BookStorage) BookServiceProvider {
	return &BookService{
		logger:  logger,
		config:  config,
		storage: storage,
	}
}

func (bs *BookService) Add(ctx context.Context, book Book) (string, error) {
	id, err := bs.storage.Add(ctx, book)
	if err != nil {
		bs.logger.Debug("service: failed to add book", zap.Error(err))
	}
	return id, err
}

// GetOne normalizes the id since object ids hexadecimal form is case-insensitive.
func (bs *BookService) GetOne(ctx context.Context, id string) (StoredBook, error) {
	return bs.storage.GetOne(ctx, strings.ToLower(id))
}

func (bs *BookService) Update(ctx context.Context, id string, book Book) error {
	return bs.storage.Update(ctx, strings.ToLower(id), book)
}

func (bs *BookService) Delete(ctx context.Context, id string) error {
	return bs.storage.Delete(ctx, strings.ToLower(id))
}

func (bs *BookService) GetAll(ctx context.Context) ([]StoredBook, error) {
	return bs.storage.GetAll(ctx)
}

func (bs *BookService) Search(ctx context.Context, filter BookFilter) ([]StoredBook, error) {
	if filter.IsEmpty() {
		return bs.storage.GetAll(ctx)
	}
	return bs.storage.Search(ctx, filter)
}

func (bs *BookService) Statistics(ctx context.Context) (BookStatistics, error) {
	return bs.storage.Statistics(ctx, StatisticsLimit)
}
