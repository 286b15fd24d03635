package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

// boltBookStorage keeps each book as a json document under its object id key.
// Keys are hexadecimal object ids so the bucket cursor walks records in
// creation order, which serves as the natural order of this storage.
type boltBookStorage struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BoltDB.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BoltDB.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltBookStorage provides an instance of bolt-based book storage.
func NewBoltBookStorage(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) BookStorage {
	return &boltBookStorage{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// Close shuts down the bolt-based book storage.
func (bs *boltBookStorage) Close(_ context.Context) error {
	return bs.client.Close()
}

// Add inserts a new book record into boltdb store under a fresh id.
func (bs *boltBookStorage) Add(_ context.Context, book Book) (string, error) {
	id := NewBookID()
	bookBytes, err := json.Marshal(StoredBook{ID: id, Book: book})
	if err != nil {
		return "", err
	}
	err = bs.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bs.config.BucketName)).Put([]byte(id), bookBytes)
	})
	if err != nil {
		return "", fmt.Errorf("boltdb: insert book: %w", err)
	}
	return id, nil
}

// GetOne retrieves a book record based on its ID from boltdb store.
func (bs *boltBookStorage) GetOne(_ context.Context, id string) (StoredBook, error) {
	var book StoredBook
	// initialize a readable transaction.
	tx, err := bs.client.Begin(false)
	if err != nil {
		return book, fmt.Errorf("boltdb: begin transaction: %w", err)
	}
	defer tx.Rollback()

	result := tx.Bucket([]byte(bs.config.BucketName)).Get([]byte(id))
	if result == nil {
		return book, ErrBookNotFound
	}
	err = json.Unmarshal(result, &book)
	return book, err
}

// Update replaces existing book record data. It fails if the book does not exist.
func (bs *boltBookStorage) Update(_ context.Context, id string, book Book) error {
	bookBytes, err := json.Marshal(StoredBook{ID: id, Book: book})
	if err != nil {
		return err
	}
	return bs.client.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bs.config.BucketName))
		if b.Get([]byte(id)) == nil {
			return ErrBookNotFound
		}
		return b.Put([]byte(id), bookBytes)
	})
}

// Delete removes a book record based on its ID from boltdb store.
func (bs *boltBookStorage) Delete(_ context.Context, id string) error {
	return bs.client.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bs.config.BucketName))
		if b.Get([]byte(id)) == nil {
			return ErrBookNotFound
		}
		return b.Delete([]byte(id))
	})
}

// GetAll retrieves a list of all books stored in the bolt database.
func (bs *boltBookStorage) GetAll(_ context.Context) ([]StoredBook, error) {
	tx, err := bs.client.Begin(false)
	if err != nil {
		return nil, fmt.Errorf("boltdb: begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Create a cursor on the books' bucket.
	c := tx.Bucket([]byte(bs.config.BucketName)).Cursor()

	books := []StoredBook{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var book StoredBook
		if err = json.Unmarshal(v, &book); err != nil {
			return nil, fmt.Errorf("boltdb: decode book %s: %w", k, err)
		}
		books = append(books, book)
	}
	return books, nil
}

// Search scans the bucket and keeps the books matching the filter.
func (bs *boltBookStorage) Search(ctx context.Context, filter BookFilter) ([]StoredBook, error) {
	books, err := bs.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterBooks(books, filter), nil
}

// Statistics scans the bucket and computes the statistics in process.
func (bs *boltBookStorage) Statistics(ctx context.Context, limit int) (BookStatistics, error) {
	books, err := bs.GetAll(ctx)
	if err != nil {
		return BookStatistics{}, err
	}
	return ComputeStatistics(books, limit), nil
}
