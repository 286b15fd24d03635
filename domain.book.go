package main

import (
	"context"
	"errors"
)

// StatisticsLimit is the maximum number of entries returned
// in each ranked list of the catalog statistics.
const StatisticsLimit = 5

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrInvalidBookID = errors.New("invalid book id")
)

// Book represents the client-supplied fields of a catalog record.
type Book struct {
	Title       string  `json:"title" bson:"title"`
	Author      string  `json:"author" bson:"author"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
	Stock       int     `json:"stock" bson:"stock"`
}

// StoredBook is a book along with the identifier assigned by the storage.
type StoredBook struct {
	ID string `json:"id"`
	Book
}

// BookFilter holds the optional search criteria. Zero values impose no constraint.
type BookFilter struct {
	Title    string
	Author   string
	MinPrice *float64
	MaxPrice *float64
}

// AuthorCount is the number of books written by a given author.
type AuthorCount struct {
	Author string `json:"author" bson:"_id"`
	Count  int64  `json:"count" bson:"count"`
}

// BookStatistics is the aggregated view of the catalog.
type BookStatistics struct {
	TotalBooks       int64         `json:"total_books"`
	BestSellingBooks []StoredBook  `json:"best_selling_books"`
	TopAuthors       []AuthorCount `json:"top_authors"`
}

// BookStorage defines possible operations on book entity.
type BookStorage interface {
	Add(ctx context.Context, book Book) (string, error)
	GetOne(ctx context.Context, id string) (StoredBook, error)
	Update(ctx context.Context, id string, book Book) error
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]StoredBook, error)
	Search(ctx context.Context, filter BookFilter) ([]StoredBook, error)
	Statistics(ctx context.Context, limit int) (BookStatistics, error)
	Close(ctx context.Context) error
}
