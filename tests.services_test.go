package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestBookService_NormalizesIDs ensures upper case ids reach the storage in lower case.
func TestBookService_NormalizesIDs(t *testing.T) {
	var seen []string
	record := func(id string) {
		seen = append(seen, id)
	}
	mockRepo := &MockBookStorage{
		GetOneFunc: func(ctx context.Context, id string) (StoredBook, error) {
			record(id)
			return StoredBook{ID: id}, nil
		},
		UpdateFunc: func(ctx context.Context, id string, book Book) error {
			record(id)
			return nil
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			record(id)
			return nil
		},
	}
	bs := NewBookService(zap.NewNop(), &Config{}, mockRepo)
	upper := "65A1B2C3D4E5F60718293A4B"

	_, err := bs.GetOne(context.Background(), upper)
	require.NoError(t, err)
	require.NoError(t, bs.Update(context.Background(), upper, Book{}))
	require.NoError(t, bs.Delete(context.Background(), upper))
	assert.Equal(t, []string{testBookID, testBookID, testBookID}, seen)
}

// TestBookService_Search ensures an empty filter lists the whole catalog.
func TestBookService_Search(t *testing.T) {
	var searched bool
	mockRepo := &MockBookStorage{
		GetAllFunc: func(ctx context.Context) ([]StoredBook, error) {
			return []StoredBook{{ID: "all"}}, nil
		},
		SearchFunc: func(ctx context.Context, filter BookFilter) ([]StoredBook, error) {
			searched = true
			return []StoredBook{}, nil
		},
	}
	bs := NewBookService(zap.NewNop(), &Config{}, mockRepo)

	books, err := bs.Search(context.Background(), BookFilter{})
	require.NoError(t, err)
	assert.False(t, searched)
	assert.Len(t, books, 1)

	_, err = bs.Search(context.Background(), BookFilter{Author: "x"})
	require.NoError(t, err)
	assert.True(t, searched)
}
