package main

import (
	"context"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This file contains the behavior every BookStorage must honor. It is
// run against each backend by their own test files.

var catalogFixture = []Book{
	{Title: "Dune", Author: "Frank Herbert", Description: "Desert planet", Price: 9.99, Stock: 50},
	{Title: "Dune Messiah", Author: "Frank Herbert", Description: "Sequel", Price: 12.5, Stock: 20},
	{Title: "Children of Dune", Author: "Frank Herbert", Description: "Third", Price: 15, Stock: 5},
	{Title: "The C++ Programming Language", Author: "Bjarne Stroustrup", Description: "Reference", Price: 60, Stock: 7},
	{Title: "Foundation", Author: "Isaac Asimov", Description: "Empire", Price: 10, Stock: 30},
	{Title: "I, Robot", Author: "Isaac Asimov", Description: "Robots", Price: 8, Stock: 1},
	{Title: "Neuromancer", Author: "William Gibson", Description: "Cyberspace", Price: 20, Stock: 12},
}

func floatPtr(v float64) *float64 {
	return &v
}

func titlesOf(books []StoredBook) []string {
	titles := make([]string, 0, len(books))
	for _, b := range books {
		titles = append(titles, b.Title)
	}
	return titles
}

// newDockerPool connects to the local docker daemon or skips the test.
func newDockerPool(t *testing.T) *dockertest.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping docker based test in short mode")
	}
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("could not connect to docker: %v", err)
	}
	pool.MaxWait = 2 * time.Minute
	return pool
}

// runBookStorageSuite exercises a freshly created and empty storage.
//
//nolint:funlen
func runBookStorageSuite(t *testing.T, storage BookStorage) {
	ctx := context.Background()

	t.Run("Empty Catalog", func(t *testing.T) {
		books, err := storage.GetAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, books)
		assert.Empty(t, books)

		stats, err := storage.Statistics(ctx, StatisticsLimit)
		require.NoError(t, err)
		assert.Equal(t, int64(0), stats.TotalBooks)
		assert.NotNil(t, stats.BestSellingBooks)
		assert.Empty(t, stats.BestSellingBooks)
		assert.NotNil(t, stats.TopAuthors)
		assert.Empty(t, stats.TopAuthors)
	})

	var ids []string
	t.Run("Add Books", func(t *testing.T) {
		for _, b := range catalogFixture {
			id, err := storage.Add(ctx, b)
			require.NoError(t, err)
			assert.True(t, NewIDsHandler().IsValid(id), "id %q is not a valid object id", id)
			assert.NotContains(t, ids, id)
			ids = append(ids, id)
		}
	})
	require.Len(t, ids, len(catalogFixture))

	t.Run("Get Existent Book", func(t *testing.T) {
		book, err := storage.GetOne(ctx, ids[0])
		require.NoError(t, err)
		assert.Equal(t, StoredBook{ID: ids[0], Book: catalogFixture[0]}, book)
	})

	t.Run("Get NonExistent Book", func(t *testing.T) {
		_, err := storage.GetOne(ctx, NewBookID())
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("Get All Books", func(t *testing.T) {
		books, err := storage.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, books, len(catalogFixture))
		for i, b := range books {
			assert.Equal(t, ids[i], b.ID)
			assert.Equal(t, catalogFixture[i], b.Book)
		}
	})

	t.Run("Search Books", func(t *testing.T) {
		testCases := []struct {
			name     string
			filter   BookFilter
			expected []string
		}{
			{"title substring ignoring case", BookFilter{Title: "DUNE"}, []string{"Dune", "Dune Messiah", "Children of Dune"}},
			{"title with regex characters", BookFilter{Title: "c++"}, []string{"The C++ Programming Language"}},
			{"title with a dot matches literally", BookFilter{Title: "."}, []string{}},
			{"author substring", BookFilter{Author: "asimov"}, []string{"Foundation", "I, Robot"}},
			{"inclusive price range", BookFilter{MinPrice: floatPtr(10), MaxPrice: floatPtr(15)}, []string{"Dune Messiah", "Children of Dune", "Foundation"}},
			{"combined criteria", BookFilter{Title: "dune", MaxPrice: floatPtr(10)}, []string{"Dune"}},
			{"empty range", BookFilter{MinPrice: floatPtr(100)}, []string{}},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				books, err := storage.Search(ctx, tc.filter)
				require.NoError(t, err)
				assert.NotNil(t, books)
				assert.ElementsMatch(t, tc.expected, titlesOf(books))
			})
		}
	})

	t.Run("Books Statistics", func(t *testing.T) {
		stats, err := storage.Statistics(ctx, StatisticsLimit)
		require.NoError(t, err)
		assert.Equal(t, int64(len(catalogFixture)), stats.TotalBooks)
		assert.Equal(t,
			[]string{"Dune", "Foundation", "Dune Messiah", "Neuromancer", "The C++ Programming Language"},
			titlesOf(stats.BestSellingBooks),
		)
		require.Len(t, stats.TopAuthors, 4)
		assert.Equal(t, AuthorCount{Author: "Frank Herbert", Count: 3}, stats.TopAuthors[0])
		assert.Equal(t, AuthorCount{Author: "Isaac Asimov", Count: 2}, stats.TopAuthors[1])
		assert.ElementsMatch(t,
			[]AuthorCount{{Author: "Bjarne Stroustrup", Count: 1}, {Author: "William Gibson", Count: 1}},
			stats.TopAuthors[2:],
		)
	})

	t.Run("Update Existent Book", func(t *testing.T) {
		updated := Book{Title: "Dune (Deluxe)", Author: "Frank Herbert", Description: "Hardcover", Price: 35, Stock: 2}
		require.NoError(t, storage.Update(ctx, ids[0], updated))
		book, err := storage.GetOne(ctx, ids[0])
		require.NoError(t, err)
		assert.Equal(t, StoredBook{ID: ids[0], Book: updated}, book)

		// same values again still succeed.
		assert.NoError(t, storage.Update(ctx, ids[0], updated))
	})

	t.Run("Update NonExistent Book", func(t *testing.T) {
		id := NewBookID()
		err := storage.Update(ctx, id, catalogFixture[0])
		assert.ErrorIs(t, err, ErrBookNotFound)
		_, err = storage.GetOne(ctx, id)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("Delete Existent Book", func(t *testing.T) {
		require.NoError(t, storage.Delete(ctx, ids[1]))
		_, err := storage.GetOne(ctx, ids[1])
		assert.ErrorIs(t, err, ErrBookNotFound)
		books, err := storage.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, books, len(catalogFixture)-1)
	})

	t.Run("Delete NonExistent Book", func(t *testing.T) {
		err := storage.Delete(ctx, ids[1])
		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}
