package main

import (
	"sort"
	"strings"
)

// This file contains the in-process evaluation of searches and statistics.
// It is used by storages which cannot run such queries server-side.

// IsEmpty reports whether the filter sets no criterion at all.
func (f BookFilter) IsEmpty() bool {
	return f.Title == "" && f.Author == "" && f.MinPrice == nil && f.MaxPrice == nil
}

// Match reports whether the book satisfies every criterion set on the filter.
// Title and author are case-insensitive substring matches and price bounds are inclusive.
func (f BookFilter) Match(book Book) bool {
	if f.Title != "" && !containsFold(book.Title, f.Title) {
		return false
	}
	if f.Author != "" && !containsFold(book.Author, f.Author) {
		return false
	}
	if f.MinPrice != nil && book.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && book.Price > *f.MaxPrice {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// FilterBooks returns the books matching the filter, preserving the input order.
func FilterBooks(books []StoredBook, filter BookFilter) []StoredBook {
	matched := []StoredBook{}
	for _, book := range books {
		if filter.Match(book.Book) {
			matched = append(matched, book)
		}
	}
	return matched
}

// ComputeStatistics builds the catalog statistics from the full list of books.
// Ties are broken by the input order, which is the storage natural order.
func ComputeStatistics(books []StoredBook, limit int) BookStatistics {
	stats := BookStatistics{
		TotalBooks:       int64(len(books)),
		BestSellingBooks: []StoredBook{},
		TopAuthors:       []AuthorCount{},
	}

	byStock := make([]StoredBook, len(books))
	copy(byStock, books)
	sort.SliceStable(byStock, func(i, j int) bool {
		return byStock[i].Stock > byStock[j].Stock
	})
	stats.BestSellingBooks = append(stats.BestSellingBooks, byStock[:min(limit, len(byStock))]...)

	index := make(map[string]int)
	authors := []AuthorCount{}
	for _, book := range books {
		i, ok := index[book.Author]
		if !ok {
			index[book.Author] = len(authors)
			authors = append(authors, AuthorCount{Author: book.Author, Count: 1})
			continue
		}
		authors[i].Count++
	}
	sort.SliceStable(authors, func(i, j int) bool {
		return authors[i].Count > authors[j].Count
	})
	stats.TopAuthors = append(stats.TopAuthors, authors[:min(limit, len(authors))]...)

	return stats
}
