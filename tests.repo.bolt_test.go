package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestBoltStore returns a new instance of bolt store in a temporary path.
func newTestBoltStore(t *testing.T) BookStorage {
	t.Helper()
	testConfig := &Config{
		BoltDB: BoltDBConfig{
			FilePath:   filepath.Join(t.TempDir(), "books.db"),
			Timeout:    5 * time.Second,
			BucketName: "test.books",
		},
	}
	client, err := GetBoltDBClient(testConfig)
	require.NoError(t, err, "failed in creating a test bolt store")
	bs := NewBoltBookStorage(zap.NewNop(), &testConfig.BoltDB, client)
	t.Cleanup(func() {
		_ = bs.Close(context.Background())
	})
	return bs
}

func TestBoltStore(t *testing.T) {
	runBookStorageSuite(t, newTestBoltStore(t))
}

// Ensure the bolt store keeps its records once reopened.
func TestBoltStore_Reopen(t *testing.T) {
	testConfig := &Config{
		BoltDB: BoltDBConfig{
			FilePath:   filepath.Join(t.TempDir(), "books.db"),
			Timeout:    time.Second,
			BucketName: "test.books",
		},
	}
	client, err := GetBoltDBClient(testConfig)
	require.NoError(t, err)
	bs := NewBoltBookStorage(zap.NewNop(), &testConfig.BoltDB, client)
	id, err := bs.Add(context.Background(), catalogFixture[0])
	require.NoError(t, err)
	require.NoError(t, bs.Close(context.Background()))

	client, err = GetBoltDBClient(testConfig)
	require.NoError(t, err)
	bs = NewBoltBookStorage(zap.NewNop(), &testConfig.BoltDB, client)
	defer bs.Close(context.Background())
	book, err := bs.GetOne(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, catalogFixture[0], book.Book)
}
