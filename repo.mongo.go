package main

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type mongoBookStorage struct {
	logger     *zap.Logger
	client     *mongo.Client
	collection *mongo.Collection
}

// mongoBook is the document layout of a book inside the collection.
type mongoBook struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Book `bson:",inline"`
}

func (mb mongoBook) toStoredBook() StoredBook {
	return StoredBook{ID: mb.ID.Hex(), Book: mb.Book}
}

// GetMongoDBClient provides a ready to use mongodb client.
func GetMongoDBClient(config *Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), config.MongoDB.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(config.MongoDB.URI).
		SetConnectTimeout(config.MongoDB.ConnectTimeout).
		SetServerSelectionTimeout(config.MongoDB.ServerSelectionTimeout)
	if config.MongoDB.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(config.MongoDB.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %v", err)
	}

	// test connection.
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// NewMongoBookStorage provides an instance of mongodb-based book storage.
func NewMongoBookStorage(logger *zap.Logger, mongoConfig *MongoDBConfig, client *mongo.Client) *mongoBookStorage {
	return &mongoBookStorage{
		logger:     logger,
		client:     client,
		collection: client.Database(mongoConfig.Database).Collection(mongoConfig.Collection),
	}
}

// EnsureIndexes creates the secondary indexes used by search and statistics queries.
func (ms *mongoBookStorage) EnsureIndexes(ctx context.Context) error {
	names, err := ms.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "stock", Value: -1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	ms.logger.Debug("mongodb indexes ready", zap.Strings("indexes", names))
	return nil
}

// Close disconnects the underlying client.
func (ms *mongoBookStorage) Close(ctx context.Context) error {
	return ms.client.Disconnect(ctx)
}

// Add inserts a new book record and returns its store-assigned id.
func (ms *mongoBookStorage) Add(ctx context.Context, book Book) (string, error) {
	result, err := ms.collection.InsertOne(ctx, book)
	if err != nil {
		return "", fmt.Errorf("mongodb: insert book: %w", err)
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("mongodb: unexpected inserted id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}

// GetOne retrieves a book record based on its ID.
func (ms *mongoBookStorage) GetOne(ctx context.Context, id string) (StoredBook, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return StoredBook{}, ErrInvalidBookID
	}
	var doc mongoBook
	err = ms.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return StoredBook{}, ErrBookNotFound
	}
	if err != nil {
		return StoredBook{}, fmt.Errorf("mongodb: find book: %w", err)
	}
	return doc.toStoredBook(), nil
}

// Update replaces the five fields of an existing book. It succeeds as long as
// the id matched a record, even if the new values equal the stored ones.
func (ms *mongoBookStorage) Update(ctx context.Context, id string, book Book) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidBookID
	}
	result, err := ms.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": book})
	if err != nil {
		return fmt.Errorf("mongodb: update book: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrBookNotFound
	}
	return nil
}

// Delete removes a book record based on its ID.
func (ms *mongoBookStorage) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidBookID
	}
	result, err := ms.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongodb: delete book: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrBookNotFound
	}
	return nil
}

// GetAll retrieves all books in the collection natural order.
func (ms *mongoBookStorage) GetAll(ctx context.Context) ([]StoredBook, error) {
	cursor, err := ms.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("mongodb: find books: %w", err)
	}
	return decodeBooks(ctx, cursor)
}

// Search retrieves all books matching the filter.
func (ms *mongoBookStorage) Search(ctx context.Context, filter BookFilter) ([]StoredBook, error) {
	cursor, err := ms.collection.Find(ctx, BuildSearchQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("mongodb: search books: %w", err)
	}
	return decodeBooks(ctx, cursor)
}

// Statistics counts the books then ranks them by stock and groups them by author.
func (ms *mongoBookStorage) Statistics(ctx context.Context, limit int) (BookStatistics, error) {
	stats := BookStatistics{BestSellingBooks: []StoredBook{}, TopAuthors: []AuthorCount{}}

	total, err := ms.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return stats, fmt.Errorf("mongodb: count books: %w", err)
	}
	stats.TotalBooks = total

	opts := options.Find().SetSort(bson.D{{Key: "stock", Value: -1}}).SetLimit(int64(limit))
	cursor, err := ms.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return stats, fmt.Errorf("mongodb: rank books: %w", err)
	}
	if stats.BestSellingBooks, err = decodeBooks(ctx, cursor); err != nil {
		return stats, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$author"}, {Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}
	cursor, err = ms.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return stats, fmt.Errorf("mongodb: group authors: %w", err)
	}
	authors := []AuthorCount{}
	if err = cursor.All(ctx, &authors); err != nil {
		return stats, fmt.Errorf("mongodb: decode authors: %w", err)
	}
	stats.TopAuthors = authors
	return stats, nil
}

// BuildSearchQuery translates a filter into a mongodb query document. Title
// and author are escaped so they always match as literal substrings.
func BuildSearchQuery(filter BookFilter) bson.M {
	query := bson.M{}
	if filter.Title != "" {
		query["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Title), Options: "i"}
	}
	if filter.Author != "" {
		query["author"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Author), Options: "i"}
	}
	price := bson.M{}
	if filter.MinPrice != nil {
		price["$gte"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		price["$lte"] = *filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}
	return query
}

func decodeBooks(ctx context.Context, cursor *mongo.Cursor) ([]StoredBook, error) {
	defer cursor.Close(ctx)
	books := []StoredBook{}
	for cursor.Next(ctx) {
		var doc mongoBook
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongodb: decode book: %w", err)
		}
		books = append(books, doc.toStoredBook())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongodb: iterate books: %w", err)
	}
	return books, nil
}
