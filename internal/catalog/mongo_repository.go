package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Chadangdang/BookstoreApp/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) BookRepository {
	return &mongoRepository{
		collection: db.Collection("books"),
	}
}

func (m *mongoRepository) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	cursor, err := m.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer cursor.Close(ctx)

	var books []*domain.Book
	if err := cursor.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("failed to decode books: %w", err)
	}

	return books, nil
}

func (m *mongoRepository) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	var book domain.Book

	filter := bson.M{"_id": id}
	err := m.collection.FindOne(ctx, filter).Decode(&book)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return &book, nil
}

// DecrementStock atomically subtracts quantity from the book's stock, but
// only when enough stock remains. The guard keeps concurrent checkouts from
// driving stock negative.
func (m *mongoRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	filter := bson.M{
		"_id":   id,
		"stock": bson.M{"$gte": quantity},
	}
	update := bson.M{
		"$inc": bson.M{"stock": -quantity},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	if result.MatchedCount == 0 {
		// Distinguish a missing book from a stock shortfall.
		if _, getErr := m.GetBook(ctx, id); errors.Is(getErr, ErrBookNotFound) {
			return ErrBookNotFound
		}
		return ErrInsufficientStock
	}

	return nil
}
