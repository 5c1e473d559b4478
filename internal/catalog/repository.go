package catalog

import (
	"context"
	"errors"

	"github.com/Chadangdang/BookstoreApp/internal/domain"
)

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// BookRepository defines the interface for catalog data operations
// Consumers define this interface, not the MongoDB implementation
type BookRepository interface {
	ListBooks(ctx context.Context) ([]*domain.Book, error)
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	DecrementStock(ctx context.Context, id string, quantity int) error
}
