package catalog

import (
	"context"
	"errors"

	"github.com/Chadangdang/BookstoreApp/internal/domain"
)

type BookCache interface {
	Get(ctx context.Context) ([]*domain.Book, error)
	Set(ctx context.Context, books []*domain.Book) error
	Delete(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
