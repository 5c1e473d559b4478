package catalog

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Chadangdang/BookstoreApp/internal/domain"
	"golang.org/x/sync/singleflight"
)

type Service struct {
	repo  BookRepository
	cache BookCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo BookRepository, cache BookCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// ListBooks serves the catalog listing from the cache when possible. Cache
// failures degrade to the repository.
func (s *Service) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(listCacheKey, func() (interface{}, error) {

		books, err := s.cache.Get(ctx)
		if err == nil {
			return books, nil // list is in cache
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		books, errList := s.repo.ListBooks(ctx)
		if errList != nil {
			return nil, errList
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), books)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return books, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]*domain.Book), nil
}

// GetBook always reads through to the store: callers use it for live stock,
// which must be as fresh as a single round trip allows.
func (s *Service) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) DecrementStock(ctx context.Context, id string, quantity int) error {
	errDecrement := s.repo.DecrementStock(ctx, id, quantity)
	if errDecrement != nil {
		return errDecrement
	}

	invalidateCache(s)
	return nil
}

func invalidateCache(s *Service) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errInvalidate := s.cache.Delete(ctx)
	if errInvalidate != nil {
		log.Printf("cache invalidate error: %v \n", errInvalidate)
	}
}
