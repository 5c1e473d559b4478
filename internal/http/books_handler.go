package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/Chadangdang/BookstoreApp/internal/catalog"
	"github.com/Chadangdang/BookstoreApp/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CatalogService interface {
	ListBooks(ctx context.Context) ([]*domain.Book, error)
	GetBook(ctx context.Context, id string) (*domain.Book, error)
}

type BooksHandler struct {
	catalog CatalogService
}

func NewBooksHandler(catalog CatalogService) *BooksHandler {
	return &BooksHandler{catalog: catalog}
}

func (h *BooksHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.catalog.ListBooks(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	if books == nil {
		books = []*domain.Book{}
	}
	respondJSON(w, http.StatusOK, books)
}

func (h *BooksHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.catalog.GetBook(r.Context(), chi.URLParam(r, "book_id"))
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "book not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, book)
}
