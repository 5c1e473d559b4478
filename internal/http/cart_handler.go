package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Chadangdang/BookstoreApp/internal/cart"
	"github.com/Chadangdang/BookstoreApp/internal/catalog"
	"github.com/Chadangdang/BookstoreApp/internal/domain"
	"github.com/go-chi/chi/v5"
)

// BookGetter is the slice of the catalog the cart handler needs for stock
// validation and live stock display.
type BookGetter interface {
	GetBook(ctx context.Context, id string) (*domain.Book, error)
}

type CartHandler struct {
	carts   *cart.Store
	catalog BookGetter
}

func NewCartHandler(carts *cart.Store, catalog BookGetter) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
	}
}

type AddItemRequestDTO struct {
	BookID string `json:"book_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartLineDTO struct {
	BookID       string  `json:"book_id"`
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	Price        float64 `json:"price"`
	Cover        string  `json:"cover"`
	Quantity     int     `json:"quantity"`
	Stock        int     `json:"stock"`
	CanIncrement bool    `json:"can_increment"`
}

type CartViewDTO struct {
	Items []CartLineDTO `json:"items"`
	Total float64       `json:"total"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.cartView(r.Context(), getSessionID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := getSessionID(ctx)

	// Parse request body
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.BookID == "" {
		respondError(w, http.StatusBadRequest, "invalid_book_id", "book_id is required")
		return
	}

	// Validate against live stock before touching the cart; the store
	// itself never checks stock.
	book, err := h.catalog.GetBook(ctx, req.BookID)
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "book not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	if book.Stock == 0 {
		respondError(w, http.StatusConflict, "sold_out", "this book is out of stock")
		return
	}
	if line, ok := h.carts.Line(sessionID, req.BookID); ok && line.Quantity >= book.Stock {
		respondError(w, http.StatusConflict, "stock_limit",
			fmt.Sprintf("you can't add more than %d", book.Stock))
		return
	}

	h.carts.Add(sessionID, domain.CartLine{
		BookID: book.ID,
		Title:  book.Title,
		Author: book.Author,
		Price:  book.Price,
		Cover:  book.Cover,
	})

	view, err := h.cartView(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, view)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := getSessionID(ctx)

	bookID := chi.URLParam(r, "book_id")

	// Parse request body
	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// Validate request
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity",
			"quantity must be at least 1; remove the line instead")
		return
	}

	book, err := h.catalog.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "book not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	if req.Quantity > book.Stock {
		respondError(w, http.StatusConflict, "stock_limit",
			fmt.Sprintf("you can't add more than %d", book.Stock))
		return
	}

	if err := h.carts.UpdateQuantity(sessionID, bookID, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "line not found in cart")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
		return
	}

	view, err := h.cartView(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := getSessionID(ctx)

	h.carts.Remove(sessionID, chi.URLParam(r, "book_id"))

	view, err := h.cartView(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	h.carts.Clear(sessionID)

	respondJSON(w, http.StatusOK, CartViewDTO{Items: []CartLineDTO{}})
}

// cartView joins the session's lines with live stock. A line whose book
// document has vanished shows stock 0; the stock read is point-in-time and
// goes stale immediately, which callers accept.
func (h *CartHandler) cartView(ctx context.Context, sessionID string) (*CartViewDTO, error) {
	lines := h.carts.Lines(sessionID)

	view := &CartViewDTO{Items: make([]CartLineDTO, 0, len(lines))}
	for _, line := range lines {
		stock := 0
		book, err := h.catalog.GetBook(ctx, line.BookID)
		if err != nil && !errors.Is(err, catalog.ErrBookNotFound) {
			return nil, err
		}
		if err == nil {
			stock = book.Stock
		}

		view.Items = append(view.Items, CartLineDTO{
			BookID:       line.BookID,
			Title:        line.Title,
			Author:       line.Author,
			Price:        line.Price,
			Cover:        line.Cover,
			Quantity:     line.Quantity,
			Stock:        stock,
			CanIncrement: line.Quantity < stock,
		})
		view.Total += line.Subtotal()
	}

	return view, nil
}
