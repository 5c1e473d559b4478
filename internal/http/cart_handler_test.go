package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Chadangdang/BookstoreApp/internal/cart"
	"github.com/Chadangdang/BookstoreApp/internal/catalog"
	"github.com/Chadangdang/BookstoreApp/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	books map[string]*domain.Book
}

func (f *fakeCatalog) GetBook(_ context.Context, id string) (*domain.Book, error) {
	book, ok := f.books[id]
	if !ok {
		return nil, catalog.ErrBookNotFound
	}
	copied := *book
	return &copied, nil
}

func newCartRouter(carts *cart.Store, books *fakeCatalog) chi.Router {
	handler := NewCartHandler(carts, books)

	r := chi.NewRouter()
	r.Use(SessionMiddleware)
	r.Get("/cart", handler.GetCart)
	r.Post("/cart/items", handler.AddItem)
	r.Put("/cart/items/{book_id}", handler.UpdateQuantity)
	r.Delete("/cart/items/{book_id}", handler.RemoveItem)
	r.Delete("/cart", handler.ClearCart)
	return r
}

func doCartRequest(t *testing.T, router chi.Router, method, target, sessionID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	if sessionID != "" {
		req.Header.Set(sessionHeader, sessionID)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeCartView(t *testing.T, rec *httptest.ResponseRecorder) CartViewDTO {
	t.Helper()
	var view CartViewDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	return view
}

func TestCartHandler_AddItem(t *testing.T) {
	books := &fakeCatalog{books: map[string]*domain.Book{
		"b1": {ID: "b1", Title: "Dune", Author: "Herbert", Price: 12.50, Stock: 3},
	}}
	router := newCartRouter(cart.NewStore(), books)

	rec := doCartRequest(t, router, http.MethodPost, "/cart/items", "s1", AddItemRequestDTO{BookID: "b1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	view := decodeCartView(t, rec)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "b1", view.Items[0].BookID)
	assert.Equal(t, 1, view.Items[0].Quantity)
	assert.Equal(t, 3, view.Items[0].Stock)
	assert.True(t, view.Items[0].CanIncrement)
	assert.InDelta(t, 12.50, view.Total, 0.001)
}

func TestCartHandler_AddItem_RepeatedAddsIncrement(t *testing.T) {
	books := &fakeCatalog{books: map[string]*domain.Book{
		"b1": {ID: "b1", Title: "Dune", Price: 12.50, Stock: 3},
	}}
	router := newCartRouter(cart.NewStore(), books)

	doCartRequest(t, router, http.MethodPost, "/cart/items", "s1", AddItemRequestDTO{BookID: "b1"})
	rec := doCartRequest(t, router, http.MethodPost, "/cart/items", "s1", AddItemRequestDTO{BookID: "b1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	view := decodeCartView(t, rec)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
}

func TestCartHandler_AddItem_SoldOut(t *testing.T) {
	books := &fakeCatalog{books: map[string]*domain.Book{
		"b1": {ID: "b1", Stock: 0},
	}}
	router := newCartRouter(cart.NewStore(), books)

	rec := doCartRequest(t, router, http.MethodPost, "/cart/items", "s1", AddItemRequestDTO{BookID: "b1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "sold_out", errResp.Code)
}

func TestCartHandler_AddItem_StockLimit(t *testing.T) {
	books := &fakeCatalog{books: map[string]*domain.Book{
		"b1": {ID: "b1", Stock: 1},
	}}
	router := newCartRouter(cart.NewStore(), books)

	doCartRequest(t, router, http.MethodPost, "/cart/items", "s1", AddItemRequestDTO{BookID: "b1"})
	rec := doCartRequest(t, router, http.MethodPost, "/cart/items", "s1", AddItemRequestDTO{BookID: "b1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "stock_limit", errResp.Code)
}

func TestCartHandler_AddItem_UnknownBook(t *testing.T) {
	router := newCartRouter(cart.NewStore(), &fakeCatalog{books: map[string]*domain.Book{}})

	rec := doCartRequest(t, router, http.MethodPost, "/cart/items", "s1", AddItemRequestDTO{BookID: "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartHandler_UpdateQuantity(t *testing.T) {
	books := &fakeCatalog{books: map[string]*domain.Book{
		"b1": {ID: "b1", Price: 10.00, Stock: 5},
	}}
	router := newCartRouter(cart.NewStore(), books)

	doCartRequest(t, router, http.MethodPost, "/cart/items", "s1", AddItemRequestDTO{BookID: "b1"})
	rec := doCartRequest(t, router, http.MethodPut, "/cart/items/b1", "s1", UpdateQuantityRequestDTO{Quantity: 4})
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeCartView(t, rec)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 4, view.Items[0].Quantity)
	assert.InDelta(t, 40.00, view.Total, 0.001)
}

func TestCartHandler_UpdateQuantity_RejectsBelowOne(t *testing.T) {
	books := &fakeCatalog{books: map[string]*domain.Book{
		"b1": {ID: "b1", Stock: 5},
	}}
	router := newCartRouter(cart.NewStore(), books)

	doCartRequest(t, router, http.MethodPost, "/cart/items", "s1", AddItemRequestDTO{BookID: "b1"})

	for _, quantity := range []int{0, -1} {
		rec := doCartRequest(t, router, http.MethodPut, "/cart/items/b1", "s1", UpdateQuantityRequestDTO{Quantity: quantity})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}

	// The line is untouched.
	rec := doCartRequest(t, router, http.MethodGet, "/cart", "s1", nil)
	view := decodeCartView(t, rec)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].Quantity)
}

func TestCartHandler_UpdateQuantity_OverStock(t *testing.T) {
	books := &fakeCatalog{books: map[string]*domain.Book{
		"b1": {ID: "b1", Stock: 2},
	}}
	router := newCartRouter(cart.NewStore(), books)

	doCartRequest(t, router, http.MethodPost, "/cart/items", "s1", AddItemRequestDTO{BookID: "b1"})
	rec := doCartRequest(t, router, http.MethodPut, "/cart/items/b1", "s1", UpdateQuantityRequestDTO{Quantity: 3})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCartHandler_UpdateQuantity_MissingLine(t *testing.T) {
	books := &fakeCatalog{books: map[string]*domain.Book{
		"b1": {ID: "b1", Stock: 5},
	}}
	router := newCartRouter(cart.NewStore(), books)

	rec := doCartRequest(t, router, http.MethodPut, "/cart/items/b1", "s1", UpdateQuantityRequestDTO{Quantity: 2})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartHandler_RemoveItem_Idempotent(t *testing.T) {
	books := &fakeCatalog{books: map[string]*domain.Book{
		"b1": {ID: "b1", Stock: 5},
	}}
	router := newCartRouter(cart.NewStore(), books)

	doCartRequest(t, router, http.MethodPost, "/cart/items", "s1", AddItemRequestDTO{BookID: "b1"})

	rec := doCartRequest(t, router, http.MethodDelete, "/cart/items/b1", "s1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCartView(t, rec).Items)

	// Removing again is not an error.
	rec = doCartRequest(t, router, http.MethodDelete, "/cart/items/b1", "s1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartHandler_SessionsAreIsolated(t *testing.T) {
	books := &fakeCatalog{books: map[string]*domain.Book{
		"b1": {ID: "b1", Stock: 5},
	}}
	router := newCartRouter(cart.NewStore(), books)

	doCartRequest(t, router, http.MethodPost, "/cart/items", "s1", AddItemRequestDTO{BookID: "b1"})

	rec := doCartRequest(t, router, http.MethodGet, "/cart", "s2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCartView(t, rec).Items)
}

func TestCartHandler_VanishedBookShowsZeroStock(t *testing.T) {
	books := &fakeCatalog{books: map[string]*domain.Book{
		"b1": {ID: "b1", Price: 5.00, Stock: 5},
	}}
	store := cart.NewStore()
	router := newCartRouter(store, books)

	doCartRequest(t, router, http.MethodPost, "/cart/items", "s1", AddItemRequestDTO{BookID: "b1"})
	delete(books.books, "b1")

	rec := doCartRequest(t, router, http.MethodGet, "/cart", "s1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeCartView(t, rec)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 0, view.Items[0].Stock)
	assert.False(t, view.Items[0].CanIncrement)
}

func TestSessionMiddleware_MintsSessionID(t *testing.T) {
	router := newCartRouter(cart.NewStore(), &fakeCatalog{books: map[string]*domain.Book{}})

	rec := doCartRequest(t, router, http.MethodGet, "/cart", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(sessionHeader))
}
