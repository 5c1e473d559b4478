package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Chadangdang/BookstoreApp/internal/catalog"
	"github.com/Chadangdang/BookstoreApp/internal/domain"
)

type OrdersLister interface {
	ListByEmail(ctx context.Context, email string) ([]*domain.Order, error)
}

type OrdersHandler struct {
	orders  OrdersLister
	catalog BookGetter
}

func NewOrdersHandler(orders OrdersLister, catalog BookGetter) *OrdersHandler {
	return &OrdersHandler{
		orders:  orders,
		catalog: catalog,
	}
}

type PurchaseDTO struct {
	OrderID   string    `json:"order_id"`
	BookID    string    `json:"book_id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Cover     string    `json:"cover"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orders, err := h.orders.ListByEmail(ctx, getIdentity(ctx))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	dtos := make([]PurchaseDTO, 0, len(orders))
	for _, o := range orders {
		dto := PurchaseDTO{
			OrderID:   o.ID,
			BookID:    o.BookID,
			Quantity:  o.Quantity,
			CreatedAt: o.CreatedAt,
		}

		// Join with catalog data; a deleted book leaves the purchase row
		// with just its id.
		book, bookErr := h.catalog.GetBook(ctx, o.BookID)
		if bookErr != nil && !errors.Is(bookErr, catalog.ErrBookNotFound) {
			respondError(w, http.StatusInternalServerError, "internal_error", bookErr.Error())
			return
		}
		if bookErr == nil {
			dto.Title = book.Title
			dto.Author = book.Author
			dto.Cover = book.Cover
		}

		dtos = append(dtos, dto)
	}

	respondJSON(w, http.StatusOK, dtos)
}
