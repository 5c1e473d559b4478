package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Chadangdang/BookstoreApp/internal/catalog"
	"github.com/Chadangdang/BookstoreApp/internal/checkout"
)

type CheckoutService interface {
	PlaceOrder(ctx context.Context, sessionID string, selected []string, email string) (*checkout.Receipt, error)
}

type CheckoutHandler struct {
	service CheckoutService
}

func NewCheckoutHandler(service CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

type CheckoutRequestDTO struct {
	Selected []string `json:"selected"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	receipt, err := h.service.PlaceOrder(ctx, getSessionID(ctx), req.Selected, getIdentity(ctx))
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptySelection):
			respondError(w, http.StatusBadRequest, "empty_selection", "select at least one cart line")
		case errors.Is(err, catalog.ErrInsufficientStock):
			respondError(w, http.StatusConflict, "insufficient_stock", err.Error())
		case errors.Is(err, catalog.ErrBookNotFound):
			respondError(w, http.StatusNotFound, "not_found", err.Error())
		default:
			// Remote failures are surfaced raw, not retried.
			respondError(w, http.StatusInternalServerError, "checkout_failed", err.Error())
		}
		return
	}

	respondJSON(w, http.StatusCreated, receipt)
}
