package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Chadangdang/BookstoreApp/internal/cart"
	"github.com/Chadangdang/BookstoreApp/internal/domain"
)

// Consumers define these interfaces, not the implementations.

type BookStocker interface {
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	DecrementStock(ctx context.Context, id string, quantity int) error
}

type OrderWriter interface {
	NextOrderID(ctx context.Context) (string, error)
	CreateOrder(ctx context.Context, order *domain.Order) error
}

type EventAppender interface {
	AppendOrderPlaced(ctx context.Context, order *domain.Order) error
}

// TxRunner executes fn so that every store write issued through the passed
// context commits or aborts as one unit.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Receipt summarizes one successful checkout.
type Receipt struct {
	Orders []*domain.Order `json:"orders"`
	Total  float64         `json:"total"`
}

// Service converts a cart selection into persisted orders and stock
// decrements, then reconciles the cart store.
type Service struct {
	carts  *cart.Store
	books  BookStocker
	orders OrderWriter
	events EventAppender
	tx     TxRunner
}

func NewService(carts *cart.Store, books BookStocker, orders OrderWriter, events EventAppender, tx TxRunner) *Service {
	return &Service{
		carts:  carts,
		books:  books,
		orders: orders,
		events: events,
		tx:     tx,
	}
}

// PlaceOrder checks out the selected cart lines for the given purchaser
// identity. All stock decrements and order inserts for the selection happen
// inside a single transaction: either every selected line is purchased or
// none is. Selected lines are removed from the cart on success; unselected
// lines are left untouched.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, selected []string, email string) (*Receipt, error) {
	if len(selected) == 0 {
		return nil, ErrEmptySelection
	}

	sel := make(map[string]bool, len(selected))
	for _, id := range selected {
		sel[id] = true
	}

	// Walk the cart in order, picking the selected lines. Selected ids with
	// no matching line are ignored.
	lines := s.carts.Lines(sessionID)
	picked := make([]domain.CartLine, 0, len(selected))
	for _, line := range lines {
		if sel[line.BookID] {
			picked = append(picked, line)
		}
	}
	if len(picked) == 0 {
		return nil, ErrEmptySelection
	}

	var placed []*domain.Order
	errTx := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		placed = placed[:0] // transaction callbacks may retry
		for _, line := range picked {
			if err := s.books.DecrementStock(txCtx, line.BookID, line.Quantity); err != nil {
				return fmt.Errorf("failed to decrement stock for %s: %w", line.BookID, err)
			}

			orderID, err := s.orders.NextOrderID(txCtx)
			if err != nil {
				return err
			}

			order := &domain.Order{
				ID:        orderID,
				BookID:    line.BookID,
				Email:     email,
				Quantity:  line.Quantity,
				CreatedAt: time.Now().UTC(),
			}
			if err := s.orders.CreateOrder(txCtx, order); err != nil {
				return fmt.Errorf("failed to create order for %s: %w", line.BookID, err)
			}

			placed = append(placed, order)
		}
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}

	// Event delivery is asynchronous and at-least-once via the outbox; an
	// append failure must not fail an already-committed checkout.
	for _, order := range placed {
		if err := s.events.AppendOrderPlaced(ctx, order); err != nil {
			log.Printf("failed to append order event %s: %v", order.ID, err)
		}
	}

	var total float64
	for _, line := range picked {
		total += line.Subtotal()
		s.carts.Remove(sessionID, line.BookID)
	}

	return &Receipt{Orders: placed, Total: total}, nil
}

// CanIncrement reports whether the session's line for bookID may grow by
// one, judged against live stock. The answer is advisory: stock can change
// between this read and any later write, and checkout re-checks with an
// atomic guard.
func (s *Service) CanIncrement(ctx context.Context, sessionID, bookID string) (bool, error) {
	book, err := s.books.GetBook(ctx, bookID)
	if err != nil {
		return false, err
	}

	line, ok := s.carts.Line(sessionID, bookID)
	if !ok {
		return book.Stock > 0, nil
	}
	return line.Quantity < book.Stock, nil
}
