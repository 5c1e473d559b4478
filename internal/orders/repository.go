package orders

import (
	"context"

	"github.com/Chadangdang/BookstoreApp/internal/domain"
)

// OrderRepository defines the interface for order data operations
// Consumers define this interface, not the MongoDB implementation
type OrderRepository interface {
	// NextOrderID allocates the next human-readable order number
	// ("order001", "order002", ...). Allocation is atomic, so two
	// concurrent checkouts never receive the same number.
	NextOrderID(ctx context.Context) (string, error)
	CreateOrder(ctx context.Context, order *domain.Order) error
	ListByEmail(ctx context.Context, email string) ([]*domain.Order, error)
}
