package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/Chadangdang/BookstoreApp/internal/catalog"
	"github.com/Chadangdang/BookstoreApp/internal/domain"
)

type mockBooks struct {
	m     sync.Mutex
	stock map[string]int
	err   error
}

func (m *mockBooks) GetBook(_ context.Context, id string) (*domain.Book, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	stock, ok := m.stock[id]
	if !ok {
		return nil, catalog.ErrBookNotFound
	}
	return &domain.Book{ID: id, Stock: stock}, nil
}

func (m *mockBooks) DecrementStock(_ context.Context, id string, quantity int) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	stock, ok := m.stock[id]
	if !ok {
		return catalog.ErrBookNotFound
	}
	if stock < quantity {
		return catalog.ErrInsufficientStock
	}
	m.stock[id] = stock - quantity
	return nil
}

type mockOrders struct {
	m       sync.Mutex
	seq     int
	created []*domain.Order
	err     error
}

func (m *mockOrders) NextOrderID(context.Context) (string, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.seq++
	return fmt.Sprintf("order%03d", m.seq), nil
}

func (m *mockOrders) CreateOrder(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, order)
	return nil
}

type mockEvents struct {
	m        sync.Mutex
	appended []*domain.Order
	err      error
}

func (m *mockEvents) AppendOrderPlaced(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.appended = append(m.appended, order)
	return nil
}

// mockTx snapshots the book stock and created orders before running fn and
// restores both when fn fails, mimicking a transaction abort.
type mockTx struct {
	books   *mockBooks
	orders  *mockOrders
	aborted bool
}

func (m *mockTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.books.m.Lock()
	stockSnapshot := make(map[string]int, len(m.books.stock))
	for k, v := range m.books.stock {
		stockSnapshot[k] = v
	}
	m.books.m.Unlock()

	m.orders.m.Lock()
	createdSnapshot := len(m.orders.created)
	m.orders.m.Unlock()

	if err := fn(ctx); err != nil {
		m.books.m.Lock()
		m.books.stock = stockSnapshot
		m.books.m.Unlock()

		m.orders.m.Lock()
		m.orders.created = m.orders.created[:createdSnapshot]
		m.orders.m.Unlock()

		m.aborted = true
		return err
	}
	return nil
}
