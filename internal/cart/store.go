package cart

import (
	"errors"
	"sync"
	"time"

	"github.com/Chadangdang/BookstoreApp/internal/domain"
)

var (
	ErrLineNotFound    = errors.New("line not found in cart")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Store holds the session-scoped carts. It is the sole owner of cart state:
// every mutation goes through it, and readers always see the latest write.
// Carts are process-local and are not persisted across restarts.
type Store struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartLine // sessionID -> lines in insertion order
}

func NewStore() *Store {
	return &Store{
		carts: make(map[string][]domain.CartLine),
	}
}

// Add puts one unit of the given book into the session's cart: an existing
// line has its quantity incremented by 1, otherwise a new line with
// quantity 1 is appended. Stock validation is the caller's responsibility.
func (s *Store) Add(sessionID string, line domain.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[sessionID]
	for i := range lines {
		if lines[i].BookID == line.BookID {
			lines[i].Quantity++
			return
		}
	}

	line.Quantity = 1
	line.AddedAt = time.Now()
	s.carts[sessionID] = append(lines, line)
}

// UpdateQuantity replaces the quantity of the line matching bookID.
// Quantities below 1 are rejected; a decrement to zero must go through
// Remove instead.
func (s *Store) UpdateQuantity(sessionID, bookID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[sessionID]
	for i := range lines {
		if lines[i].BookID == bookID {
			lines[i].Quantity = quantity
			return nil
		}
	}
	return ErrLineNotFound
}

// Remove deletes the line matching bookID. Removing an absent line is a
// no-op, so Remove is idempotent.
func (s *Store) Remove(sessionID, bookID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[sessionID]
	for i := range lines {
		if lines[i].BookID == bookID {
			s.carts[sessionID] = append(lines[:i], lines[i+1:]...)
			return
		}
	}
}

// Clear empties the session's cart unconditionally.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

// Lines returns a snapshot copy of the session's cart in insertion order.
func (s *Store) Lines(sessionID string) []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := s.carts[sessionID]
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out
}

// Line returns the session's line for bookID, if present.
func (s *Store) Line(sessionID, bookID string) (domain.CartLine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, line := range s.carts[sessionID] {
		if line.BookID == bookID {
			return line, true
		}
	}
	return domain.CartLine{}, false
}
