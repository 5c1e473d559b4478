package domain

import "time"

// CartLine is one distinct book selected by the shopper. At most one line
// per book id exists within a session's cart; Quantity is always >= 1.
type CartLine struct {
	BookID   string    `json:"book_id"`
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	Price    float64   `json:"price"`
	Cover    string    `json:"cover"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// Subtotal is the line's contribution to the cart total.
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}
