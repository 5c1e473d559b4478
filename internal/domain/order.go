package domain

import "time"

// Order is an immutable record of one purchased cart line. The id carries
// the human-readable order number ("order001", "order002", ...).
type Order struct {
	ID        string    `bson:"_id" json:"id"`
	BookID    string    `bson:"bookcode" json:"book_id"`
	Email     string    `bson:"email" json:"email"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
