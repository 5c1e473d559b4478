package domain

// Book is one title in the catalog, stored as a document in the "books"
// collection. Stock is the remaining purchasable count.
type Book struct {
	ID        string  `bson:"_id" json:"id"`
	Title     string  `bson:"title" json:"title"`
	Author    string  `bson:"author" json:"author"`
	Publisher string  `bson:"publisher" json:"publisher"`
	ISBN      string  `bson:"isbn" json:"isbn"`
	Price     float64 `bson:"price" json:"price"`
	Stock     int     `bson:"stock" json:"stock"`
	Cover     string  `bson:"cover" json:"cover"`
}
