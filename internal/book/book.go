package book

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// Book is a catalog title. Physical copies are tracked as book instances.
type Book struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Author  string `json:"author,omitempty"`
	Summary string `json:"summary,omitempty"`
	ISBN    string `json:"isbn,omitempty"`
}

// URL is the location of the book's detail page.
func (b Book) URL() string {
	return "/catalog/book/" + b.ID
}

// Document is the stored shape of a book in the document store.
type Document struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Title   string             `bson:"title"`
	Author  string             `bson:"author,omitempty"`
	Summary string             `bson:"summary,omitempty"`
	ISBN    string             `bson:"isbn,omitempty"`
}

// Book converts the stored document into its domain form.
func (d Document) Book() Book {
	return Book{
		ID:      d.ID.Hex(),
		Title:   d.Title,
		Author:  d.Author,
		Summary: d.Summary,
		ISBN:    d.ISBN,
	}
}
