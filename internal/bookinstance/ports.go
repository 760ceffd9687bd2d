package bookinstance

import (
	"context"

	"locallibrary/internal/book"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=bookinstance

// Repository defines the contract for book instance storage. Reads
// resolve the related book.
type Repository interface {
	List(ctx context.Context) ([]BookInstance, error)
	ListByBook(ctx context.Context, bookID string) ([]BookInstance, error)
	Get(ctx context.Context, id string) (BookInstance, error)
	// Create stores bi and sets its ID.
	Create(ctx context.Context, bi *BookInstance) error
	// Update replaces the record with bi.ID; ErrNotFound when absent.
	Update(ctx context.Context, bi BookInstance) error
	Delete(ctx context.Context, id string) error
	// Count counts copies with the given status, or all when status is empty.
	Count(ctx context.Context, status Status) (int, error)
}

// BookCatalog supplies the books offered by the instance form.
type BookCatalog interface {
	ListSorted(ctx context.Context) ([]book.Book, error)
}
