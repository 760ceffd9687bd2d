package bookinstance

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"locallibrary/internal/book"
)

// Service provides book instance business logic.
type Service struct {
	repo  Repository
	books BookCatalog
}

// NewService creates a new book instance service.
func NewService(repo Repository, books BookCatalog) *Service {
	return &Service{repo: repo, books: books}
}

// List returns every copy with its book resolved.
func (s *Service) List(ctx context.Context) ([]BookInstance, error) {
	return s.repo.List(ctx)
}

// ListByBook returns the copies of one book.
func (s *Service) ListByBook(ctx context.Context, bookID string) ([]BookInstance, error) {
	return s.repo.ListByBook(ctx, bookID)
}

func (s *Service) Get(ctx context.Context, id string) (BookInstance, error) {
	return s.repo.Get(ctx, id)
}

// Books returns the books a copy can belong to, ordered by title.
func (s *Service) Books(ctx context.Context) ([]book.Book, error) {
	return s.books.ListSorted(ctx)
}

// LoadForUpdate fetches the record and the book list concurrently. The
// first failure cancels the other fetch and is returned.
func (s *Service) LoadForUpdate(ctx context.Context, id string) (BookInstance, []book.Book, error) {
	var (
		bi    BookInstance
		books []book.Book
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bi, err = s.repo.Get(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		books, err = s.books.ListSorted(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return BookInstance{}, nil, err
	}
	return bi, books, nil
}

// Create persists a new copy and sets its ID.
func (s *Service) Create(ctx context.Context, bi *BookInstance) error {
	bi.ID = ""
	if err := s.repo.Create(ctx, bi); err != nil {
		return fmt.Errorf("create book instance: %w", err)
	}
	return nil
}

// Update replaces the copy identified by bi.ID in place.
func (s *Service) Update(ctx context.Context, bi BookInstance) error {
	if bi.ID == "" {
		return ErrNotFound
	}
	if err := s.repo.Update(ctx, bi); err != nil {
		return fmt.Errorf("update book instance %s: %w", bi.ID, err)
	}
	return nil
}

// Delete removes the copy and returns it as it was before removal.
func (s *Service) Delete(ctx context.Context, id string) (BookInstance, error) {
	bi, err := s.repo.Get(ctx, id)
	if err != nil {
		return BookInstance{}, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return BookInstance{}, fmt.Errorf("delete book instance %s: %w", id, err)
	}
	return bi, nil
}

// CountAll returns the number of copies.
func (s *Service) CountAll(ctx context.Context) (int, error) {
	return s.repo.Count(ctx, "")
}

// CountAvailable returns the number of copies that can be borrowed.
func (s *Service) CountAvailable(ctx context.Context) (int, error) {
	return s.repo.Count(ctx, StatusAvailable)
}
