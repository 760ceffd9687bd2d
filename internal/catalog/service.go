// Package catalog composes the pages that span books and their copies.
package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"

	"locallibrary/internal/book"
	"locallibrary/internal/bookinstance"
)

// Books is the book side of the catalog.
type Books interface {
	Get(ctx context.Context, id string) (book.Book, error)
	Count(ctx context.Context) (int, error)
}

// Copies is the book instance side of the catalog.
type Copies interface {
	ListByBook(ctx context.Context, bookID string) ([]bookinstance.BookInstance, error)
	CountAll(ctx context.Context) (int, error)
	CountAvailable(ctx context.Context) (int, error)
}

// Summary holds the record counts shown on the home page.
type Summary struct {
	BookCount      int
	InstanceCount  int
	AvailableCount int
}

type Service struct {
	books  Books
	copies Copies
}

func NewService(books Books, copies Copies) *Service {
	return &Service{books: books, copies: copies}
}

// Summary gathers every count in parallel.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sum.BookCount, err = s.books.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		sum.InstanceCount, err = s.copies.CountAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		sum.AvailableCount, err = s.copies.CountAvailable(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return sum, nil
}

// BookWithCopies returns a book and the copies that reference it.
func (s *Service) BookWithCopies(ctx context.Context, id string) (book.Book, []bookinstance.BookInstance, error) {
	var (
		b      book.Book
		copies []bookinstance.BookInstance
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		b, err = s.books.Get(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		copies, err = s.copies.ListByBook(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return book.Book{}, nil, err
	}
	return b, copies, nil
}
