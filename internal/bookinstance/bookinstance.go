// Package bookinstance manages physical copies of catalog books: their
// storage, form validation and the HTML handlers that create, show,
// update and delete them.
package bookinstance

import (
	"errors"
	"time"

	"locallibrary/internal/book"
)

// ErrNotFound is returned when a book instance is not found.
var ErrNotFound = errors.New("book instance not found")

// Status is the availability of a copy.
type Status string

const (
	StatusAvailable   Status = "Available"
	StatusMaintenance Status = "Maintenance"
	StatusLoaned      Status = "Loaned"
	StatusReserved    Status = "Reserved"
)

// Statuses lists every status in display order.
func Statuses() []Status {
	return []Status{StatusAvailable, StatusMaintenance, StatusLoaned, StatusReserved}
}

// CSSClass is the style hint used when rendering the status.
func (s Status) CSSClass() string {
	switch s {
	case StatusAvailable:
		return "text-success"
	case StatusMaintenance:
		return "text-danger"
	default:
		return "text-warning"
	}
}

const dateLayout = "2006-01-02"

// BookInstance is a physical copy of a book.
type BookInstance struct {
	ID      string     `json:"id"`
	BookID  string     `json:"book_id"`
	Book    book.Book  `json:"book"`
	Imprint string     `json:"imprint"`
	Status  Status     `json:"status"`
	DueBack *time.Time `json:"due_back,omitempty"`
}

// URL is the location of the copy's detail page.
func (bi BookInstance) URL() string {
	return "/catalog/bookinstance/" + bi.ID
}

// BookURL is the location of the related book's page, resolved or not.
func (bi BookInstance) BookURL() string {
	return book.Book{ID: bi.BookID}.URL()
}

// DueBackFormatted renders the due date as e.g. "Oct 19, 2026".
func (bi BookInstance) DueBackFormatted() string {
	if bi.DueBack == nil {
		return ""
	}
	return bi.DueBack.Format("Jan 2, 2006")
}

// DueBackInput renders the due date for a date input.
func (bi BookInstance) DueBackInput() string {
	if bi.DueBack == nil {
		return ""
	}
	return bi.DueBack.Format(dateLayout)
}
