package catalog

import (
	"errors"
	"net/http"

	"locallibrary/internal/book"
	"locallibrary/internal/bookinstance"
	"locallibrary/internal/httpx"
)

type HTTPHandler struct {
	svc  *Service
	view httpx.Renderer
	errs bookinstance.ErrorReporter
}

func NewHTTPHandler(svc *Service, view httpx.Renderer, errs bookinstance.ErrorReporter) *HTTPHandler {
	return &HTTPHandler{svc: svc, view: view, errs: errs}
}

type indexPage struct {
	Title string
	Summary
}

type bookPage struct {
	Title     string
	Book      book.Book
	Instances []bookinstance.BookInstance
}

// Index handles GET /catalog
func (h *HTTPHandler) Index(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summary(r.Context())
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	if err := h.view.Render(w, http.StatusOK, "index", indexPage{Title: "Local Library Home", Summary: sum}); err != nil {
		h.errs.Handle(w, r, err)
	}
}

// BookDetail handles GET /catalog/book/{id}
func (h *HTTPHandler) BookDetail(w http.ResponseWriter, r *http.Request) {
	b, copies, err := h.svc.BookWithCopies(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			err = httpx.NotFound("Book not found", err)
		}
		h.errs.Handle(w, r, err)
		return
	}
	page := bookPage{Title: "Title: " + b.Title, Book: b, Instances: copies}
	if err := h.view.Render(w, http.StatusOK, "book_detail", page); err != nil {
		h.errs.Handle(w, r, err)
	}
}
