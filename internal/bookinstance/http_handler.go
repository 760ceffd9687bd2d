package bookinstance

import (
	"errors"
	"net/http"

	"locallibrary/internal/book"
	"locallibrary/internal/httpx"
)

const listURL = "/catalog/bookinstances"

// ErrorReporter is the shared sink for failed requests.
type ErrorReporter interface {
	Handle(w http.ResponseWriter, r *http.Request, err error)
}

type HTTPHandler struct {
	service *Service
	view    httpx.Renderer
	errs    ErrorReporter
}

func NewHTTPHandler(service *Service, view httpx.Renderer, errs ErrorReporter) *HTTPHandler {
	return &HTTPHandler{service: service, view: view, errs: errs}
}

type listPage struct {
	Title     string
	Instances []BookInstance
}

type instancePage struct {
	Title    string
	Instance BookInstance
}

type formPage struct {
	Title    string
	Books    []book.Book
	Form     Form
	Statuses []Status
	Errors   []FieldError
}

func (h *HTTPHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if err := h.view.Render(w, status, name, data); err != nil {
		h.errs.Handle(w, r, err)
	}
}

func notFound(err error) error {
	return httpx.NotFound("Book copy not found", err)
}

// List handles GET /catalog/bookinstances
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	instances, err := h.service.List(r.Context())
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "bookinstance_list", listPage{
		Title:     "Book Instance List",
		Instances: instances,
	})
}

// Detail handles GET /catalog/bookinstance/{id}
func (h *HTTPHandler) Detail(w http.ResponseWriter, r *http.Request) {
	bi, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			err = notFound(err)
		}
		h.errs.Handle(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "bookinstance_detail", instancePage{
		Title:    "Copy: " + bi.Book.Title,
		Instance: bi,
	})
}

// CreateForm handles GET /catalog/bookinstance/create
func (h *HTTPHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, "Create BookInstance", Form{}, nil)
}

// Create handles POST /catalog/bookinstance/create
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	if errs := form.Validate(); errs != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "Create BookInstance", form, errs)
		return
	}

	bi := form.Instance("")
	if err := h.service.Create(r.Context(), &bi); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	http.Redirect(w, r, bi.URL(), http.StatusSeeOther)
}

// DeleteForm handles GET /catalog/bookinstance/{id}/delete
func (h *HTTPHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	bi, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Redirect(w, r, listURL, http.StatusFound)
			return
		}
		h.errs.Handle(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "bookinstance_delete", instancePage{
		Title:    "Delete BookInstance",
		Instance: bi,
	})
}

// Delete handles POST /catalog/bookinstance/{id}/delete
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	bi, err := h.service.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Redirect(w, r, listURL, http.StatusSeeOther)
			return
		}
		h.errs.Handle(w, r, err)
		return
	}
	http.Redirect(w, r, bi.BookURL(), http.StatusSeeOther)
}

// UpdateForm handles GET /catalog/bookinstance/{id}/update
func (h *HTTPHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	bi, books, err := h.service.LoadForUpdate(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			err = notFound(err)
		}
		h.errs.Handle(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "bookinstance_form", formPage{
		Title:    "Update BookInstance",
		Books:    books,
		Form:     FormFromInstance(bi),
		Statuses: Statuses(),
	})
}

// Update handles POST /catalog/bookinstance/{id}/update
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	if errs := form.Validate(); errs != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "Update BookInstance", form, errs)
		return
	}

	bi := form.Instance(r.PathValue("id"))
	if err := h.service.Update(r.Context(), bi); err != nil {
		if errors.Is(err, ErrNotFound) {
			err = notFound(err)
		}
		h.errs.Handle(w, r, err)
		return
	}
	http.Redirect(w, r, bi.URL(), http.StatusSeeOther)
}

func (h *HTTPHandler) parseForm(w http.ResponseWriter, r *http.Request) (Form, bool) {
	form, err := ParseForm(r)
	if err != nil {
		h.errs.Handle(w, r, &httpx.HTTPError{Status: http.StatusBadRequest, Message: "Malformed form submission", Err: err})
		return Form{}, false
	}
	return form, true
}

func (h *HTTPHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, title string, form Form, errs []FieldError) {
	books, err := h.service.Books(r.Context())
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	h.render(w, r, status, "bookinstance_form", formPage{
		Title:    title,
		Books:    books,
		Form:     form,
		Statuses: Statuses(),
		Errors:   errs,
	})
}
