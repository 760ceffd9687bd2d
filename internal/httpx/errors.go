package httpx

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Renderer writes a named server-side template.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any) error
}

// HTTPError is an error that maps to a specific response status.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NotFound reports an absent resource.
func NotFound(message string, cause error) error {
	return &HTTPError{Status: http.StatusNotFound, Message: message, Err: cause}
}

// ErrorPage is the payload of the error template.
type ErrorPage struct {
	Title     string
	Status    int
	Message   string
	RequestID string
}

// ErrorHandler is the single sink for request failures: it logs them and
// renders the error page.
type ErrorHandler struct {
	logger *zap.Logger
	view   Renderer
}

func NewErrorHandler(logger *zap.Logger, view Renderer) *ErrorHandler {
	return &ErrorHandler{logger: logger, view: view}
}

func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	page := ErrorPage{
		Title:     "Error",
		Status:    http.StatusInternalServerError,
		Message:   "Something went wrong",
		RequestID: RequestIDFrom(r),
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		page.Status = httpErr.Status
		page.Message = httpErr.Message
	}

	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", page.Status),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", page.RequestID),
	}
	if page.Status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields...)
	} else {
		h.logger.Info("request rejected", fields...)
	}

	if rerr := h.view.Render(w, page.Status, "error", page); rerr != nil {
		h.logger.Error("render error page", zap.Error(rerr))
		http.Error(w, http.StatusText(page.Status), page.Status)
	}
}
