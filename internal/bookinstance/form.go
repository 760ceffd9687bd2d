package bookinstance

import (
	"fmt"
	"html"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validate *validator.Validate
	policy   = bluemonday.StrictPolicy()
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
}

// Form is the submitted book instance form, kept as raw strings so it can
// be redisplayed exactly as entered.
type Form struct {
	Book    string `form:"book" validate:"required"`
	Imprint string `form:"imprint" validate:"required"`
	Status  string `form:"status" validate:"omitempty,oneof=Available Maintenance Loaned Reserved"`
	DueBack string `form:"due_back" validate:"omitempty,datetime=2006-01-02"`
}

// FieldError is a validation failure tied to one form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseForm reads and sanitizes the form fields of r.
func ParseForm(r *http.Request) (Form, error) {
	if err := r.ParseForm(); err != nil {
		return Form{}, err
	}
	f := Form{
		Book:    r.PostFormValue("book"),
		Imprint: r.PostFormValue("imprint"),
		Status:  r.PostFormValue("status"),
		DueBack: r.PostFormValue("due_back"),
	}
	return f.Sanitize(), nil
}

// FormFromInstance pre-populates a form from a stored record.
func FormFromInstance(bi BookInstance) Form {
	return Form{
		Book:    bi.BookID,
		Imprint: bi.Imprint,
		Status:  string(bi.Status),
		DueBack: bi.DueBackInput(),
	}
}

// Sanitize trims every field and strips markup from the free text ones.
func (f Form) Sanitize() Form {
	return Form{
		Book:    sanitize(f.Book),
		Imprint: sanitize(f.Imprint),
		Status:  sanitize(f.Status),
		DueBack: strings.TrimSpace(f.DueBack),
	}
}

// sanitize keeps plain text only; output escaping is left to the templates.
func sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(strings.TrimSpace(s))))
}

// Validate returns one FieldError per failing rule, or nil.
func (f Form) Validate() []FieldError {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var errs []FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		errs = append(errs, FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() + ":" + fe.Tag() {
	case "book:required":
		return "Book must be specified"
	case "imprint:required":
		return "Imprint must be specified"
	case "due_back:datetime":
		return "Invalid date"
	case "status:oneof":
		return fmt.Sprintf("Status must be one of %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// Instance builds the record described by a valid form. id is empty for
// a new record and the existing identity for an update.
func (f Form) Instance(id string) BookInstance {
	bi := BookInstance{
		ID:      id,
		BookID:  f.Book,
		Imprint: f.Imprint,
		Status:  Status(f.Status),
	}
	if bi.Status == "" {
		bi.Status = StatusMaintenance
	}
	if f.DueBack != "" {
		if t, err := time.Parse(dateLayout, f.DueBack); err == nil {
			bi.DueBack = &t
		}
	}
	return bi
}
