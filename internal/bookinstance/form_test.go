package bookinstance

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(errs []FieldError) []string {
	var out []string
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestForm_Validate(t *testing.T) {
	valid := Form{Book: "b1", Imprint: "Gollancz, 2011", Status: "Available", DueBack: "2026-10-19"}

	testCases := []struct {
		name   string
		mutate func(f *Form)
		fields []string
	}{
		{"valid", func(f *Form) {}, nil},
		{"due back omitted", func(f *Form) { f.DueBack = "" }, nil},
		{"status omitted", func(f *Form) { f.Status = "" }, nil},
		{"empty book", func(f *Form) { f.Book = "" }, []string{"book"}},
		{"empty imprint", func(f *Form) { f.Imprint = "" }, []string{"imprint"}},
		{"both empty", func(f *Form) { f.Book, f.Imprint = "", "" }, []string{"book", "imprint"}},
		{"malformed date", func(f *Form) { f.DueBack = "19/10/2026" }, []string{"due_back"}},
		{"impossible date", func(f *Form) { f.DueBack = "2026-02-30" }, []string{"due_back"}},
		{"unknown status", func(f *Form) { f.Status = "Lost" }, []string{"status"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := valid
			tc.mutate(&f)

			errs := f.Validate()

			assert.Equal(t, tc.fields, fieldsOf(errs))
			for _, e := range errs {
				assert.NotEmpty(t, e.Message)
			}
		})
	}
}

func TestForm_ValidateMessages(t *testing.T) {
	errs := Form{DueBack: "soon"}.Validate()

	require.Len(t, errs, 3)
	assert.Equal(t, "Book must be specified", errs[0].Message)
	assert.Equal(t, "Imprint must be specified", errs[1].Message)
	assert.Equal(t, "Invalid date", errs[2].Message)
}

func TestForm_Sanitize(t *testing.T) {
	f := Form{
		Book:    "  b1 ",
		Imprint: "  <b>Penguin</b> & Sons <script>alert(1)</script> ",
		Status:  " Loaned ",
		DueBack: " 2026-01-02 ",
	}.Sanitize()

	assert.Equal(t, "b1", f.Book)
	assert.Equal(t, "Penguin & Sons", f.Imprint)
	assert.Equal(t, "Loaned", f.Status)
	assert.Equal(t, "2026-01-02", f.DueBack)
}

func TestForm_SanitizeMarkupOnlyIsEmpty(t *testing.T) {
	f := Form{Book: "b1", Imprint: "   <i></i>  "}.Sanitize()

	assert.Equal(t, []string{"imprint"}, fieldsOf(f.Validate()))
}

func TestForm_Instance(t *testing.T) {
	t.Run("new record defaults status", func(t *testing.T) {
		bi := Form{Book: "b1", Imprint: "Tor"}.Instance("")

		assert.Empty(t, bi.ID)
		assert.Equal(t, "b1", bi.BookID)
		assert.Equal(t, StatusMaintenance, bi.Status)
		assert.Nil(t, bi.DueBack)
	})

	t.Run("keeps identity and date", func(t *testing.T) {
		bi := Form{Book: "b1", Imprint: "Tor", Status: "Loaned", DueBack: "2026-10-19"}.Instance("id-7")

		assert.Equal(t, "id-7", bi.ID)
		assert.Equal(t, StatusLoaned, bi.Status)
		require.NotNil(t, bi.DueBack)
		assert.True(t, bi.DueBack.Equal(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))
	})
}

func TestFormFromInstance(t *testing.T) {
	due := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	bi := BookInstance{ID: "x", BookID: "b1", Imprint: "Tor", Status: StatusReserved, DueBack: &due}

	f := FormFromInstance(bi)

	assert.Equal(t, Form{Book: "b1", Imprint: "Tor", Status: "Reserved", DueBack: "2026-03-04"}, f)
	assert.Equal(t, bi.Imprint, f.Instance("x").Imprint)
}

func TestParseForm(t *testing.T) {
	body := url.Values{
		"book":     {" b1 "},
		"imprint":  {"Tor <em>2001</em>"},
		"status":   {"Available"},
		"due_back": {""},
	}
	r := httptest.NewRequest(http.MethodPost, "/catalog/bookinstance/create", strings.NewReader(body.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	f, err := ParseForm(r)

	require.NoError(t, err)
	assert.Equal(t, Form{Book: "b1", Imprint: "Tor 2001", Status: "Available"}, f)
}
