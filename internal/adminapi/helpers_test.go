package adminapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

func newTestContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestParsePaginationDefaults(t *testing.T) {
	c, _ := newTestContext(t, "/")
	page, pageSize := parsePagination(c)
	if page != 1 || pageSize != 20 {
		t.Errorf("expected defaults 1/20, got %d/%d", page, pageSize)
	}
}

func TestParsePaginationBounds(t *testing.T) {
	c, _ := newTestContext(t, "/?page=3&pageSize=50")
	page, pageSize := parsePagination(c)
	if page != 3 || pageSize != 50 {
		t.Errorf("expected 3/50, got %d/%d", page, pageSize)
	}

	c, _ = newTestContext(t, "/?page=-1&pageSize=9999")
	page, pageSize = parsePagination(c)
	if page != 1 || pageSize != 20 {
		t.Errorf("out-of-range params must fall back to defaults, got %d/%d", page, pageSize)
	}
}

func TestFailEnvelope(t *testing.T) {
	c, rec := newTestContext(t, "/")
	if err := fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"code":"INVALID_REQUEST"`) {
		t.Errorf("missing error code in %s", body)
	}
}

func TestPagedEnvelope(t *testing.T) {
	c, rec := newTestContext(t, "/")
	if err := paged(c, []string{"a", "b"}, 12, 2, 5); err != nil {
		t.Fatal(err)
	}
	body := rec.Body.String()
	for _, want := range []string{`"total":12`, `"page":2`, `"page_size":5`} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %s in %s", want, body)
		}
	}
}

func TestHandleValidationErrorFieldMap(t *testing.T) {
	type payload struct {
		Name  string `validate:"required"`
		Price int64  `validate:"required,gt=0"`
	}
	err := validator.New().Struct(&payload{})
	if err == nil {
		t.Fatal("expected validation failure")
	}

	c, rec := newTestContext(t, "/")
	if herr := handleValidationError(c, err); herr != nil {
		t.Fatal(herr)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"Name":"required"`) {
		t.Errorf("expected per-field detail, got %s", body)
	}
}
