package narrative

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ehr/formulation/internal/platform/auth"
)

func newTestHandler(t *testing.T) (*Handler, *echo.Echo) {
	return NewHandler(newTestService(t)), echo.New()
}

func postJSON(e *echo.Echo, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func expectHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	if he.Code != code {
		t.Errorf("expected %d, got %d", code, he.Code)
	}
}

const testSelection = `[{"text":"worry most days (1)","section":"A"},{"text":"restlessness (2)","section":"A"}]`

func TestHandler_Generate(t *testing.T) {
	h, e := newTestHandler(t)
	c, rec := postJSON(e, "/", `{"selection":`+testSelection+`}`)
	c.SetParamNames("key")
	c.SetParamValues("TEST")
	if err := h.Generate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var res Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(res.Text, "**Test Summary** ") {
		t.Errorf("expected markup to be kept, got %q", res.Text)
	}
	if !res.Met || res.Severity != "Mild" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestHandler_Generate_StripMarkup(t *testing.T) {
	h, e := newTestHandler(t)
	for _, tc := range []struct {
		name, target, body string
	}{
		{"body", "/", `{"markup":"strip","selection":` + testSelection + `}`},
		{"query", "/?markup=strip", `{"selection":` + testSelection + `}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := postJSON(e, tc.target, tc.body)
			c.SetParamNames("key")
			c.SetParamValues("TEST")
			if err := h.Generate(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Contains(rec.Body.String(), "**") {
				t.Errorf("expected markup stripped, got %s", rec.Body.String())
			}
		})
	}
}

func TestHandler_Generate_Errors(t *testing.T) {
	h, e := newTestHandler(t)
	tests := []struct {
		name string
		key  string
		body string
		code int
	}{
		{"unknown disorder", "NOPE", `{"selection":[]}`, http.StatusNotFound},
		{"malformed body", "TEST", `{"selection":`, http.StatusBadRequest},
		{"bad markup mode", "TEST", `{"markup":"html","selection":[]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := postJSON(e, "/", tt.body)
			c.SetParamNames("key")
			c.SetParamValues(tt.key)
			expectHTTPError(t, h.Generate(c), tt.code)
		})
	}
}

func TestHandler_GenerateBatch(t *testing.T) {
	h, e := newTestHandler(t)
	body := `{"markup":"strip","requests":[{"disorder":"TEST","selection":` + testSelection + `},{"disorder":"NOPE"}]}`
	c, rec := postJSON(e, "/", body)
	if err := h.GenerateBatch(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp batchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	if resp.Results[0].Result == nil || strings.Contains(resp.Results[0].Result.Text, "**") {
		t.Errorf("unexpected first result: %+v", resp.Results[0])
	}
	if resp.Results[1].Error == "" {
		t.Error("expected per-item error for unknown disorder")
	}
}

func TestHandler_GenerateBatch_Limits(t *testing.T) {
	h, e := newTestHandler(t)

	c, _ := postJSON(e, "/", `{"requests":[]}`)
	expectHTTPError(t, h.GenerateBatch(c), http.StatusBadRequest)

	reqs := make([]string, MaxBatchRequests+1)
	for i := range reqs {
		reqs[i] = `{"disorder":"TEST"}`
	}
	c, _ = postJSON(e, "/", fmt.Sprintf(`{"requests":[%s]}`, strings.Join(reqs, ",")))
	expectHTTPError(t, h.GenerateBatch(c), http.StatusBadRequest)
}

func TestHandler_RegisterRoutes_RequiresClinician(t *testing.T) {
	h, e := newTestHandler(t)
	h.RegisterRoutes(e.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/disorders/TEST/formulation", strings.NewReader(`{"selection":[]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 without roles, got %d", rec.Code)
	}

	authed := echo.New()
	api := authed.Group("/api/v1", auth.DevAuthMiddleware())
	h.RegisterRoutes(api)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/disorders/TEST/formulation", strings.NewReader(`{"selection":[]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	authed.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with dev auth, got %d: %s", rec.Code, rec.Body.String())
	}
}
