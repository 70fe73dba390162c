package csrf

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"calassist/internal/config"
)

func testMiddleware() func(http.Handler) http.Handler {
	cfg := &config.Config{BaseURL: "http://localhost:8080"}
	return Middleware(cfg)
}

func TestIssuesTokenOnGet(t *testing.T) {
	var ctxToken string
	handler := testMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxToken = TokenFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ctxToken == "" {
		t.Fatal("no token in context")
	}

	var cookieToken string
	for _, c := range rec.Result().Cookies() {
		if c.Name == "calassist_csrf" {
			cookieToken = c.Value
		}
	}
	if cookieToken != ctxToken {
		t.Errorf("cookie token %q != context token %q", cookieToken, ctxToken)
	}
}

func TestRejectsPostWithoutToken(t *testing.T) {
	handler := testMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without a csrf token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events", nil))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRejectsPostWithWrongToken(t *testing.T) {
	handler := testMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run with a mismatched csrf token")
	}))

	r := httptest.NewRequest(http.MethodPost, "/events", nil)
	r.AddCookie(&http.Cookie{Name: "calassist_csrf", Value: "expected"})
	r.Header.Set("X-CSRF-Token", "forged")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestAcceptsPostWithHeaderToken(t *testing.T) {
	called := false
	handler := testMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	r := httptest.NewRequest(http.MethodPost, "/events", nil)
	r.AddCookie(&http.Cookie{Name: "calassist_csrf", Value: "token-value"})
	r.Header.Set("X-CSRF-Token", "token-value")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if !called {
		t.Error("handler should run with a matching header token")
	}
}

func TestAcceptsPostWithFormToken(t *testing.T) {
	called := false
	handler := testMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	form := url.Values{"_csrf": {"token-value"}}
	r := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: "calassist_csrf", Value: "token-value"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if !called {
		t.Error("handler should run with a matching form token")
	}
}
