package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"
)

type fakeConnector struct {
	connected    bool
	disconnected bool
}

func (f *fakeConnector) OAuthConfig() *oauth2.Config { return &oauth2.Config{} }
func (f *fakeConnector) Connect(ctx context.Context, token *oauth2.Token) error {
	f.connected = true
	return nil
}
func (f *fakeConnector) Disconnect() error {
	f.connected = false
	f.disconnected = true
	return nil
}
func (f *fakeConnector) Connected() bool { return f.connected }

func testService(connector Connector) (*Service, *SessionManager) {
	cfg := testConfig()
	sessions := NewSessionManager(cfg)
	return &Service{
		cfg:       cfg,
		connector: connector,
		sessions:  sessions,
	}, sessions
}

func TestRequireSessionRedirectsAnonymous(t *testing.T) {
	svc, _ := testService(&fakeConnector{connected: true})

	called := false
	handler := svc.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/upcoming", nil))

	if called {
		t.Error("handler should not run without a session")
	}
	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

func TestRequireSessionPassesEmail(t *testing.T) {
	svc, sessions := testService(&fakeConnector{connected: true})
	cookie := issueSessionCookie(t, sessions, "user@example.com")

	var gotEmail string
	handler := svc.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail, _ = EmailFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/upcoming", nil)
	r.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if gotEmail != "user@example.com" {
		t.Errorf("context email = %q", gotEmail)
	}
}

func TestRequireSessionDisconnectedClient(t *testing.T) {
	svc, sessions := testService(&fakeConnector{connected: false})
	cookie := issueSessionCookie(t, sessions, "user@example.com")

	handler := svc.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run when the client is disconnected")
	}))

	r := httptest.NewRequest(http.MethodGet, "/upcoming", nil)
	r.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/?error=session+expired" {
		t.Errorf("Location = %q", loc)
	}
}

func TestOptionalSession(t *testing.T) {
	svc, sessions := testService(&fakeConnector{})
	cookie := issueSessionCookie(t, sessions, "user@example.com")

	var gotEmail string
	var hadEmail bool
	handler := svc.OptionalSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail, hadEmail = EmailFromContext(r.Context())
	}))

	// Anonymous request passes through with no email.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("anonymous status = %d, want 200", rec.Code)
	}
	if hadEmail {
		t.Error("anonymous request should carry no email")
	}

	// Authenticated request carries the email.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	handler.ServeHTTP(httptest.NewRecorder(), r)
	if gotEmail != "user@example.com" {
		t.Errorf("context email = %q", gotEmail)
	}
}

func TestLogoutDisconnects(t *testing.T) {
	connector := &fakeConnector{connected: true}
	svc, _ := testService(connector)

	rec := httptest.NewRecorder()
	svc.Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	if !connector.disconnected {
		t.Error("Logout should disconnect the calendar client")
	}
	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

func TestHandleOAuthCallbackStateMismatch(t *testing.T) {
	svc, _ := testService(&fakeConnector{})

	r := httptest.NewRequest(http.MethodGet, "/auth/callback?state=abc&code=xyz", nil)
	r.AddCookie(&http.Cookie{Name: stateCookieName, Value: "different"})
	rec := httptest.NewRecorder()
	svc.HandleOAuthCallback(rec, r)

	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/?error=authentication+failed" {
		t.Errorf("Location = %q", loc)
	}
}

func TestHandleOAuthCallbackProviderError(t *testing.T) {
	svc, _ := testService(&fakeConnector{})

	rec := httptest.NewRecorder()
	svc.HandleOAuthCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?error=access_denied", nil))

	if loc := rec.Header().Get("Location"); loc != "/?error=authentication+failed" {
		t.Errorf("Location = %q", loc)
	}
}

func TestBeginOAuthSetsStateCookie(t *testing.T) {
	svc, _ := testService(&fakeConnector{})

	rec := httptest.NewRecorder()
	svc.BeginOAuth(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}

	var state string
	for _, c := range rec.Result().Cookies() {
		if c.Name == stateCookieName {
			state = c.Value
		}
	}
	if state == "" {
		t.Fatal("no state cookie set")
	}
	if loc := rec.Header().Get("Location"); loc == "" {
		t.Fatal("no redirect location")
	}
}
