package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"calassist/internal/config"
	httperrors "calassist/internal/http/errors"
)

const stateCookieName = "calassist_oauth_state"

// Connector is the calendar connection the OAuth flow establishes or tears
// down.
type Connector interface {
	OAuthConfig() *oauth2.Config
	Connect(ctx context.Context, token *oauth2.Token) error
	Disconnect() error
	Connected() bool
}

// Service encapsulates the Google OAuth login flow and session enforcement.
type Service struct {
	cfg       *config.Config
	connector Connector
	sessions  *SessionManager
	verifier  *oidc.IDTokenVerifier
	secure    bool
}

// NewService discovers the OIDC issuer so the ID token returned alongside the
// calendar credential can be verified and the account email extracted.
func NewService(ctx context.Context, cfg *config.Config, connector Connector, sessions *SessionManager) (*Service, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OAuth.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover oidc issuer %s: %w", cfg.OAuth.IssuerURL, err)
	}

	secure := true
	if base, err := url.Parse(cfg.BaseURL); err == nil && base.Scheme != "https" {
		secure = false
	}

	return &Service{
		cfg:       cfg,
		connector: connector,
		sessions:  sessions,
		verifier:  provider.Verifier(&oidc.Config{ClientID: cfg.OAuth.ClientID}),
		secure:    secure,
	}, nil
}

// BeginOAuth starts the authorization flow: issue a state nonce and redirect
// to the provider's consent page.
func (s *Service) BeginOAuth(w http.ResponseWriter, r *http.Request) {
	state, err := randomToken()
	if err != nil {
		httperrors.InternalError(w, r, err, "failed to generate oauth state")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})

	authURL := s.connector.OAuthConfig().AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// HandleOAuthCallback completes the flow: validate state, exchange the code,
// verify the ID token for the account email, persist the credential, and
// start a session. Any failure leaves the session unauthenticated and sends
// the user back to the welcome page with a generic error.
func (s *Service) HandleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		s.failAuth(w, r, fmt.Errorf("provider returned %q", errParam))
		return
	}

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(stateCookieName)
	if err != nil || state == "" || cookie.Value != state {
		s.failAuth(w, r, fmt.Errorf("oauth state mismatch"))
		return
	}
	clearCookie(w, stateCookieName, s.secure)

	code := r.URL.Query().Get("code")
	if code == "" {
		s.failAuth(w, r, fmt.Errorf("missing authorization code"))
		return
	}

	token, err := s.connector.OAuthConfig().Exchange(r.Context(), code)
	if err != nil {
		s.failAuth(w, r, fmt.Errorf("code exchange failed: %w", err))
		return
	}

	email, err := s.emailFromIDToken(r.Context(), token)
	if err != nil {
		s.failAuth(w, r, err)
		return
	}

	if err := s.connector.Connect(r.Context(), token); err != nil {
		s.failAuth(w, r, fmt.Errorf("failed to connect calendar client: %w", err))
		return
	}

	if err := s.sessions.Issue(w, email); err != nil {
		s.failAuth(w, r, fmt.Errorf("failed to issue session: %w", err))
		return
	}

	httperrors.LogInfo(r, "authenticated "+email)
	http.Redirect(w, r, "/upcoming?status=connected", http.StatusFound)
}

// Logout deletes the cached credential and clears the session.
func (s *Service) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.connector.Disconnect(); err != nil {
		httperrors.LogError(r, "failed to delete credential", err)
	}
	s.sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// RequireSession gates the dashboard views behind a valid session and a
// connected calendar client.
func (s *Service) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, ok := s.sessions.CurrentEmail(r)
		if !ok {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		if !s.connector.Connected() {
			// Credential was deleted out from under the session.
			s.sessions.Clear(w)
			http.Redirect(w, r, "/?error=session+expired", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithEmail(r.Context(), email)))
	})
}

// OptionalSession attaches the account email to the context when a valid
// session is present, without redirecting anonymous visitors.
func (s *Service) OptionalSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if email, ok := s.sessions.CurrentEmail(r); ok {
			r = r.WithContext(WithEmail(r.Context(), email))
		}
		next.ServeHTTP(w, r)
	})
}

// ClearSession removes the session cookie without touching the credential.
func (s *Service) ClearSession(w http.ResponseWriter) {
	s.sessions.Clear(w)
}

func (s *Service) failAuth(w http.ResponseWriter, r *http.Request, err error) {
	httperrors.LogError(r, "authentication failed", err)
	http.Redirect(w, r, "/?error=authentication+failed", http.StatusFound)
}

// emailFromIDToken verifies the ID token issued with the calendar credential
// and pulls the account email out of its claims.
func (s *Service) emailFromIDToken(ctx context.Context, token *oauth2.Token) (string, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", fmt.Errorf("token response carried no id_token")
	}

	idToken, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", fmt.Errorf("id token verification failed: %w", err)
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return "", fmt.Errorf("failed to parse id token claims: %w", err)
	}
	return claims.Email, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func clearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:    name,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		Secure:  secure,
	})
}
