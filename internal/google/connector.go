package google

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"calassist/internal/config"
	"calassist/internal/models"
	"calassist/internal/store"
)

// ErrNotConnected is returned when a calendar call is made before a
// credential has been obtained.
var ErrNotConnected = errors.New("not connected to google calendar")

// Connector owns the process-wide connection to Google Calendar: the OAuth
// configuration, the cached credential, and the API client built from it.
type Connector struct {
	oauth  *oauth2.Config
	creds  *store.CredentialStore
	logger *slog.Logger

	mu     sync.RWMutex
	client *Client
}

func NewConnector(cfg *config.Config, creds *store.CredentialStore, logger *slog.Logger) *Connector {
	return &Connector{
		oauth: &oauth2.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.RedirectURL(),
			Scopes:       []string{gcal.CalendarScope, "openid", "email"},
			Endpoint:     googleoauth.Endpoint,
		},
		creds:  creds,
		logger: logger,
	}
}

// OAuthConfig exposes the OAuth configuration for the login flow.
func (c *Connector) OAuthConfig() *oauth2.Config {
	return c.oauth
}

// Restore rebuilds the client from a previously cached credential, if one
// exists. Missing credentials are not an error; the user just is not
// connected yet.
func (c *Connector) Restore(ctx context.Context) error {
	token, err := c.creds.Load()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	c.logger.Info("Restoring cached Google Calendar credential")
	return c.Connect(ctx, token)
}

// Connect saves the credential and builds an API client around a token
// source that persists refreshed tokens back to the store.
func (c *Connector) Connect(ctx context.Context, token *oauth2.Token) error {
	if err := c.creds.Save(token); err != nil {
		return err
	}

	source := &savingTokenSource{
		base:  c.oauth.TokenSource(ctx, token),
		creds: c.creds,
		last:  token.AccessToken,
	}
	client, err := NewClient(ctx, c.logger, option.WithTokenSource(source))
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.client = client
	c.mu.Unlock()
	return nil
}

// Disconnect deletes the cached credential and drops the client.
func (c *Connector) Disconnect() error {
	c.mu.Lock()
	c.client = nil
	c.mu.Unlock()
	return c.creds.Delete()
}

// Connected reports whether a calendar client is available.
func (c *Connector) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client != nil
}

// ListEvents delegates to the connected client.
func (c *Connector) ListEvents(ctx context.Context, from, to time.Time, maxResults int64) ([]models.Event, error) {
	client, ok := c.current()
	if !ok {
		return nil, ErrNotConnected
	}
	return client.ListEvents(ctx, from, to, maxResults)
}

// InsertEvent delegates to the connected client.
func (c *Connector) InsertEvent(ctx context.Context, draft models.Draft) (models.Event, error) {
	client, ok := c.current()
	if !ok {
		return models.Event{}, ErrNotConnected
	}
	return client.InsertEvent(ctx, draft)
}

func (c *Connector) current() (*Client, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client, c.client != nil
}

// savingTokenSource persists tokens whenever the underlying source refreshes
// them, so a restart keeps the session alive without a new login.
type savingTokenSource struct {
	base  oauth2.TokenSource
	creds *store.CredentialStore

	mu   sync.Mutex
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken != s.last {
		s.last = token.AccessToken
		if err := s.creds.Save(token); err != nil {
			return nil, err
		}
	}
	return token, nil
}
