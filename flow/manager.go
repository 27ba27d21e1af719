// Package flow runs the OAuth2 Authorization Code flow with PKCE against a
// Keycloak realm: it builds the authorization request, exchanges the returned
// code for tokens, fetches the user's profile and builds the logout URL.
//
// A Manager holds no per-user state. Everything that must survive the
// redirect round trip is written to the caller's session Data.
package flow

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-keycloak-pkce/internal/config"
	"github.com/jrsteele09/go-keycloak-pkce/internal/errors"
	"golang.org/x/oauth2"
)

const (
	// CallbackPath is where the provider sends the browser back with a code.
	CallbackPath = "/auth/keycloak/callback"

	defaultTimeout = 10 * time.Second
)

// Settings are the per deployment values the flow needs.
type Settings struct {
	ProviderURL  string // e.g. "https://sso.example.com"
	Realm        string
	ClientID     string
	ClientSecret string
	AppBaseURL   string // e.g. "https://app.example.com"
	Scopes       []string

	// Timeout bounds each back-channel call to the provider.
	Timeout time.Duration
	// VerifyIDToken checks the ID token signature, audience and nonce against
	// the realm's published keys after each code exchange.
	VerifyIDToken bool
}

// SettingsFromConfig reads Settings from the environment backed config.
func SettingsFromConfig(c config.Config) Settings {
	return Settings{
		ProviderURL:   c.GetKeycloakURL(),
		Realm:         c.GetKeycloakRealm(),
		ClientID:      c.GetClientID(),
		ClientSecret:  c.GetClientSecret(),
		AppBaseURL:    c.GetBaseURL(),
		Scopes:        c.GetScopes(),
		Timeout:       c.GetProviderTimeout(),
		VerifyIDToken: c.GetVerifyIDToken(),
	}
}

// Option customises a Manager.
type Option func(*Manager)

// WithHTTPClient sets the client used for every back-channel call.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		m.httpClient = client
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// Manager is safe for concurrent use and is shared by all requests.
type Manager struct {
	settings   Settings
	endpoints  Endpoints
	oauth      *oauth2.Config
	httpClient *http.Client
	verifier   *oidc.IDTokenVerifier
	now        func() time.Time
}

// New validates settings and builds a Manager. Missing values are reported
// as a *errors.ConfigurationError.
func New(settings Settings, opts ...Option) (*Manager, error) {
	settings.ProviderURL = strings.TrimRight(settings.ProviderURL, "/")
	settings.AppBaseURL = strings.TrimRight(settings.AppBaseURL, "/")
	if err := settings.validate(); err != nil {
		return nil, err
	}
	if settings.Timeout <= 0 {
		settings.Timeout = defaultTimeout
	}
	if len(settings.Scopes) == 0 {
		settings.Scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	m := &Manager{
		settings:  settings,
		endpoints: NewEndpoints(settings.ProviderURL, settings.Realm),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.httpClient == nil {
		m.httpClient = &http.Client{Timeout: settings.Timeout}
	}

	m.oauth = &oauth2.Config{
		ClientID:     settings.ClientID,
		ClientSecret: settings.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   m.endpoints.Authorization,
			TokenURL:  m.endpoints.Token,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: settings.AppBaseURL + CallbackPath,
		Scopes:      settings.Scopes,
	}

	if settings.VerifyIDToken {
		keySet := oidc.NewRemoteKeySet(oidc.ClientContext(context.Background(), m.httpClient), m.endpoints.JWKS)
		m.verifier = oidc.NewVerifier(m.endpoints.Issuer, keySet, &oidc.Config{
			ClientID: settings.ClientID,
			Now:      m.now,
		})
	}

	return m, nil
}

// Endpoints returns the provider endpoints in use.
func (m *Manager) Endpoints() Endpoints {
	return m.endpoints
}

// RedirectURI is the callback URL registered with the provider.
func (m *Manager) RedirectURI() string {
	return m.oauth.RedirectURL
}

// backChannel bounds ctx by the provider timeout and attaches the HTTP
// client that x/oauth2 and go-oidc pick up from the context.
func (m *Manager) backChannel(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, m.settings.Timeout)
	return context.WithValue(ctx, oauth2.HTTPClient, m.httpClient), cancel
}

func (s Settings) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"provider URL", s.ProviderURL},
		{"realm", s.Realm},
		{"client ID", s.ClientID},
		{"client secret", s.ClientSecret},
		{"application base URL", s.AppBaseURL},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return &errors.ConfigurationError{Missing: missing}
	}
	return nil
}
