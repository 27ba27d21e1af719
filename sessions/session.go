package sessions

import (
	"time"

	"github.com/jrsteele09/go-keycloak-pkce/oauthmodel"
)

// PendingLogin is the transient state of one authorization request. It is
// written before the browser is sent to the provider and read back exactly
// once by the callback that follows.
type PendingLogin struct {
	CodeVerifier string `json:"codeVerifier"`
	State        string `json:"state"`
	Nonce        string `json:"nonce,omitempty"`
}

// Data is everything the application keeps in a browser session.
// User and the token triple only change together through SignIn and Clear.
type Data struct {
	User         *oauthmodel.User `json:"user,omitempty"`
	AccessToken  string           `json:"accessToken,omitempty"`
	IDToken      string           `json:"idToken,omitempty"`
	RefreshToken string           `json:"refreshToken,omitempty"`
	Expiry       time.Time        `json:"expiry,omitempty"`

	Pending    *PendingLogin `json:"pending,omitempty"`
	RedirectTo string        `json:"redirectTo,omitempty"`
}

// Authenticated reports whether a user has completed the login flow.
func (d *Data) Authenticated() bool {
	return d.User != nil
}

// BeginLogin records a new pending login, replacing any earlier one.
func (d *Data) BeginLogin(p PendingLogin) {
	d.Pending = &p
}

// TakePendingLogin returns the pending login and removes it from the session.
func (d *Data) TakePendingLogin() (PendingLogin, bool) {
	if d.Pending == nil {
		return PendingLogin{}, false
	}
	p := *d.Pending
	d.Pending = nil
	return p, true
}

// SignIn stores the user and tokens from a successful exchange.
func (d *Data) SignIn(user oauthmodel.User, tokens oauthmodel.TokenSet) {
	d.User = &user
	d.AccessToken = tokens.AccessToken
	d.IDToken = tokens.IDToken
	d.RefreshToken = tokens.RefreshToken
	d.Expiry = tokens.Expiry
	d.Pending = nil
}

// Tokens returns the stored token set.
func (d *Data) Tokens() oauthmodel.TokenSet {
	return oauthmodel.TokenSet{
		AccessToken:  d.AccessToken,
		IDToken:      d.IDToken,
		RefreshToken: d.RefreshToken,
		Expiry:       d.Expiry,
	}
}

// UpdateTokens stores refreshed tokens for the signed in user. Providers may
// omit the id or refresh token on a refresh; the previous values are kept.
func (d *Data) UpdateTokens(tokens oauthmodel.TokenSet) {
	d.AccessToken = tokens.AccessToken
	d.Expiry = tokens.Expiry
	if tokens.IDToken != "" {
		d.IDToken = tokens.IDToken
	}
	if tokens.RefreshToken != "" {
		d.RefreshToken = tokens.RefreshToken
	}
}

// TakeRedirect returns the path saved by the session guard, or fallback.
func (d *Data) TakeRedirect(fallback string) string {
	to := d.RedirectTo
	d.RedirectTo = ""
	if to == "" {
		return fallback
	}
	return to
}

// Clear forgets the user and all tokens.
func (d *Data) Clear() {
	*d = Data{}
}
