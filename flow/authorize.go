package flow

import (
	"github.com/jrsteele09/go-keycloak-pkce/pkce"
	"github.com/jrsteele09/go-keycloak-pkce/sessions"
	"golang.org/x/oauth2"
)

// AuthorizationURL starts a login. It generates a PKCE pair, a state and a
// nonce, records them in data and returns the provider URL to redirect to.
// The caller must commit data on the same response that carries the redirect.
func (m *Manager) AuthorizationURL(data *sessions.Data) (string, error) {
	pair, err := pkce.New()
	if err != nil {
		return "", err
	}
	state, err := pkce.GenerateState()
	if err != nil {
		return "", err
	}
	nonce, err := pkce.GenerateNonce()
	if err != nil {
		return "", err
	}

	data.BeginLogin(sessions.PendingLogin{
		CodeVerifier: pair.Verifier,
		State:        state,
		Nonce:        nonce,
	})

	return m.oauth.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", pair.Challenge),
		oauth2.SetAuthURLParam("code_challenge_method", pair.Method),
		oauth2.SetAuthURLParam("nonce", nonce),
	), nil
}
