package flow

import (
	"context"

	"github.com/jrsteele09/go-keycloak-pkce/internal/errors"
	"github.com/jrsteele09/go-keycloak-pkce/oauthmodel"
	"golang.org/x/oauth2"
)

// Exchange trades an authorization code and the verifier stored before the
// redirect for a token set. Codes are single use, so failures are never
// retried; they are returned as *errors.TokenExchangeError.
func (m *Manager) Exchange(ctx context.Context, code, codeVerifier string) (oauthmodel.TokenSet, error) {
	ctx, cancel := m.backChannel(ctx)
	defer cancel()

	tok, err := m.oauth.Exchange(ctx, code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return oauthmodel.TokenSet{}, tokenExchangeError(err)
	}
	return oauthmodel.TokenSetFromOAuth2(tok), nil
}

// Refresh uses a refresh token to obtain a new token set.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (oauthmodel.TokenSet, error) {
	ctx, cancel := m.backChannel(ctx)
	defer cancel()

	tok, err := m.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return oauthmodel.TokenSet{}, tokenExchangeError(err)
	}
	return oauthmodel.TokenSetFromOAuth2(tok), nil
}

func tokenExchangeError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		return &errors.TokenExchangeError{ProviderError: errors.ProviderError{
			Status: retrieveErr.Response.StatusCode,
			Body:   string(retrieveErr.Body),
			Err:    err,
		}}
	}
	return &errors.TokenExchangeError{ProviderError: errors.ProviderError{Err: err}}
}
