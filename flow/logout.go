package flow

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-keycloak-pkce/internal/errors"
)

// LogoutURL builds the provider's end-session URL. Without an ID token there
// is no hint to send and errors.ErrMissingIDToken is returned; the caller then
// logs out locally only.
func (m *Manager) LogoutURL(idToken string) (string, error) {
	if idToken == "" {
		return "", errors.ErrMissingIDToken
	}

	q := url.Values{}
	q.Set("client_id", m.settings.ClientID)
	q.Set("id_token_hint", idToken)
	q.Set("post_logout_redirect_uri", m.settings.AppBaseURL)
	return m.endpoints.EndSession + "?" + q.Encode(), nil
}

// Revoke asks the provider to invalidate a token (RFC 7009). tokenTypeHint is
// "refresh_token" or "access_token".
func (m *Manager) Revoke(ctx context.Context, token, tokenTypeHint string) error {
	ctx, cancel := m.backChannel(ctx)
	defer cancel()

	form := url.Values{}
	form.Set("token", token)
	form.Set("token_type_hint", tokenTypeHint)
	form.Set("client_id", m.settings.ClientID)
	form.Set("client_secret", m.settings.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoints.Revocation, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoke %s: %w", tokenTypeHint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxProviderBody))
		return fmt.Errorf("revoke %s: status %d: %s", tokenTypeHint, resp.StatusCode, body)
	}
	return nil
}
