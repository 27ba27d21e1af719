package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jrsteele09/go-keycloak-pkce/internal/errors"
	"github.com/jrsteele09/go-keycloak-pkce/oauthmodel"
	"golang.org/x/oauth2"
)

// maxProviderBody caps how much of an error body is kept for logging.
const maxProviderBody = 64 << 10

// UserInfo fetches the profile of the user the access token belongs to.
// Failures are returned as *errors.UserInfoError and are not retried.
func (m *Manager) UserInfo(ctx context.Context, accessToken string) (oauthmodel.User, error) {
	ctx, cancel := m.backChannel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.endpoints.UserInfo, nil)
	if err != nil {
		return oauthmodel.User{}, userInfoError(0, "", err)
	}
	req.Header.Set("Accept", "application/json")

	client := m.oauth.Client(ctx, &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	resp, err := client.Do(req)
	if err != nil {
		return oauthmodel.User{}, userInfoError(0, "", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderBody))
	if err != nil {
		return oauthmodel.User{}, userInfoError(resp.StatusCode, "", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return oauthmodel.User{}, userInfoError(resp.StatusCode, string(body), nil)
	}

	var claims map[string]any
	if err := json.Unmarshal(body, &claims); err != nil {
		return oauthmodel.User{}, userInfoError(resp.StatusCode, string(body), fmt.Errorf("failed to decode user info: %w", err))
	}
	user := oauthmodel.UserFromClaims(claims)
	if user.ID == "" {
		return oauthmodel.User{}, userInfoError(resp.StatusCode, string(body), fmt.Errorf("user info has no subject"))
	}
	return user, nil
}

func userInfoError(status int, body string, err error) error {
	return &errors.UserInfoError{ProviderError: errors.ProviderError{Status: status, Body: body, Err: err}}
}
