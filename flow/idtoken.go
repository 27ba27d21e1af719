package flow

import (
	"context"
	"fmt"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-keycloak-pkce/internal/errors"
)

// VerifyingIDTokens reports whether VerifyIDToken checks anything.
func (m *Manager) VerifyingIDTokens() bool {
	return m.verifier != nil
}

// VerifyIDToken checks the ID token's signature, issuer, audience, expiry and
// nonce. It is a no-op unless Settings.VerifyIDToken was set.
func (m *Manager) VerifyIDToken(ctx context.Context, rawIDToken, nonce string) error {
	if m.verifier == nil {
		return nil
	}
	if rawIDToken == "" {
		return tokenExchangeError(fmt.Errorf("%w: token response had no id_token", errors.ErrInvalidIDToken))
	}

	ctx, cancel := m.backChannel(ctx)
	defer cancel()

	idToken, err := m.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return tokenExchangeError(fmt.Errorf("%w: %v", errors.ErrInvalidIDToken, err))
	}
	if idToken.Nonce != nonce {
		return tokenExchangeError(fmt.Errorf("%w: nonce mismatch", errors.ErrInvalidIDToken))
	}
	return nil
}

// IDTokenClaims is the subset of ID token claims used for logging.
type IDTokenClaims struct {
	Subject   string
	SessionID string
}

// ReadIDTokenClaims decodes an ID token without checking its signature. It
// must only be used for diagnostics, never for authorization decisions.
func ReadIDTokenClaims(rawIDToken string) (IDTokenClaims, error) {
	token, _, err := jwtlib.NewParser().ParseUnverified(rawIDToken, jwtlib.MapClaims{})
	if err != nil {
		return IDTokenClaims{}, fmt.Errorf("failed to parse id token: %w", err)
	}
	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return IDTokenClaims{}, fmt.Errorf("error extracting claims")
	}

	sub, _ := claims.GetSubject()
	sid, _ := claims["sid"].(string)
	return IDTokenClaims{Subject: sub, SessionID: sid}, nil
}
