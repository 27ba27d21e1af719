package flow_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-keycloak-pkce/flow"
	"github.com/jrsteele09/go-keycloak-pkce/internal/errors"
	"github.com/jrsteele09/go-keycloak-pkce/internal/fakekeycloak"
	"github.com/stretchr/testify/require"
)

func setupVerifying(t *testing.T) (*fakekeycloak.Provider, *flow.Manager) {
	t.Helper()
	p := fakekeycloak.New()
	t.Cleanup(p.Close)
	p.SignIDTokens = true

	settings := settingsFor(p)
	settings.VerifyIDToken = true
	m, err := flow.New(settings)
	require.NoError(t, err)
	require.True(t, m.VerifyingIDTokens())
	return p, m
}

func TestVerifyIDToken(t *testing.T) {
	t.Run("signed token with matching nonce", func(t *testing.T) {
		p, m := setupVerifying(t)
		code, data := login(t, p, m)

		tokens, err := m.Exchange(context.Background(), code, data.Pending.CodeVerifier)
		require.NoError(t, err)
		require.NoError(t, m.VerifyIDToken(context.Background(), tokens.IDToken, data.Pending.Nonce))
	})

	t.Run("nonce mismatch", func(t *testing.T) {
		p, m := setupVerifying(t)
		code, data := login(t, p, m)

		tokens, err := m.Exchange(context.Background(), code, data.Pending.CodeVerifier)
		require.NoError(t, err)

		err = m.VerifyIDToken(context.Background(), tokens.IDToken, "another-nonce")
		require.ErrorIs(t, err, errors.ErrInvalidIDToken)
		require.ErrorIs(t, err, errors.ErrTokenExchange)
	})

	t.Run("opaque token", func(t *testing.T) {
		_, m := setupVerifying(t)
		err := m.VerifyIDToken(context.Background(), "IDT1", "")
		require.ErrorIs(t, err, errors.ErrInvalidIDToken)
	})

	t.Run("disabled", func(t *testing.T) {
		_, m := setup(t)
		require.False(t, m.VerifyingIDTokens())
		require.NoError(t, m.VerifyIDToken(context.Background(), "IDT1", "nonce"))
	})
}

func TestReadIDTokenClaims(t *testing.T) {
	p, m := setupVerifying(t)
	code, data := login(t, p, m)
	tokens, err := m.Exchange(context.Background(), code, data.Pending.CodeVerifier)
	require.NoError(t, err)

	claims, err := flow.ReadIDTokenClaims(tokens.IDToken)
	require.NoError(t, err)
	require.Equal(t, "1", claims.Subject)
	require.Equal(t, "fake-session", claims.SessionID)

	_, err = flow.ReadIDTokenClaims("IDT1")
	require.Error(t, err)
}
