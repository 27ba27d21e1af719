package errors_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-keycloak-pkce/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestTokenExchangeError(t *testing.T) {
	t.Run("provider status", func(t *testing.T) {
		var err error = &errors.TokenExchangeError{ProviderError: errors.ProviderError{Status: 400, Body: `{"error":"invalid_grant"}`}}
		require.ErrorIs(t, err, errors.ErrTokenExchange)
		require.Contains(t, err.Error(), "status 400")
		require.Contains(t, err.Error(), "invalid_grant")
	})

	t.Run("transport failure", func(t *testing.T) {
		var err error = &errors.TokenExchangeError{ProviderError: errors.ProviderError{Err: context.DeadlineExceeded}}
		require.ErrorIs(t, err, errors.ErrTokenExchange)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestUserInfoError(t *testing.T) {
	var err error = errors.Wrapf(&errors.UserInfoError{ProviderError: errors.ProviderError{Status: 401, Body: "nope"}}, "callback")

	var uiErr *errors.UserInfoError
	require.True(t, errors.As(err, &uiErr))
	require.Equal(t, 401, uiErr.Status)
	require.True(t, errors.Is(err, errors.ErrUserInfo))
	require.False(t, errors.Is(err, errors.ErrTokenExchange))
}

func TestWrapfNil(t *testing.T) {
	require.NoError(t, errors.Wrapf(nil, "context %d", 1))
}
