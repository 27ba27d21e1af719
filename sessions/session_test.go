package sessions_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-keycloak-pkce/oauthmodel"
	"github.com/jrsteele09/go-keycloak-pkce/sessions"
	"github.com/stretchr/testify/require"
)

func TestData_PendingLoginIsReadOnce(t *testing.T) {
	var d sessions.Data
	_, ok := d.TakePendingLogin()
	require.False(t, ok)

	d.BeginLogin(sessions.PendingLogin{CodeVerifier: "v1", State: "s1"})
	d.BeginLogin(sessions.PendingLogin{CodeVerifier: "v2", State: "s2"})

	p, ok := d.TakePendingLogin()
	require.True(t, ok)
	require.Equal(t, "v2", p.CodeVerifier)

	_, ok = d.TakePendingLogin()
	require.False(t, ok)
}

func TestData_SignIn(t *testing.T) {
	var d sessions.Data
	require.False(t, d.Authenticated())

	d.BeginLogin(sessions.PendingLogin{CodeVerifier: "v1"})
	expiry := time.Now().Add(time.Hour)
	d.SignIn(oauthmodel.User{ID: "u1", Name: "Alice"}, oauthmodel.TokenSet{
		AccessToken: "AT1", IDToken: "IDT1", RefreshToken: "RT1", Expiry: expiry,
	})

	require.True(t, d.Authenticated())
	require.Equal(t, "Alice", d.User.Name)
	require.Nil(t, d.Pending)
	require.Equal(t, oauthmodel.TokenSet{AccessToken: "AT1", IDToken: "IDT1", RefreshToken: "RT1", Expiry: expiry}, d.Tokens())

	d.UpdateTokens(oauthmodel.TokenSet{AccessToken: "AT2"})
	require.Equal(t, "AT2", d.AccessToken)
	require.Equal(t, "IDT1", d.IDToken)
	require.Equal(t, "RT1", d.RefreshToken)
	require.True(t, d.Expiry.IsZero())

	d.Clear()
	require.False(t, d.Authenticated())
	require.Empty(t, d.AccessToken)
}

func TestData_TakeRedirect(t *testing.T) {
	d := sessions.Data{RedirectTo: "/protected/reports"}
	require.Equal(t, "/protected/reports", d.TakeRedirect("/protected"))
	require.Equal(t, "/protected", d.TakeRedirect("/protected"))
}
