package pkce_test

import (
	"regexp"
	"testing"

	"github.com/jrsteele09/go-keycloak-pkce/pkce"
	"github.com/stretchr/testify/require"
)

var urlSafeUnpadded = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func TestGenerateVerifier(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		v, err := pkce.GenerateVerifier()
		require.NoError(t, err)
		require.Len(t, v, 43)
		require.Regexp(t, urlSafeUnpadded, v)

		_, dup := seen[v]
		require.False(t, dup, "verifier repeated")
		seen[v] = struct{}{}
	}
}

func TestDeriveChallenge(t *testing.T) {
	t.Run("RFC 7636 appendix B", func(t *testing.T) {
		require.Equal(t,
			"E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM",
			pkce.DeriveChallenge("dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"))
	})

	t.Run("deterministic", func(t *testing.T) {
		v, err := pkce.GenerateVerifier()
		require.NoError(t, err)
		require.Equal(t, pkce.DeriveChallenge(v), pkce.DeriveChallenge(v))
	})

	t.Run("single character change alters the challenge", func(t *testing.T) {
		v := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
		altered := "eBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
		require.NotEqual(t, pkce.DeriveChallenge(v), pkce.DeriveChallenge(altered))
	})

	t.Run("encoding", func(t *testing.T) {
		c := pkce.DeriveChallenge("anything")
		require.Len(t, c, 43)
		require.Regexp(t, urlSafeUnpadded, c)
	})
}

func TestNew(t *testing.T) {
	p, err := pkce.New()
	require.NoError(t, err)
	require.Equal(t, pkce.MethodS256, p.Method)
	require.Equal(t, pkce.DeriveChallenge(p.Verifier), p.Challenge)

	other, err := pkce.New()
	require.NoError(t, err)
	require.NotEqual(t, p.Verifier, other.Verifier)
}

func TestGenerateState(t *testing.T) {
	s1, err := pkce.GenerateState()
	require.NoError(t, err)
	s2, err := pkce.GenerateNonce()
	require.NoError(t, err)
	require.Regexp(t, urlSafeUnpadded, s1)
	require.NotEqual(t, s1, s2)
}
