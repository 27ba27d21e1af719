// Package pkce generates Proof Key for Code Exchange values (RFC 7636) and the
// random state and nonce parameters that travel with an authorization request.
package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

const (
	// MethodS256 is the only challenge method this client sends.
	MethodS256 = "S256"

	// verifierBytes of entropy encode to a 43 character verifier.
	verifierBytes = 32
	stateBytes    = 32
)

// Pair is a verifier and the challenge derived from it.
type Pair struct {
	Verifier  string
	Challenge string
	Method    string
}

// New generates a fresh verifier and its S256 challenge.
func New() (Pair, error) {
	verifier, err := GenerateVerifier()
	if err != nil {
		return Pair{}, err
	}
	return Pair{
		Verifier:  verifier,
		Challenge: DeriveChallenge(verifier),
		Method:    MethodS256,
	}, nil
}

// GenerateVerifier returns 32 random bytes, base64url encoded without padding.
func GenerateVerifier() (string, error) {
	return randomString(verifierBytes)
}

// DeriveChallenge hashes the encoded verifier string, not the random bytes it
// was generated from, and encodes the digest the same way as the verifier.
func DeriveChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// GenerateState returns an opaque value for the OAuth2 state parameter.
func GenerateState() (string, error) {
	return randomString(stateBytes)
}

// GenerateNonce returns an opaque value for the OpenID Connect nonce parameter.
func GenerateNonce() (string, error) {
	return randomString(stateBytes)
}

func randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
