package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	keycloakURLVar     = "KEYCLOAK_URL"
	keycloakRealmVar   = "KEYCLOAK_REALM"
	clientIDVar        = "KEYCLOAK_CLIENT_ID"
	clientSecretVar    = "KEYCLOAK_CLIENT_SECRET"
	scopesVar          = "KEYCLOAK_SCOPES"
	providerTimeoutVar = "KEYCLOAK_TIMEOUT"
	verifyIDTokenVar   = "KEYCLOAK_VERIFY_ID_TOKEN"

	defaultScopes          = "openid profile email"
	defaultProviderTimeout = 10 * time.Second
)

type OAuthConfig interface {
	GetKeycloakURL() string
	GetKeycloakRealm() string
	GetClientID() string
	GetClientSecret() string
	GetScopes() []string
	GetProviderTimeout() time.Duration
	GetVerifyIDToken() bool
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetKeycloakURL() string {
	return strings.TrimRight(os.Getenv(keycloakURLVar), "/")
}

func (OAuth) GetKeycloakRealm() string {
	return os.Getenv(keycloakRealmVar)
}

func (OAuth) GetClientID() string {
	return os.Getenv(clientIDVar)
}

func (OAuth) GetClientSecret() string {
	return os.Getenv(clientSecretVar)
}

// GetScopes returns the space separated KEYCLOAK_SCOPES value as a list.
func (OAuth) GetScopes() []string {
	return strings.Fields(GetEnv(scopesVar, defaultScopes))
}

// GetProviderTimeout bounds every back-channel call to the identity provider.
// Accepts a Go duration ("5s") or a plain number of seconds.
func (OAuth) GetProviderTimeout() time.Duration {
	return durationEnv(providerTimeoutVar, defaultProviderTimeout)
}

func (OAuth) GetVerifyIDToken() bool {
	v, err := strconv.ParseBool(GetEnv(verifyIDTokenVar, "false"))
	if err != nil {
		return false
	}
	return v
}

func durationEnv(name string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
