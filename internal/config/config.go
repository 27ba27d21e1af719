package config

import (
	"github.com/jrsteele09/go-keycloak-pkce/internal/errors"
)

type Config interface {
	EnvConfig
	OAuthConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
	IsProduction() bool
}

type mainConfig struct {
	EnvVars
	OAuth
	Security
}

func New() Config {
	return mainConfig{}
}

// Validate reports every required deployment value that is absent. The
// returned error is a *errors.ConfigurationError.
func Validate(c Config) error {
	required := []struct {
		name  string
		value string
	}{
		{keycloakURLVar, c.GetKeycloakURL()},
		{keycloakRealmVar, c.GetKeycloakRealm()},
		{clientIDVar, c.GetClientID()},
		{clientSecretVar, c.GetClientSecret()},
		{baseURLVar, c.GetBaseURL()},
		{sessionSecretVar, c.GetSessionSecret()},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return &errors.ConfigurationError{Missing: missing}
	}

	if len(c.GetSessionSecret()) < MinSessionSecretLength {
		return &errors.ConfigurationError{Invalid: sessionSecretVar, Reason: "must be at least 32 bytes"}
	}
	return nil
}
