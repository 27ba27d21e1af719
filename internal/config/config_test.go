package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-keycloak-pkce/internal/config"
	"github.com/jrsteele09/go-keycloak-pkce/internal/errors"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("KEYCLOAK_URL", "http://localhost:7777/")
	t.Setenv("KEYCLOAK_REALM", "demorealm")
	t.Setenv("KEYCLOAK_CLIENT_ID", "demoapp")
	t.Setenv("KEYCLOAK_CLIENT_SECRET", "s3cret")
	t.Setenv("APP_BASE_URL", "http://localhost:3000")
	t.Setenv("SESSION_SECRET", testSecret)
}

func TestValidate(t *testing.T) {
	t.Run("all values present", func(t *testing.T) {
		setRequired(t)
		require.NoError(t, config.Validate(config.New()))
	})

	t.Run("missing values are all reported", func(t *testing.T) {
		setRequired(t)
		t.Setenv("KEYCLOAK_REALM", "")
		t.Setenv("SESSION_SECRET", "")

		err := config.Validate(config.New())
		var cfgErr *errors.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		require.ElementsMatch(t, []string{"KEYCLOAK_REALM", "SESSION_SECRET"}, cfgErr.Missing)
		require.ErrorIs(t, err, errors.ErrConfiguration)
	})

	t.Run("short session secret", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SESSION_SECRET", "short")

		err := config.Validate(config.New())
		var cfgErr *errors.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		require.Equal(t, "SESSION_SECRET", cfgErr.Invalid)
	})
}

func TestDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("KEYCLOAK_SCOPES", "")
	t.Setenv("KEYCLOAK_TIMEOUT", "")

	c := config.New()
	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, "DEV", c.GetEnv())
	require.False(t, c.IsProduction())
	require.Equal(t, "http://localhost:7777", c.GetKeycloakURL())
	require.Equal(t, []string{"openid", "profile", "email"}, c.GetScopes())
	require.Equal(t, 10*time.Second, c.GetProviderTimeout())
	require.False(t, c.GetVerifyIDToken())
}

func TestOverrides(t *testing.T) {
	t.Setenv("PORT", ":9000")
	t.Setenv("ENV", "prod")
	t.Setenv("KEYCLOAK_TIMEOUT", "3")
	t.Setenv("SESSION_MAX_AGE", "15m")
	t.Setenv("KEYCLOAK_VERIFY_ID_TOKEN", "true")

	c := config.New()
	require.Equal(t, ":9000", c.GetPort())
	require.True(t, c.IsProduction())
	require.Equal(t, 3*time.Second, c.GetProviderTimeout())
	require.Equal(t, 15*time.Minute, c.GetMaxSessionAge())
	require.True(t, c.GetVerifyIDToken())
}
