package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	portEnvVar = "PORT"
	appNameVar = "APP_NAME"
	envVar     = "ENV"
	baseURLVar = "APP_BASE_URL"

	envDev  = "DEV"
	envProd = "PROD"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Keycloak PKCE")
}

func (EnvVars) GetEnv() string {
	return strings.ToUpper(GetEnv(envVar, envDev))
}

func (e EnvVars) IsProduction() bool {
	return e.GetEnv() == envProd
}

// GetBaseURL returns the public base URL of this application (e.g. "https://app.example.com").
// The OAuth redirect URI and the post logout redirect are built from it.
func (EnvVars) GetBaseURL() string {
	return strings.TrimRight(os.Getenv(baseURLVar), "/")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
