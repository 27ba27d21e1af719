package config

import (
	"os"
	"time"
)

const (
	sessionSecretVar = "SESSION_SECRET"
	sessionMaxAgeVar = "SESSION_MAX_AGE"
	sessionDirVar    = "SESSION_DIR"

	// MinSessionSecretLength is the smallest accepted SESSION_SECRET, in bytes.
	MinSessionSecretLength = 32
)

type SecurityConfig interface {
	GetSessionSecret() string
	GetMaxSessionAge() time.Duration
	GetSessionDir() string
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetSessionSecret() string {
	return os.Getenv(sessionSecretVar)
}

func (Security) GetMaxSessionAge() time.Duration {
	return durationEnv(sessionMaxAgeVar, 8*time.Hour)
}

// GetSessionDir is the directory holding server side session files. Empty
// selects the session store's default under the system temp directory.
func (Security) GetSessionDir() string {
	return os.Getenv(sessionDirVar)
}
