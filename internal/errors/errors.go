package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Common error types for the login flow
var (
	// Deployment errors
	ErrConfiguration = errors.New("configuration error")

	// Provider errors
	ErrTokenExchange  = errors.New("token exchange failed")
	ErrUserInfo       = errors.New("user info request failed")
	ErrInvalidIDToken = errors.New("invalid id token")
	ErrMissingIDToken = errors.New("no id token in session")

	// Session errors
	ErrSession         = errors.New("session unreadable")
	ErrMissingVerifier = errors.New("no code verifier in session")
	ErrStateMismatch   = errors.New("state mismatch")
)

// ConfigurationError lists the deployment values that are absent or unusable.
// It is fatal at startup.
type ConfigurationError struct {
	Missing []string
	Invalid string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if e.Invalid != "" {
		parts = append(parts, fmt.Sprintf("invalid %s: %s", e.Invalid, e.Reason))
	}
	return ErrConfiguration.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// ProviderError carries the HTTP status and body returned by the identity
// provider. Status is zero when no response was received.
type ProviderError struct {
	Status int
	Body   string
	Err    error
}

func (e ProviderError) describe(prefix string) string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d: %s", prefix, e.Status, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	default:
		return prefix
	}
}

// TokenExchangeError is returned when the token endpoint rejects the code,
// verifier, refresh token or client credentials, or cannot be reached.
type TokenExchangeError struct {
	ProviderError
}

func (e *TokenExchangeError) Error() string {
	return e.describe(ErrTokenExchange.Error())
}

func (e *TokenExchangeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTokenExchange}
	}
	return []error{ErrTokenExchange, e.Err}
}

// UserInfoError is returned when the user info endpoint fails.
type UserInfoError struct {
	ProviderError
}

func (e *UserInfoError) Error() string {
	return e.describe(ErrUserInfo.Error())
}

func (e *UserInfoError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUserInfo}
	}
	return []error{ErrUserInfo, e.Err}
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
