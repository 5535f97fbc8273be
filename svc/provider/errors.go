package provider

import (
	"errors"
	"strings"
)

var (
	ErrInvalidConfig      = errors.New("provider: invalid configuration")
	ErrExchange           = errors.New("provider: code exchange failed")
	ErrIdentityRequest    = errors.New("provider: identity request failed")
	ErrIdentityStatus     = errors.New("provider: identity endpoint returned a non-success status")
	ErrIdentityDecode     = errors.New("provider: identity response is not valid JSON")
	ErrIdentityIncomplete = errors.New("provider: identity response is missing required fields")
	ErrEmptyAuthCode      = errors.New("provider: empty authorization code")
	ErrMissingAccessToken = errors.New("provider: token response carries no access token")
)

// ConfigError lists every problem found in a Config. It matches
// ErrInvalidConfig with errors.Is.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return ErrInvalidConfig.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }
