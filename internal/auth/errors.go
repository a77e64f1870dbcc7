package auth

import (
	"fmt"

	"github.com/desertthunder/spotsearch/internal/shared"
)

// AuthorizationError is reported by Spotify on the redirect (?error=access_denied and similar).
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("authorization failed: %s", e.Reason)
}

func (e *AuthorizationError) Unwrap() error { return shared.ErrAuthFailed }

// ExchangeError is a non-success response from the token endpoint.
type ExchangeError struct {
	StatusCode int
	Body       string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("token request failed: %d %s", e.StatusCode, e.Body)
}

func (e *ExchangeError) Unwrap() error { return shared.ErrAuthFailed }
