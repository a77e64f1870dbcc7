package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrMissingVerifier  = fmt.Errorf("missing code_verifier, log in again")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and transport errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrNetwork            = fmt.Errorf("network error")
	ErrInvalidResponse    = fmt.Errorf("invalid response")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Storage errors
	ErrStorage = fmt.Errorf("storage error")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
