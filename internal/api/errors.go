package api

import "fmt"

// AuthError means the upstream rejected the operator's credentials.
// It is only produced by Login; the session is left untouched.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authentication failed (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// HTTPError is any non-2xx response during a user-initiated mutation.
// Callers surface it; cached state stays at last-known-good.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream API returned status %d: %s", e.StatusCode, e.Message)
}
