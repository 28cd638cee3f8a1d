package api

import (
	"fmt"
	"net/http"
)

// FetchError is a failed read against the remote API. Message carries the
// server-supplied text when the response body had one; callers decide the
// user-visible wording.
type FetchError struct {
	Op      string
	Status  int
	Message string
}

func (e *FetchError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}

// Unauthorized reports whether the server rejected the bearer token.
func (e *FetchError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// MutationError is a failed create, update or delete. The prior view state
// stays intact; callers surface a transient notification and let the user
// retry manually.
type MutationError struct {
	Op      string
	Status  int
	Message string
}

func (e *MutationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}
