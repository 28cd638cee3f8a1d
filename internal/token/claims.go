// Package token decodes bearer tokens client-side and resolves the user
// identity from their claims.
package token

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedToken means the string is not a well-formed token at all.
	ErrMalformedToken = errors.New("malformed token")
	// ErrMissingIdentity means the token decoded fine but carries no usable
	// user identifier; callers must treat this as "not authenticated".
	ErrMissingIdentity = errors.New("no user identifier in token claims")
)

// Candidate claim keys, probed in order, first present non-empty value
// wins. The URI-style keys are what ASP.NET Identity backends emit.
var (
	userIDKeys = []string{
		"sub",
		"nameid",
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier",
	}
	displayNameKeys = []string{
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name",
		"given_name",
		"name",
		"username",
	}
)

// Claims is the string-keyed identity mapping extracted from a token.
type Claims map[string]any

// Decode extracts the claims mapping from a bearer token without verifying
// the signature. The client never holds the signing key; verification is
// the server's job, we only need the payload.
func Decode(raw string) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMalformedToken
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return Claims(claims), nil
}

// UserID resolves the user identifier from the claims mapping.
func (c Claims) UserID() (string, error) {
	if v := c.first(userIDKeys); v != "" {
		return v, nil
	}
	return "", ErrMissingIdentity
}

// DisplayName resolves a display name, or "" when the token carries none.
// A missing name is not an error; screens simply skip the greeting.
func (c Claims) DisplayName() string {
	return c.first(displayNameKeys)
}

func (c Claims) first(keys []string) string {
	for _, k := range keys {
		v, ok := c[k]
		if !ok || v == nil {
			continue
		}
		if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
			return s
		}
	}
	return ""
}
