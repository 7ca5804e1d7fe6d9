package models

import "time"

// TokenClaims is the subset of a bearer token payload the harness relies on.
// It is derived on demand and never persisted.
type TokenClaims struct {
	Role        Role
	WorkspaceID string
	ExpiresAt   time.Time
}

// Valid reports whether the token is still usable at t.
func (c TokenClaims) Valid(t time.Time) bool {
	return c.ExpiresAt.After(t)
}
