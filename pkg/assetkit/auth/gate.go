// Package auth provides the shared-secret gate for mutating operations.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
)

// TokenGate authorizes requests against a configured shared secret.
type TokenGate struct {
	secret [sha256.Size]byte
}

// NewTokenGate creates a gate for the given secret. The secret comes from
// configuration, never a compile-time literal.
func NewTokenGate(secret string) *TokenGate {
	return &TokenGate{secret: sha256.Sum256([]byte(secret))}
}

// Authorize reports whether the presented token matches the configured
// secret. Both sides are hashed before a constant-time comparison so
// neither the secret's length nor a matching prefix leaks through timing.
// A missing, malformed, or mismatched token all fail identically.
func (g *TokenGate) Authorize(token string) bool {
	presented := sha256.Sum256([]byte(token))
	return subtle.ConstantTimeCompare(presented[:], g.secret[:]) == 1
}
