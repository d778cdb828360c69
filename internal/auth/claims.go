package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Recognized token_use values. Anything else is rejected, never silently
// accepted.
const (
	TokenUseID     = "id"
	TokenUseAccess = "access"
)

// Claims is the decoded token payload. The embedded registered claims carry
// sub, iss, aud, exp, and iat; token_use discriminates id tokens from access
// tokens, and client_id carries the audience on access tokens, which the
// provider issues without an aud claim. Claims are never mutated after
// decoding.
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	TokenUse string `json:"token_use"`
	ClientID string `json:"client_id,omitempty"`
}

// Principal is the authenticated identity exposed to callers after a
// successful validation. It is a projection of Claims and carries no
// cryptographic material.
type Principal struct {
	ID    string
	Email string
	Name  string
}

func (c *Claims) principal() *Principal {
	return &Principal{
		ID:    c.Subject,
		Email: c.Email,
		Name:  c.Name,
	}
}
