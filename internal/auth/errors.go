package auth

import (
	"errors"

	"github.com/stashkeep/stash-api/internal/jwks"
)

// Validation rejections. Every failed validation returns exactly one of
// these (or one of the jwks package's two key-resolution kinds, which pass
// through unchanged). None of them is retried.
var (
	// ErrMissingToken is returned when the request carries no bearer token.
	ErrMissingToken = errors.New("bearer token missing")

	// ErrMalformedToken is returned when the token does not have the
	// three-segment structure, its header cannot be decoded, or a required
	// claim is absent.
	ErrMalformedToken = errors.New("malformed token")

	// ErrUnsupportedAlgorithm is returned when the token header declares any
	// algorithm other than the single allowed one.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

	// ErrSignatureInvalid is returned when the signature does not verify
	// against the resolved key.
	ErrSignatureInvalid = errors.New("token signature invalid")

	// ErrTokenExpired is returned when the expiration time is not strictly
	// in the future.
	ErrTokenExpired = errors.New("token expired")

	// ErrIssuerMismatch is returned when the iss claim differs from the
	// configured issuer.
	ErrIssuerMismatch = errors.New("token issuer mismatch")

	// ErrInvalidTokenUse is returned when token_use is neither "id" nor
	// "access".
	ErrInvalidTokenUse = errors.New("invalid token use")

	// ErrInvalidAudience is returned when the token fails the audience
	// policy for its token_use.
	ErrInvalidAudience = errors.New("invalid token audience")

	// ErrIssuerNotConfigured is returned when no issuer was configured.
	// It is an infrastructure failure, distinct from the token-level kinds,
	// and fails closed like ErrKeySourceUnavailable.
	ErrIssuerNotConfigured = errors.New("token issuer not configured")
)

// RejectionKind names the category of a validation failure for internal
// diagnostics. It feeds logs and metrics only; clients always receive the
// same generic unauthorized response regardless of kind.
func RejectionKind(err error) string {
	switch {
	case errors.Is(err, ErrMissingToken):
		return "missing_token"
	case errors.Is(err, ErrUnsupportedAlgorithm):
		return "unsupported_algorithm"
	case errors.Is(err, jwks.ErrUnknownKeyID):
		return "unknown_key_id"
	case errors.Is(err, jwks.ErrKeySourceUnavailable):
		return "key_source_unavailable"
	case errors.Is(err, ErrSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrIssuerMismatch):
		return "issuer_mismatch"
	case errors.Is(err, ErrInvalidTokenUse):
		return "invalid_token_use"
	case errors.Is(err, ErrInvalidAudience):
		return "invalid_audience"
	case errors.Is(err, ErrIssuerNotConfigured):
		return "issuer_not_configured"
	case errors.Is(err, ErrMalformedToken):
		return "malformed_token"
	default:
		return "unknown"
	}
}
