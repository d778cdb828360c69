package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AllowedAlgorithm is the single verification algorithm tokens may declare.
// It is fixed at design time and never read from the token.
const AllowedAlgorithm = "RS256"

// KeyResolver resolves a key ID to verification key material. jwks.Cache
// satisfies it.
type KeyResolver interface {
	Lookup(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

// Verifier validates bearer tokens against the configured issuer using keys
// resolved through a KeyResolver. A Verifier is immutable after construction
// and safe for concurrent use.
type Verifier struct {
	keys     KeyResolver
	issuer   string
	clientID string
	logger   Logger
	parser   *jwt.Parser
}

// NewVerifier builds a Verifier. The key resolver and issuer are required;
// without an issuer every validation would have to fail closed, so
// construction refuses outright.
func NewVerifier(keys KeyResolver, issuer string, opts ...VerifierOption) (*Verifier, error) {
	if keys == nil {
		return nil, errors.New("key resolver is required but was nil")
	}
	if issuer == "" {
		return nil, errors.New("issuer is required but was empty")
	}

	v := &Verifier{
		keys:   keys,
		issuer: issuer,
		logger: nopLogger{},
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{AllowedAlgorithm}),
			jwt.WithExpirationRequired(),
		),
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("invalid verifier option: %w", err)
		}
	}

	return v, nil
}

// tokenHeader is the unprotected JOSE header portion the verifier inspects
// before any cryptographic work.
type tokenHeader struct {
	Algorithm string `json:"alg"`
	KeyID     string `json:"kid"`
}

// ValidateToken runs the validation sequence and returns the authenticated
// principal or exactly one rejection. Steps are ordered and each failure is
// terminal: structure, header decode, algorithm (before any key lookup, so a
// token can never steer verification toward a weaker algorithm), key
// resolution, signature, expiration, issuer, token_use, audience.
func (v *Verifier) ValidateToken(ctx context.Context, token string) (*Principal, error) {
	if v == nil || v.issuer == "" {
		// Fail closed on a zero-value Verifier rather than treating the
		// request as anonymous.
		return nil, ErrIssuerNotConfigured
	}

	segments := strings.Split(token, ".")
	if len(segments) != 3 || segments[0] == "" || segments[1] == "" || segments[2] == "" {
		return nil, fmt.Errorf("%w: token must have three segments", ErrMalformedToken)
	}

	header, err := decodeHeader(segments[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if header.Algorithm != AllowedAlgorithm {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, header.Algorithm)
	}
	if header.KeyID == "" {
		return nil, fmt.Errorf("%w: header has no kid", ErrMalformedToken)
	}

	// Key-resolution failures pass through unchanged.
	key, err := v.keys.Lookup(ctx, header.KeyID)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	if _, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return key, nil
	}); err != nil {
		return nil, mapParseError(err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrMalformedToken)
	}
	if claims.Issuer != v.issuer {
		return nil, fmt.Errorf("%w: %q", ErrIssuerMismatch, claims.Issuer)
	}
	switch claims.TokenUse {
	case TokenUseID, TokenUseAccess:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidTokenUse, claims.TokenUse)
	}
	if err := v.checkAudience(claims); err != nil {
		return nil, err
	}

	v.logger.Debugf("validated %s token for subject %s", claims.TokenUse, claims.Subject)

	return claims.principal(), nil
}

// checkAudience applies the per-token_use audience policy. Id tokens carry
// the client ID in aud; access tokens have no aud claim but name the client
// in client_id, which is checked when present. With no client ID configured
// the policy is disabled entirely.
func (v *Verifier) checkAudience(claims *Claims) error {
	if v.clientID == "" {
		return nil
	}

	if claims.TokenUse == TokenUseID {
		for _, aud := range claims.Audience {
			if aud == v.clientID {
				return nil
			}
		}
		return fmt.Errorf("%w: aud does not contain the configured client", ErrInvalidAudience)
	}

	if claims.ClientID != "" && claims.ClientID != v.clientID {
		return fmt.Errorf("%w: client_id does not match the configured client", ErrInvalidAudience)
	}
	return nil
}

func decodeHeader(segment string) (*tokenHeader, error) {
	raw, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return nil, fmt.Errorf("header segment is not base64url: %w", err)
	}

	var header tokenHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, fmt.Errorf("header segment is not JSON: %w", err)
	}
	return &header, nil
}

// mapParseError folds the jwt library's error tree into the rejection
// taxonomy. The library verifies the signature before validating claims, so
// an expiration failure implies the signature already checked out.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
}
