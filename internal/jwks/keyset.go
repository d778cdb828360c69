package jwks

import (
	"context"
	"crypto/rsa"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

const wellKnownPath = "/.well-known/jwks.json"

// maxDocumentSize bounds the JWKS response body. Real documents are a few
// kilobytes; anything near this limit is not a key set.
const maxDocumentSize = 1 << 20

// KeySet is an immutable snapshot of the provider's RSA verification keys,
// keyed by kid, together with the time it was captured. It is built wholesale
// by a fetch and never mutated afterwards.
type KeySet struct {
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// Key returns the verification key for kid, if the snapshot contains it.
func (s *KeySet) Key(kid string) (*rsa.PublicKey, bool) {
	key, ok := s.keys[kid]
	return key, ok
}

// Len reports how many usable keys the snapshot holds.
func (s *KeySet) Len() int { return len(s.keys) }

// FetchedAt returns the snapshot's capture time.
func (s *KeySet) FetchedAt() time.Time { return s.fetchedAt }

// Fetcher retrieves the provider's JWKS document over HTTP and parses it
// into a KeySet. One call performs exactly one retrieval; there are no
// retries. The HTTP client carries a timeout so a stalled provider cannot
// block callers indefinitely.
type Fetcher struct {
	jwksURL string
	client  *http.Client
	logger  Logger
}

// NewFetcher builds a Fetcher for the given issuer. The JWKS document is
// expected at the issuer's well-known path.
func NewFetcher(issuer string, opts ...FetcherOption) (*Fetcher, error) {
	if issuer == "" {
		return nil, fmt.Errorf("issuer is required but was empty")
	}

	f := &Fetcher{
		jwksURL: strings.TrimSuffix(issuer, "/") + wellKnownPath,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  nopLogger{},
	}

	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, fmt.Errorf("invalid fetcher option: %w", err)
		}
	}

	return f, nil
}

// Fetch performs one retrieval of the JWKS document and returns the parsed
// snapshot. Entries that are not RSA keys, lack a kid, or fail to decode are
// dropped with a log line rather than stored as errors. A document with zero
// usable keys is a failure: callers must never install an empty snapshot.
func (f *Fetcher) Fetch(ctx context.Context) (*KeySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("could not build key set request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch key set: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("key set endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("could not read key set response: %w", err)
	}

	set, err := jwk.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("could not parse key set document: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, set.Len())
	for i := 0; i < set.Len(); i++ {
		key, ok := set.Key(i)
		if !ok {
			continue
		}
		kid := key.KeyID()
		if kid == "" {
			f.logger.Warnf("dropping key set entry without kid")
			continue
		}
		if key.KeyType() != jwa.RSA {
			f.logger.Debugf("dropping non-RSA key %q of type %s", kid, key.KeyType())
			continue
		}

		var pub rsa.PublicKey
		if err := key.Raw(&pub); err != nil {
			f.logger.Warnf("dropping unparseable RSA key %q: %v", kid, err)
			continue
		}
		keys[kid] = &pub
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("key set document contains no usable RSA keys")
	}

	f.logger.Infof("fetched key set with %d verification keys", len(keys))

	return &KeySet{keys: keys, fetchedAt: time.Now()}, nil
}
