package jwks

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrUnknownKeyID is returned when a key ID is absent from the current
	// snapshot even after a refresh.
	ErrUnknownKeyID = errors.New("unknown signing key id")

	// ErrKeySourceUnavailable is returned when the key set cannot be
	// retrieved and no cached key can serve the lookup. Transport failures,
	// unparseable documents, and empty documents all collapse into this one
	// outcome; the distinction is only logged.
	ErrKeySourceUnavailable = errors.New("signing key source unavailable")
)

// FetchFunc retrieves a fresh key set snapshot. Fetcher.Fetch satisfies it.
type FetchFunc func(ctx context.Context) (*KeySet, error)

// Cache holds at most one current KeySet and serves key lookups from it.
// The snapshot is replaced only by whole-snapshot substitution under the
// mutex; readers never observe a partially built mapping.
//
// One Cache instance is shared by all request workers. It is constructed at
// startup and passed by reference; there is no package-level state.
type Cache struct {
	fetch  FetchFunc
	ttl    time.Duration
	logger Logger

	mu      sync.RWMutex
	current *KeySet

	group singleflight.Group
}

// NewCache builds a Cache over the given fetch function.
func NewCache(fetch FetchFunc, opts ...CacheOption) (*Cache, error) {
	if fetch == nil {
		return nil, fmt.Errorf("fetch function is required but was nil")
	}

	c := &Cache{
		fetch:  fetch,
		ttl:    time.Hour,
		logger: nopLogger{},
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("invalid cache option: %w", err)
		}
	}

	return c, nil
}

// Lookup resolves kid to a verification key.
//
// A fresh snapshot containing the kid answers immediately with no network
// call. Otherwise the cache refreshes at most once: the new snapshot replaces
// the old one unconditionally, so a provider key rotation always wins, and
// the kid is re-checked against it. A kid absent from the refreshed snapshot
// is ErrUnknownKeyID. A failed refresh is ErrKeySourceUnavailable, unless the
// stale snapshot still contains the kid, in which case the stale key serves
// the lookup opportunistically (staleness schedules replacement, it does not
// invalidate).
func (c *Cache) Lookup(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	snap := c.current
	c.mu.RUnlock()

	if snap != nil && time.Since(snap.fetchedAt) < c.ttl {
		if key, ok := snap.keys[kid]; ok {
			return key, nil
		}
	}

	fresh, err := c.refresh(ctx)
	if err != nil {
		if snap != nil {
			if key, ok := snap.keys[kid]; ok {
				c.logger.Warnf("key set refresh failed, serving stale key %q: %v", kid, err)
				return key, nil
			}
		}
		c.logger.Errorf("key set refresh failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrKeySourceUnavailable, err)
	}

	if key, ok := fresh.keys[kid]; ok {
		return key, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKeyID, kid)
}

// refresh fetches a new snapshot and installs it as current. Concurrent
// callers missing the cache at the same time share a single fetch; each still
// receives a complete, self-consistent snapshot.
func (c *Cache) refresh(ctx context.Context) (*KeySet, error) {
	v, err, _ := c.group.Do("refresh", func() (any, error) {
		set, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.current = set
		c.mu.Unlock()

		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*KeySet), nil
}
