package jwks

import (
	"fmt"
	"net/http"
	"time"
)

// Logger is the narrow logging interface this package writes to. The auth
// package's adapters (zap, logrus, zerolog) satisfy it.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher) error

// WithHTTPClient replaces the default HTTP client. The client must carry a
// timeout: an unbounded key set retrieval stalls every concurrent validation
// sharing the cache.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) error {
		if client == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		if client.Timeout <= 0 {
			return fmt.Errorf("http client must have a timeout")
		}
		f.client = client
		return nil
	}
}

// WithFetcherLogger sets the logger used for dropped-key and fetch diagnostics.
func WithFetcherLogger(logger Logger) FetcherOption {
	return func(f *Fetcher) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		f.logger = logger
		return nil
	}
}

// CacheOption configures a Cache.
type CacheOption func(*Cache) error

// WithTTL sets how long a snapshot is considered fresh. Defaults to one hour.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) error {
		if ttl <= 0 {
			return fmt.Errorf("ttl must be positive")
		}
		c.ttl = ttl
		return nil
	}
}

// WithCacheLogger sets the logger used for refresh diagnostics.
func WithCacheLogger(logger Logger) CacheOption {
	return func(c *Cache) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}
