// Package jwks retrieves the identity provider's published signing keys and
// caches them as immutable snapshots keyed by key ID.
//
// A Fetcher performs one bounded HTTP GET of the provider's well-known JWKS
// document per call. A Cache holds at most one current KeySet snapshot and
// replaces it wholesale on refresh, so concurrent readers always observe a
// complete key mapping.
package jwks
