package auth

import (
	"net/http"
	"strings"
)

// ExtractBearerToken pulls the bearer token out of the request's
// Authorization header. Header name matching is case-insensitive (net/http
// canonicalizes names); the scheme must be exactly "Bearer " in RFC 6750's
// canonical form. A missing header, a different scheme, and an empty token
// all report no token rather than an error.
func ExtractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
