// Package auth validates bearer tokens issued by an external identity
// provider and gates HTTP requests on the result.
//
// The Verifier decodes a token, enforces the fixed RS256 algorithm before any
// key lookup, resolves the signing key through a jwks.Cache, verifies the
// signature and claims, and produces a Principal or exactly one typed
// rejection. The Middleware exposes the two entry points callers use:
// RequireAuth, which answers every rejection with one generic unauthorized
// response, and OptionalAuth, which degrades silently to an anonymous
// request.
package auth
