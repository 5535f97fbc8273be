// Package provider is the client side of the OAuth2 Authorization Code flow
// against a single identity provider (the 42 intranet by default).
//
// New validates a Config and returns a Client that builds authorization
// URLs, exchanges codes at the token endpoint and fetches the user identity
// with the resulting bearer token. Token exchange is a single request with an
// explicit client authentication style and is never retried: authorization
// codes are single use.
package provider
