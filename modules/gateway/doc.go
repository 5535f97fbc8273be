// Package gateway assembles the HTTP surface of the authentication gateway:
// a chi router that resolves client ip and request id, traces, counts and
// logs requests, and recovers panics in front of the login and callback
// handlers.
//
// Auth routes can live under a prefix (ROUTE_PREFIX, e.g. /api) so that the
// paths the browser sees behind a reverse proxy match the CSRF cookie path.
package gateway
