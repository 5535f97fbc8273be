// Package requestid tags each HTTP request with an identifier that follows
// it through logs and the X-Request-ID response header.
package requestid
