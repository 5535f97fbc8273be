// Package clientip resolves the address of the client behind a request.
//
// Forwarding headers (CF-Connecting-IP, X-Forwarded-For, X-Real-IP) are
// only honoured when the deployment sits behind a proxy that sets them;
// otherwise any client could spoof its address. Middleware stores the result
// in the request context and LoggerExtractor exposes it to the logger.
package clientip
