// Package signedcookie provides tamper-evident cookies for short-lived,
// single-use values such as OAuth2 state tokens.
//
// Values are not encrypted. The client can read them, but any modification is
// detected because every cookie carries an HMAC-SHA256 signature over its name
// and payload.
//
// Envelope format: base64url(json payload) "." base64url(signature)
//
// Both segments use unpadded, strict base64url decoding and the full 32-byte
// signature, so flipping any bit of an encoded value invalidates it.
//
// # Keys
//
// A Key is derived with HKDF-SHA256 from a configured secret of at least 32
// bytes. The secret itself never signs anything directly.
//
//	key, err := signedcookie.NewKey([]byte(os.Getenv("OAUTH_42_STATE_COOKIE_SIGNING_KEY")))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Store
//
// Store wraps a single request/response pair and exposes the cookie jar as an
// explicit capability:
//
//	store := signedcookie.NewStore(w, r, signedcookie.WithPath("/auth/42/"))
//	_ = store.Set("oauth_42_csrf_token", secret, key, 3*time.Minute, "")
//
//	// later, on another request
//	value, ok := store.PopVerified("oauth_42_csrf_token", key)
//
// PopVerified never reports why a value is missing: an expired, tampered and
// absent cookie all look the same to the caller.
package signedcookie
