package signedcookie

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// MinSecretSize is the minimum length of the configured signing secret.
	MinSecretSize = 32

	keySize = 32

	// hkdfInfo separates the cookie signing key from any other key derived
	// from the same secret.
	hkdfInfo = "oauthgate-signed-cookie-v1"
)

// Key is an HMAC-SHA256 key used to sign and verify cookie envelopes.
// The zero value is not usable; build one with NewKey.
type Key struct {
	b []byte
}

// NewKey derives a signing key from secret, which must be at least
// MinSecretSize bytes long.
func NewKey(secret []byte) (Key, error) {
	if len(secret) < MinSecretSize {
		return Key{}, ErrKeyTooShort
	}

	r := hkdf.New(sha256.New, secret, nil, []byte(hkdfInfo))
	derived := make([]byte, keySize)
	if _, err := io.ReadFull(r, derived); err != nil {
		return Key{}, errors.Join(ErrKeyTooShort, err)
	}
	return Key{b: derived}, nil
}

// IsZero reports whether k was never initialised.
func (k Key) IsZero() bool {
	return len(k.b) == 0
}

// String keeps key material out of logs and fmt output.
func (k Key) String() string {
	return "[REDACTED]"
}

// GoString keeps key material out of %#v output.
func (k Key) GoString() string {
	return "signedcookie.Key{[REDACTED]}"
}
