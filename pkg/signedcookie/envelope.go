package signedcookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"strings"
)

var b64 = base64.RawURLEncoding.Strict()

// Encode signs the JSON encoding of payload for the cookie called name.
func Encode[T any](key Key, name string, payload T) (string, error) {
	if key.IsZero() {
		return "", ErrKeyTooShort
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	payloadEnc := b64.EncodeToString(data)
	sigEnc := b64.EncodeToString(sign(key, name, payloadEnc))

	return payloadEnc + "." + sigEnc, nil
}

// Decode verifies an envelope produced by Encode for the same cookie name and
// decodes its payload.
func Decode[T any](key Key, name, envelope string) (T, error) {
	var payload T
	if key.IsZero() {
		return payload, ErrKeyTooShort
	}

	parts := strings.Split(envelope, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return payload, ErrInvalidEnvelope
	}

	sig, err := b64.DecodeString(parts[1])
	if err != nil {
		return payload, ErrInvalidEnvelope
	}

	// The signature covers the encoded payload, so it is checked before the
	// payload is decoded at all.
	if subtle.ConstantTimeCompare(sig, sign(key, name, parts[0])) != 1 {
		return payload, ErrSignatureInvalid
	}

	data, err := b64.DecodeString(parts[0])
	if err != nil {
		return payload, ErrInvalidEnvelope
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, ErrInvalidEnvelope
	}

	return payload, nil
}

func sign(key Key, name, payloadEnc string) []byte {
	h := hmac.New(sha256.New, key.b)
	h.Write([]byte(name))
	h.Write([]byte{'='})
	h.Write([]byte(payloadEnc))
	return h.Sum(nil)
}
