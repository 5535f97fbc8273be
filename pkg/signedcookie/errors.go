package signedcookie

import "errors"

var (
	ErrKeyTooShort      = errors.New("signedcookie: signing secret must be at least 32 bytes")
	ErrInvalidEnvelope  = errors.New("signedcookie: invalid envelope format")
	ErrSignatureInvalid = errors.New("signedcookie: signature mismatch")
	ErrExpired          = errors.New("signedcookie: value expired")
)
