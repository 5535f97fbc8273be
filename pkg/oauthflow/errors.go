package oauthflow

import (
	"errors"
	"fmt"
)

// Reason identifies why a flow ended in error. Values are stable and used as
// metric labels.
type Reason string

const (
	ReasonProviderRejected    Reason = "provider_rejected"
	ReasonMalformedCallback   Reason = "malformed_callback"
	ReasonCSRFMissing         Reason = "csrf_missing"
	ReasonCSRFMismatch        Reason = "csrf_mismatch"
	ReasonExchangeFailed      Reason = "exchange_failed"
	ReasonIdentityFetchFailed Reason = "identity_fetch_failed"
	ReasonInternal            Reason = "internal"
)

var (
	ErrProviderRejected    = errors.New("oauthflow: provider returned an error")
	ErrMalformedCallback   = errors.New("oauthflow: malformed callback query")
	ErrCSRFMissing         = errors.New("oauthflow: csrf token not found or expired")
	ErrCSRFMismatch        = errors.New("oauthflow: csrf token mismatch")
	ErrExchangeFailed      = errors.New("oauthflow: code exchange failed")
	ErrIdentityFetchFailed = errors.New("oauthflow: identity fetch failed")
	ErrInternal            = errors.New("oauthflow: internal error")
)

var reasons = map[Reason]struct {
	sentinel error
	message  string
}{
	ReasonProviderRejected:    {ErrProviderRejected, "OAuth2 provider returned an error. Did you refuse the connection?"},
	ReasonMalformedCallback:   {ErrMalformedCallback, "Malformed OAuth2 callback request"},
	ReasonCSRFMissing:         {ErrCSRFMissing, "CSRF token not found in session, may have expired"},
	ReasonCSRFMismatch:        {ErrCSRFMismatch, "CSRF Token mismatch detected"},
	ReasonExchangeFailed:      {ErrExchangeFailed, "Failed to exchange authorization code for access token"},
	ReasonIdentityFetchFailed: {ErrIdentityFetchFailed, "Failed to fetch user data from OAuth2 provider"},
	ReasonInternal:            {ErrInternal, "Unable to start the login flow, please try again"},
}

// Message is the text shown to the user. It never includes provider output.
func (r Reason) Message() string {
	if v, ok := reasons[r]; ok {
		return v.message
	}
	return reasons[ReasonInternal].message
}

// FlowError ends a login or callback. It matches the sentinel for its
// Reason and, when set, the underlying cause.
type FlowError struct {
	Reason Reason
	Err    error
}

func newFlowError(reason Reason, cause error) *FlowError {
	return &FlowError{Reason: reason, Err: cause}
}

func (e *FlowError) Error() string {
	sentinel := e.sentinel()
	if e.Err == nil {
		return sentinel.Error()
	}
	return fmt.Sprintf("%s: %v", sentinel, e.Err)
}

func (e *FlowError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.sentinel()}
	}
	return []error{e.sentinel(), e.Err}
}

// Message is the user-facing message for the error's Reason.
func (e *FlowError) Message() string { return e.Reason.Message() }

func (e *FlowError) sentinel() error {
	if v, ok := reasons[e.Reason]; ok {
		return v.sentinel
	}
	return ErrInternal
}

// ReasonOf extracts the Reason from err, defaulting to ReasonInternal.
func ReasonOf(err error) Reason {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Reason
	}
	return ReasonInternal
}
