// Package oauthflow implements the browser-facing half of the OAuth2
// Authorization Code flow: starting a login and completing the callback.
//
// Begin mints a random CSRF secret, stores it in a signed cookie scoped to
// the callback path and returns the provider authorization URL carrying the
// secret as state. Complete runs the callback state machine:
//
//	ReceivedQuery -> ParsedOutcome -> CsrfValidated -> TokenExchanged -> IdentityFetched
//
// Any step may end the flow with a *FlowError whose Reason selects one of a
// fixed set of user-facing messages. The CSRF cookie is consumed before any
// request reaches the provider, so a forged callback never spends a code.
//
// Login and Callback wrap Begin and Complete as http.HandlerFuncs that
// always answer with a 302, either to the provider, to the success target
// or to /error?error=<message>.
package oauthflow
