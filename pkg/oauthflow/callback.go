package oauthflow

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/dmitrymomot/oauthgate/pkg/binder"
	"github.com/dmitrymomot/oauthgate/pkg/logger"
	"github.com/dmitrymomot/oauthgate/svc/provider"
)

// maxLoggedDescription bounds how much of a provider error description is
// logged; the value is attacker-controlled.
const maxLoggedDescription = 256

// CallbackQuery is the query of the provider redirect. Pointer fields are
// nil when the parameter is absent.
type CallbackQuery struct {
	Code             *string `query:"code"`
	State            *string `query:"state"`
	Error            *string `query:"error"`
	ErrorDescription *string `query:"error_description"`
}

// Complete runs the callback state machine and returns the authenticated
// identity. Every failure is a *FlowError. The CSRF cookie is consumed or
// removed on every path.
func (f *Flow) Complete(ctx context.Context, q CallbackQuery, store SessionStore) (id provider.Identity, err error) {
	ctx, span := f.tracer.Start(ctx, "oauthflow.callback")
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = string(ReasonOf(err))
			span.SetStatus(codes.Error, outcome)
		}
		span.SetAttributes(attribute.String("oauth.outcome", outcome))
		span.End()
		f.recordCallback(outcome)
	}()

	p := f.provider

	// ReceivedQuery -> ParsedOutcome
	if q.Code == nil || q.State == nil {
		store.Remove(p.CookieName())
		if q.Error != nil {
			f.log.WarnContext(ctx, "provider rejected authorization",
				logger.Reason(string(ReasonProviderRejected)),
				slog.String("provider_error", truncate(*q.Error)),
				slog.String("provider_error_description", truncate(deref(q.ErrorDescription))),
			)
			return provider.Identity{}, newFlowError(ReasonProviderRejected, nil)
		}
		f.log.WarnContext(ctx, "malformed callback", logger.Reason(string(ReasonMalformedCallback)))
		return provider.Identity{}, newFlowError(ReasonMalformedCallback, nil)
	}

	// ParsedOutcome -> CsrfValidated, strictly before any provider call.
	stored, ok := store.PopVerified(p.CookieName(), p.SigningKey())
	if !ok {
		store.Remove(p.CookieName())
		f.log.WarnContext(ctx, "csrf token not found or expired", logger.Reason(string(ReasonCSRFMissing)))
		return provider.Identity{}, newFlowError(ReasonCSRFMissing, nil)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(*q.State)) != 1 {
		f.log.WarnContext(ctx, "csrf token mismatch", logger.Reason(string(ReasonCSRFMismatch)))
		return provider.Identity{}, newFlowError(ReasonCSRFMismatch, nil)
	}

	// CsrfValidated -> TokenExchanged
	tok, err := p.Exchange(ctx, *q.Code)
	if err != nil {
		f.log.ErrorContext(ctx, "authorization code exchange failed",
			logger.Reason(string(ReasonExchangeFailed)), logger.Error(err))
		return provider.Identity{}, newFlowError(ReasonExchangeFailed, err)
	}

	// TokenExchanged -> IdentityFetched
	id, err = p.FetchIdentity(ctx, tok)
	if err != nil {
		f.log.ErrorContext(ctx, "identity fetch failed",
			logger.Reason(string(ReasonIdentityFetchFailed)), logger.Error(err))
		return provider.Identity{}, newFlowError(ReasonIdentityFetchFailed, err)
	}

	f.log.InfoContext(ctx, "user authenticated", logger.UserID(id.ID), logger.UserLogin(id.Login))
	return id, nil
}

// Callback handles GET /auth/{provider}/callback.
func (f *Flow) Callback(w http.ResponseWriter, r *http.Request) {
	store := f.NewStore(w, r)

	var q CallbackQuery
	if err := binder.Query(r, &q); err != nil {
		// An unparseable query is handled as the malformed shape.
		q = CallbackQuery{}
	}

	id, err := f.Complete(r.Context(), q, store)
	if err != nil {
		f.redirect(w, r, f.errorURL(ReasonOf(err)))
		return
	}

	target := f.successPath
	if f.onAuth != nil {
		if t := f.onAuth(w, r, id); t != "" {
			target = t
		}
	}
	f.redirect(w, r, target)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string) string {
	if len(s) <= maxLoggedDescription {
		return s
	}
	return strings.ToValidUTF8(s[:maxLoggedDescription], "") + "..."
}
