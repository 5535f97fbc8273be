package oauthflow

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/codes"

	"github.com/dmitrymomot/oauthgate/pkg/logger"
)

// Begin starts a login: it stores a fresh CSRF secret in store and returns
// the provider authorization URL carrying that secret as state.
func (f *Flow) Begin(ctx context.Context, store SessionStore) (string, error) {
	ctx, span := f.tracer.Start(ctx, "oauthflow.login")
	defer span.End()

	secret, err := f.newSecret()
	if err != nil {
		span.SetStatus(codes.Error, string(ReasonInternal))
		return "", newFlowError(ReasonInternal, err)
	}

	authURL := f.provider.AuthCodeURL(secret)

	p := f.provider
	if err := store.Set(p.CookieName(), secret, p.SigningKey(), p.StateTTL(), p.CookiePath()); err != nil {
		span.SetStatus(codes.Error, string(ReasonInternal))
		return "", newFlowError(ReasonInternal, err)
	}

	f.recordLogin()
	f.log.DebugContext(ctx, "login started")
	return authURL, nil
}

// newSecret returns 32 random bytes as unpadded base64url (43 characters).
func (f *Flow) newSecret() (string, error) {
	b := make([]byte, secretSize)
	if _, err := io.ReadFull(f.random, b); err != nil {
		return "", fmt.Errorf("generate csrf secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Login handles GET /auth/{provider}/login.
func (f *Flow) Login(w http.ResponseWriter, r *http.Request) {
	authURL, err := f.Begin(r.Context(), f.NewStore(w, r))
	if err != nil {
		f.log.ErrorContext(r.Context(), "login failed", logger.Reason(string(ReasonOf(err))), logger.Error(err))
		f.redirect(w, r, f.errorURL(ReasonOf(err)))
		return
	}
	f.redirect(w, r, authURL)
}
