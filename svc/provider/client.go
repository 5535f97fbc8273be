package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/oauthgate/pkg/signedcookie"
)

// maxIdentityBody caps how much of the identity response is read.
const maxIdentityBody = 1 << 20

// Identity is the authenticated user as reported by the provider.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Login string `json:"login"`
}

// LogValue omits the email address.
func (i Identity) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("id", i.ID),
		slog.String("login", i.Login),
	)
}

// Observer receives the outcome and latency of every provider call.
type Observer interface {
	ProviderRequest(provider, operation string, d time.Duration, err error)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for token and identity calls.
// Its Timeout is overwritten with Config.HTTPTimeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			cp := *hc
			c.http = &cp
		}
	}
}

// WithTracerProvider enables spans around provider calls.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer("github.com/dmitrymomot/oauthgate/svc/provider")
		}
	}
}

// WithObserver registers an Observer, typically the metrics collector.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// Client talks to one OAuth2 provider. It is safe for concurrent use.
type Client struct {
	cfg        Config
	oauth      *oauth2.Config
	key        signedcookie.Key
	cookiePath string
	http       *http.Client
	tracer     trace.Tracer
	observer   Observer
}

// New validates cfg and builds a Client. Validation failures are returned as
// *ConfigError.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.AuthStyle == "" {
		cfg.AuthStyle = AuthStyleHeader
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	key, err := signedcookie.NewKey([]byte(cfg.StateCookieSigningKey))
	if err != nil {
		return nil, &ConfigError{Problems: []string{err.Error()}}
	}

	// Auto-detection would retry the token call with the other style.
	style := oauth2.AuthStyleInHeader
	if cfg.AuthStyle == AuthStyleParams {
		style = oauth2.AuthStyleInParams
	}

	c := &Client{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: style,
			},
		},
		key:        key,
		cookiePath: cfg.cookiePath(),
		http:       &http.Client{},
		tracer:     noop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.Timeout = cfg.HTTPTimeout
	return c, nil
}

func (c *Client) Name() string { return c.cfg.Name }

// CookieName is the name of the CSRF cookie for this provider.
func (c *Client) CookieName() string { return "oauth_" + c.cfg.Name + "_csrf_token" }

func (c *Client) CookiePath() string { return c.cookiePath }

func (c *Client) StateTTL() time.Duration { return c.cfg.StateTTL }

// SigningKey is the key that signs and verifies the CSRF cookie.
func (c *Client) SigningKey() signedcookie.Key { return c.key }

// AuthCodeURL returns the authorization endpoint URL carrying client_id,
// redirect_uri, scope, response_type=code and state.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange trades an authorization code for a token with a single request
// to the token endpoint. Failures wrap ErrExchange and are never retried.
func (c *Client) Exchange(ctx context.Context, code string) (tok *oauth2.Token, err error) {
	ctx, span := c.tracer.Start(ctx, "provider.exchange", trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("oauth.provider", c.cfg.Name)))
	start := time.Now()
	defer func() { c.finish(span, "exchange", start, err) }()

	if code == "" {
		return nil, errors.Join(ErrExchange, ErrEmptyAuthCode)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	tok, err = c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExchange, err)
	}
	if tok.AccessToken == "" {
		return nil, errors.Join(ErrExchange, ErrMissingAccessToken)
	}
	return tok, nil
}

// FetchIdentity calls the identity endpoint with tok as bearer credential.
// A non-2xx status, a body that is not JSON, or a body missing id, email or
// login is an error.
func (c *Client) FetchIdentity(ctx context.Context, tok *oauth2.Token) (id Identity, err error) {
	ctx, span := c.tracer.Start(ctx, "provider.identity", trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("oauth.provider", c.cfg.Name)))
	start := time.Now()
	defer func() { c.finish(span, "identity", start, err) }()

	if tok == nil || tok.AccessToken == "" {
		return Identity{}, errors.Join(ErrIdentityRequest, ErrMissingAccessToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.UserInfoURL, nil)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrIdentityRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	hc := &http.Client{
		Transport: &oauth2.Transport{Source: oauth2.StaticTokenSource(tok), Base: c.http.Transport},
		Timeout:   c.http.Timeout,
	}
	resp, err := hc.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrIdentityRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxIdentityBody))
		return Identity{}, fmt.Errorf("%w: %d", ErrIdentityStatus, resp.StatusCode)
	}

	var body struct {
		ID    *int64  `json:"id"`
		Email *string `json:"email"`
		Login *string `json:"login"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxIdentityBody)).Decode(&body); err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrIdentityDecode, err)
	}
	if body.ID == nil || body.Email == nil || body.Login == nil {
		return Identity{}, ErrIdentityIncomplete
	}

	return Identity{ID: *body.ID, Email: *body.Email, Login: *body.Login}, nil
}

// finish closes a provider span. Error details stay out of the span: token
// endpoint errors may echo request parameters.
func (c *Client) finish(span trace.Span, op string, start time.Time, err error) {
	if err != nil {
		span.SetStatus(codes.Error, op+" failed")
	}
	span.End()
	if c.observer != nil {
		c.observer.ProviderRequest(c.cfg.Name, op, time.Since(start), err)
	}
}
