package oauthflow

import (
	"context"
	"crypto/rand"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/oauthgate/pkg/logger"
	"github.com/dmitrymomot/oauthgate/pkg/signedcookie"
	"github.com/dmitrymomot/oauthgate/svc/provider"
)

// Provider is the identity provider side of the flow. *provider.Client
// implements it.
type Provider interface {
	Name() string
	CookieName() string
	CookiePath() string
	StateTTL() time.Duration
	SigningKey() signedcookie.Key
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchIdentity(ctx context.Context, tok *oauth2.Token) (provider.Identity, error)
}

// SessionStore is the cookie jar of one request. *signedcookie.Store
// implements it.
type SessionStore interface {
	Set(name, value string, key signedcookie.Key, ttl time.Duration, path string) error
	PopVerified(name string, key signedcookie.Key) (string, bool)
	Remove(name string)
}

// Recorder counts flow outcomes. *metrics.Metrics implements it.
type Recorder interface {
	LoginStarted(provider string)
	CallbackCompleted(provider, outcome string)
}

// AuthenticatedFunc runs after a successful callback and returns where to
// send the browser. An empty result means the default success path.
type AuthenticatedFunc func(w http.ResponseWriter, r *http.Request, id provider.Identity) string

const (
	secretSize = 32

	defaultSuccessPath = "/"
	defaultErrorPath   = "/error"
)

// Flow drives logins against one provider. It holds no per-request state
// and is safe for concurrent use.
type Flow struct {
	provider    Provider
	log         *slog.Logger
	recorder    Recorder
	tracer      trace.Tracer
	random      io.Reader
	onAuth      AuthenticatedFunc
	secure      bool
	successPath string
	errorPath   string
}

// Option configures a Flow.
type Option func(*Flow)

func WithLogger(l *slog.Logger) Option {
	return func(f *Flow) {
		if l != nil {
			f.log = l
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(f *Flow) { f.recorder = r }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(f *Flow) {
		if tp != nil {
			f.tracer = tp.Tracer("github.com/dmitrymomot/oauthgate/pkg/oauthflow")
		}
	}
}

// WithRandom replaces the source of CSRF secrets. Tests only.
func WithRandom(r io.Reader) Option {
	return func(f *Flow) {
		if r != nil {
			f.random = r
		}
	}
}

// WithOnAuthenticated installs the post-login hook, e.g. session issuance.
func WithOnAuthenticated(fn AuthenticatedFunc) Option {
	return func(f *Flow) { f.onAuth = fn }
}

// WithSecureCookies sets the Secure attribute of the CSRF cookie. On by
// default; only local plain-HTTP development should turn it off.
func WithSecureCookies(secure bool) Option {
	return func(f *Flow) { f.secure = secure }
}

// WithRedirectPaths overrides the success and error redirect targets.
// Empty values keep the defaults "/" and "/error".
func WithRedirectPaths(success, failure string) Option {
	return func(f *Flow) {
		if success != "" {
			f.successPath = success
		}
		if failure != "" {
			f.errorPath = failure
		}
	}
}

func New(p Provider, opts ...Option) *Flow {
	f := &Flow{
		provider:    p,
		log:         logger.Discard(),
		tracer:      noop.NewTracerProvider().Tracer(""),
		random:      rand.Reader,
		secure:      true,
		successPath: defaultSuccessPath,
		errorPath:   defaultErrorPath,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.log = f.log.With(logger.Component("oauthflow"), logger.Provider(p.Name()))
	return f
}

// NewStore binds a signed cookie store to one request using the flow's
// cookie settings.
func (f *Flow) NewStore(w http.ResponseWriter, r *http.Request) *signedcookie.Store {
	return signedcookie.NewStore(w, r,
		signedcookie.WithSecure(f.secure),
		signedcookie.WithPath(f.provider.CookiePath()),
	)
}

func (f *Flow) recordLogin() {
	if f.recorder != nil {
		f.recorder.LoginStarted(f.provider.Name())
	}
}

func (f *Flow) recordCallback(outcome string) {
	if f.recorder != nil {
		f.recorder.CallbackCompleted(f.provider.Name(), outcome)
	}
}
