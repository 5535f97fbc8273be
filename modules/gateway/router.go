package gateway

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/dmitrymomot/oauthgate/pkg/clientip"
	"github.com/dmitrymomot/oauthgate/pkg/httpserver"
	"github.com/dmitrymomot/oauthgate/pkg/logger"
	"github.com/dmitrymomot/oauthgate/pkg/metrics"
	"github.com/dmitrymomot/oauthgate/pkg/requestid"
	"github.com/dmitrymomot/oauthgate/pkg/telemetry"
)

// Authenticator is the login flow for one provider. *oauthflow.Flow
// implements it.
type Authenticator interface {
	Login(w http.ResponseWriter, r *http.Request)
	Callback(w http.ResponseWriter, r *http.Request)
}

// RouterOptions wires the gateway. Flow and ProviderName are required; the
// rest is optional.
type RouterOptions struct {
	Config         Config
	ProviderName   string
	Flow           Authenticator
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	TracerProvider trace.TracerProvider
}

// Router builds the HTTP surface:
//
//	GET {prefix}/auth/{provider}/login
//	GET {prefix}/auth/{provider}/callback
//	GET /health-check
//	GET /metrics (when enabled)
func Router(opts RouterOptions) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = noop.NewTracerProvider()
	}

	r := chi.NewRouter()
	r.Use(clientip.Middleware(opts.Config.TrustProxy))
	r.Use(requestid.Middleware())
	r.Use(telemetry.Middleware(tp, routePattern))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware(routePattern))
	}
	r.Use(requestLogger(log.With(logger.Component("http"))))
	r.Use(middleware.Recoverer)

	r.Get("/health-check", httpserver.HealthCheckHandler())
	if opts.Metrics != nil && opts.Config.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	auth := func(ar chi.Router) {
		ar.Route("/auth/"+opts.ProviderName, func(pr chi.Router) {
			pr.Get("/login", opts.Flow.Login)
			pr.Get("/callback", opts.Flow.Callback)
		})
	}
	if opts.Config.RoutePrefix != "" {
		r.Route(opts.Config.RoutePrefix, auth)
	} else {
		auth(r)
	}

	return r
}
