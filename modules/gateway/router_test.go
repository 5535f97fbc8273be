package gateway_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthgate/modules/gateway"
	"github.com/dmitrymomot/oauthgate/pkg/clientip"
	"github.com/dmitrymomot/oauthgate/pkg/environment"
	"github.com/dmitrymomot/oauthgate/pkg/logger"
	"github.com/dmitrymomot/oauthgate/pkg/metrics"
	"github.com/dmitrymomot/oauthgate/pkg/requestid"
)

type stubFlow struct {
	panicOnLogin bool
}

func (s stubFlow) Login(w http.ResponseWriter, r *http.Request) {
	if s.panicOnLogin {
		panic("boom")
	}
	http.Redirect(w, r, "https://provider.example.com/oauth/authorize", http.StatusFound)
}

func (s stubFlow) Callback(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}

func newRouter(t *testing.T, cfg gateway.Config, flow gateway.Authenticator) (http.Handler, *bytes.Buffer, *metrics.Metrics) {
	t.Helper()
	m, err := metrics.New()
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf), logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()))

	return gateway.Router(gateway.RouterOptions{
		Config:       cfg,
		ProviderName: "42",
		Flow:         flow,
		Logger:       log,
		Metrics:      m,
	}), buf, m
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRouter(t *testing.T) {
	t.Parallel()

	t.Run("health check", func(t *testing.T) {
		t.Parallel()

		h, _, _ := newRouter(t, gateway.Config{}, stubFlow{})
		rec := get(h, "/health-check")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get(requestid.Header))
	})

	t.Run("auth routes", func(t *testing.T) {
		t.Parallel()

		h, _, _ := newRouter(t, gateway.Config{}, stubFlow{})
		assert.Equal(t, http.StatusFound, get(h, "/auth/42/login").Code)
		assert.Equal(t, "/", get(h, "/auth/42/callback?code=a&state=b").Header().Get("Location"))
		assert.Equal(t, http.StatusNotFound, get(h, "/auth/github/login").Code)
		assert.Equal(t, http.StatusMethodNotAllowed, func() int {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/42/login", nil))
			return rec.Code
		}())
	})

	t.Run("route prefix", func(t *testing.T) {
		t.Parallel()

		h, _, _ := newRouter(t, gateway.Config{RoutePrefix: "/api"}, stubFlow{})
		assert.Equal(t, http.StatusFound, get(h, "/api/auth/42/login").Code)
		assert.Equal(t, http.StatusNotFound, get(h, "/auth/42/login").Code)
		assert.Equal(t, http.StatusOK, get(h, "/health-check").Code)
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		t.Parallel()

		h, _, _ := newRouter(t, gateway.Config{MetricsEnabled: true}, stubFlow{})
		get(h, "/auth/42/login")

		rec := get(h, "/metrics")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `oauthgate_http_requests_total{method="GET",route="/auth/42/login",status="302"} 1`)

		disabled, _, _ := newRouter(t, gateway.Config{MetricsEnabled: false}, stubFlow{})
		assert.Equal(t, http.StatusNotFound, get(disabled, "/metrics").Code)
	})

	t.Run("panics are recovered", func(t *testing.T) {
		t.Parallel()

		h, logs, _ := newRouter(t, gateway.Config{}, stubFlow{panicOnLogin: true})
		rec := get(h, "/auth/42/login")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, logs.String(), `"level":"ERROR"`)
	})

	t.Run("request log omits the query string", func(t *testing.T) {
		t.Parallel()

		h, logs, _ := newRouter(t, gateway.Config{}, stubFlow{})
		get(h, "/auth/42/callback?code=secret-code&state=secret-state")

		out := logs.String()
		assert.Contains(t, out, `"route":"/auth/42/callback"`)
		assert.Contains(t, out, `"request_id"`)
		assert.Contains(t, out, `"status":302`)
		assert.Equal(t, 1, strings.Count(out, `"client_ip":"192.0.2.1"`), "client ip logged exactly once")
		assert.False(t, strings.Contains(out, "secret-code") || strings.Contains(out, "secret-state"))
	})
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     gateway.Config
		wantErr bool
	}{
		{"defaults", gateway.Config{Env: environment.Development, CookieSecure: true, SuccessRedirect: "/", ErrorRedirect: "/error"}, false},
		{"insecure cookies in development", gateway.Config{Env: environment.Development}, false},
		{"insecure cookies in production", gateway.Config{Env: environment.Production}, true},
		{"prefix", gateway.Config{CookieSecure: true, RoutePrefix: "/api"}, false},
		{"prefix without slash", gateway.Config{CookieSecure: true, RoutePrefix: "api"}, true},
		{"prefix with trailing slash", gateway.Config{CookieSecure: true, RoutePrefix: "/api/"}, true},
		{"absolute redirect", gateway.Config{CookieSecure: true, ErrorRedirect: "https://evil.example.com"}, true},
		{"protocol-relative redirect", gateway.Config{CookieSecure: true, SuccessRedirect: "//evil.example.com"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.ErrorIs(t, gateway.Config{Env: environment.Production}.Validate(), gateway.ErrInsecureCookies)
}
