package clientip_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthgate/pkg/clientip"
	"github.com/dmitrymomot/oauthgate/pkg/logger"
)

func TestGetIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trust      bool
		want       string
	}{
		{name: "remote addr with port", remoteAddr: "192.0.2.10:5123", want: "192.0.2.10"},
		{name: "remote addr without port", remoteAddr: "192.0.2.10", want: "192.0.2.10"},
		{name: "ipv6 remote addr", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "garbage remote addr", remoteAddr: "not-an-ip", want: ""},
		{
			name:       "headers ignored when untrusted",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5"},
			want:       "10.0.0.1",
		},
		{
			name:       "forwarded chain uses leftmost valid",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "bogus, 203.0.113.5, 10.0.0.2"},
			trust:      true,
			want:       "203.0.113.5",
		},
		{
			name:       "cloudflare header first",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"CF-Connecting-IP": "198.51.100.7", "X-Forwarded-For": "203.0.113.5"},
			trust:      true,
			want:       "198.51.100.7",
		},
		{
			name:       "invalid headers fall back to remote addr",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Real-IP": "999.1.1.1"},
			trust:      true,
			want:       "10.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.GetIP(r, tt.trust))
		})
	}
}

func TestMiddlewareAndExtractor(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf), logger.WithContextExtractors(clientip.LoggerExtractor()))

	h := clientip.Middleware(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "203.0.113.9", clientip.FromContext(r.Context()))
		log.InfoContext(r.Context(), "seen")
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	h.ServeHTTP(httptest.NewRecorder(), r)

	require.Contains(t, buf.String(), `"client_ip":"203.0.113.9"`)

	buf.Reset()
	log.Info("no request")
	assert.NotContains(t, buf.String(), "client_ip")
}
