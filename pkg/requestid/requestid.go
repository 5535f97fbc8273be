package requestid

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/dmitrymomot/oauthgate/pkg/logger"
)

const (
	Header      = "X-Request-ID"
	maxIDLength = 128
)

var validID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type contextKey struct{}

// Option configures the middleware.
type Option func(*settings)

type settings struct {
	trustHeader bool
	generate    func() string
}

// WithTrustHeader controls whether a well-formed incoming X-Request-ID is
// reused. Enabled by default; disable when the gateway is exposed directly.
func WithTrustHeader(trust bool) Option {
	return func(s *settings) { s.trustHeader = trust }
}

// WithGenerator replaces the id generator.
func WithGenerator(fn func() string) Option {
	return func(s *settings) {
		if fn != nil {
			s.generate = fn
		}
	}
}

// Middleware assigns every request an id, stores it in the request context
// and echoes it in the response header.
func Middleware(opts ...Option) func(http.Handler) http.Handler {
	s := &settings{trustHeader: true, generate: newID}
	for _, opt := range opts {
		opt(s)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if !s.trustHeader || !isValid(id) {
				id = s.generate()
			}
			w.Header().Set(Header, id)
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), id)))
		})
	}
}

func newID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

func isValid(id string) bool {
	return id != "" && len(id) <= maxIDLength && validID.MatchString(id)
}

func WithContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// LoggerExtractor adds the request id to records logged with a request
// context.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := FromContext(ctx); id != "" {
			return logger.RequestID(id), true
		}
		return slog.Attr{}, false
	}
}
